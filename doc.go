// Package mdbrief converts Markdown documents with Mermaid diagrams into
// styled PDF briefs.
//
// # Quick Start
//
// Create a service, convert markdown, and close when done:
//
//	svc := mdbrief.New()
//	defer svc.Close()
//
//	result, err := svc.Convert(ctx, mdbrief.Input{
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", result.PDF, 0644)
//
// The result contains both the PDF bytes (result.PDF) and the assembled
// HTML (result.HTML) for debugging. Use Input.HTMLOnly to skip PDF
// generation.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Metadata extraction (title from first H1, subtitle from blockquote)
//  2. Table of contents built from raw heading lines
//  3. Markdown preprocessing (blockquote line breaks, list separation)
//  4. Mermaid fences replaced with rendered PNGs (Kroki, cached on disk)
//  5. Markdown to HTML conversion via Goldmark (GFM, syntax highlighting)
//  6. Heading id injection so TOC links resolve
//  7. Document assembly (cover page, TOC, stylesheet)
//  8. PDF rendering via headless Chrome (go-rod)
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := mdbrief.New(
//	    mdbrief.WithTimeout(2 * time.Minute),
//	    mdbrief.WithCacheDir("/var/cache/mdbrief"),
//	    mdbrief.WithKrokiURL("https://kroki.example.com"),
//	)
//
// # Diagram Cache
//
// Rendered diagrams are stored on disk keyed by a hash of the diagram
// source, so repeated conversions of the same document issue no remote
// render calls. Input.NoCache clears the cache and forces fresh renders.
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package mdbrief
