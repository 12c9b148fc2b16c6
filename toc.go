package mdbrief

import (
	"html"
	"regexp"
	"strings"
)

// HeadingEntry is one heading scanned from the Markdown source, in document
// order. Slug is the base slug (no uniqueness suffix).
type HeadingEntry struct {
	Level int // 2 or 3
	Title string
	Slug  string
}

// Heading line patterns (ATX style, levels 2 and 3 only).
var (
	h2LinePattern = regexp.MustCompile(`^## (.+)$`)
	h3LinePattern = regexp.MustCompile(`^### (.+)$`)
)

// tocFencePattern matches fenced code block delimiters.
var tocFencePattern = regexp.MustCompile("^(```|~~~)")

// scanHeadings extracts h2/h3 heading lines from Markdown source in document
// order, skipping fenced code blocks. The id-injection pass is driven by the
// rendered HTML, where fenced code cannot produce headings, so both passes
// see the same heading sequence.
func scanHeadings(mdContent string) []HeadingEntry {
	var entries []HeadingEntry
	inCodeBlock := false

	for _, line := range strings.Split(mdContent, "\n") {
		if tocFencePattern.MatchString(line) {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}
		if m := h2LinePattern.FindStringSubmatch(line); m != nil {
			title := strings.TrimSpace(m[1])
			entries = append(entries, HeadingEntry{Level: 2, Title: title, Slug: Slugify(title)})
		} else if m := h3LinePattern.FindStringSubmatch(line); m != nil {
			title := strings.TrimSpace(m[1])
			entries = append(entries, HeadingEntry{Level: 3, Title: title, Slug: Slugify(title)})
		}
	}
	return entries
}

// isTOCTitle reports whether a heading is itself a table-of-contents heading.
func isTOCTitle(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "table of contents") ||
		strings.Contains(lower, "table des matières")
}

// buildTOC renders the table of contents from raw Markdown source.
//
// Links use the base slug of each heading. When a document repeats a heading
// title, the injected ids are suffixed (base, base-1, ...) while every TOC
// link still points at the base slug, so later duplicates resolve to the
// first occurrence. Returns "" when the document has no h2/h3 headings.
func buildTOC(mdContent, tocTitle string) string {
	entries := scanHeadings(mdContent)
	if len(entries) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("<div class=\"toc\">\n")
	buf.WriteString("<h2 class=\"toc-title\">")
	buf.WriteString(html.EscapeString(tocTitle))
	buf.WriteString("</h2>\n")
	buf.WriteString("<ul class=\"toc-list\">\n")

	for _, e := range entries {
		if isTOCTitle(e.Title) {
			continue
		}
		css := "toc-h2"
		if e.Level == 3 {
			css = "toc-h3"
		}
		buf.WriteString(`  <li class="` + css + `"><a href="#` + e.Slug + `">`)
		buf.WriteString(html.EscapeString(e.Title))
		buf.WriteString("</a></li>\n")
	}

	buf.WriteString("</ul>\n</div>\n")
	return buf.String()
}

// Manual TOC section headings removed from the source before conversion.
var manualTOCHeadings = []string{
	"## Table of Contents\n",
	"## Table des matières\n",
}

// removeManualTOC deletes a hand-written table-of-contents section so it is
// not duplicated by the generated one. The section runs from its heading to
// the next thematic break ("\n---"), the next h2, or end of input.
func removeManualTOC(mdContent string) string {
	for _, heading := range manualTOCHeadings {
		start := strings.Index(mdContent, heading)
		if start == -1 {
			continue
		}

		rest := mdContent[start+len(heading):]
		end := len(rest)
		if idx := strings.Index(rest, "\n---"); idx != -1 && idx < end {
			end = idx
		}
		if idx := strings.Index(rest, "\n## "); idx != -1 && idx < end {
			end = idx
		}

		mdContent = mdContent[:start] + rest[end:]
		break
	}
	return mdContent
}

// Patterns for fragment link resolution.
var (
	idAttrPattern   = regexp.MustCompile(`id="([^"]+)"`)
	fragmentPattern = regexp.MustCompile(`href="#([^"]+)"`)
)

// resolveFragmentLinks remaps fragment hrefs that do not match any injected
// id, retrying with runs of hyphens collapsed. Unresolvable links are left
// unchanged.
func resolveFragmentLinks(htmlContent string) string {
	ids := make(map[string]bool)
	for _, m := range idAttrPattern.FindAllStringSubmatch(htmlContent, -1) {
		ids[m[1]] = true
	}

	return fragmentPattern.ReplaceAllStringFunc(htmlContent, func(m string) string {
		fragment := fragmentPattern.FindStringSubmatch(m)[1]
		if ids[fragment] {
			return m
		}
		collapsed := slugHyphenRunPattern.ReplaceAllString(fragment, "-")
		if ids[collapsed] {
			return `href="#` + collapsed + `"`
		}
		return m
	})
}
