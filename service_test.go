package mdbrief

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// stubPDFConverter records the HTML it receives and returns canned bytes.
type stubPDFConverter struct {
	calls  int
	html   string
	title  string
	pdf    []byte
	err    error
	closed bool
}

func (s *stubPDFConverter) ToPDF(_ context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	s.calls++
	s.html = htmlContent
	if opts != nil {
		s.title = opts.Title
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.pdf, nil
}

func (s *stubPDFConverter) Close() error {
	s.closed = true
	return nil
}

// newTestService wires a Service with stubbed renderer and PDF collaborators.
func newTestService(t *testing.T, renderer diagramRenderer, pdf pdfConverter) *Service {
	t.Helper()
	svc := New(WithCacheDir(t.TempDir()))
	svc.diagrams = &diagramPipeline{
		cache:    NewRenderCache(svc.cfg.cacheDir),
		renderer: renderer,
	}
	svc.pdfConverter = pdf
	svc.now = func() time.Time {
		return time.Date(2026, time.January, 2, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

const sampleDoc = `# Atlas — Storage Layer Design

> *A concise tagline*

## Table of Contents
- [Overview](#overview)

## Overview

First overview section.

## Overview

Second section with the same heading.

### Rendering

` + "```mermaid\ngraph TD; A-->B\n```" + `
`

func TestService_Convert_HTMLOnly(t *testing.T) {
	renderer := &stubRenderer{png: largeImage('p')}
	pdf := &stubPDFConverter{pdf: []byte("%PDF")}
	svc := newTestService(t, renderer, pdf)

	result, err := svc.Convert(context.Background(), Input{
		Markdown: sampleDoc,
		Author:   "Jane Doe",
		HTMLOnly: true,
	})
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	if pdf.calls != 0 {
		t.Errorf("PDF converter called %d times in HTML-only mode, want 0", pdf.calls)
	}
	if result.PDF != nil {
		t.Error("Result.PDF set in HTML-only mode")
	}
	if result.Diagrams != 1 {
		t.Errorf("Result.Diagrams = %d, want 1", result.Diagrams)
	}

	html := result.HTML
	for _, want := range []string{
		"<title>Atlas — Storage Layer Design</title>",
		// Cover from extracted metadata and fixed clock
		"Atlas",
		"Storage Layer Design",
		"A concise tagline",
		"Jane Doe",
		"January 2, 2026",
		// Generated TOC with base-slug links
		`<h2 class="toc-title">Table of Contents</h2>`,
		`href="#overview"`,
		`href="#rendering"`,
		// Injected heading ids, duplicates suffixed
		`<h2 id="overview">Overview</h2>`,
		`<h2 id="overview-1">Overview</h2>`,
		`<h3 id="rendering">Rendering</h3>`,
		// Rendered diagram
		`<div class="diagram"><img src="data:image/png;base64,`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Convert() HTML missing %q", want)
		}
	}

	// The hand-written TOC list must not survive as body content
	if strings.Contains(html, `<a href="#overview">Overview</a></li>`) &&
		strings.Count(html, "Table of Contents") > 1 {
		t.Error("Convert() HTML kept the manual TOC section")
	}
	if strings.Contains(html, "```mermaid") {
		t.Error("Convert() HTML kept a raw mermaid fence")
	}
}

func TestService_Convert_PDF(t *testing.T) {
	renderer := &stubRenderer{png: largeImage('p')}
	pdf := &stubPDFConverter{pdf: []byte("%PDF-1.7 fake")}
	svc := newTestService(t, renderer, pdf)

	result, err := svc.Convert(context.Background(), Input{Markdown: sampleDoc})
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	if string(result.PDF) != "%PDF-1.7 fake" {
		t.Errorf("Result.PDF = %q, want stub output", result.PDF)
	}
	if pdf.calls != 1 {
		t.Errorf("PDF converter called %d times, want 1", pdf.calls)
	}
	if pdf.title != "Atlas — Storage Layer Design" {
		t.Errorf("PDF title = %q, want extracted document title", pdf.title)
	}
	if pdf.html != result.HTML {
		t.Error("PDF converter did not receive the assembled HTML")
	}
}

func TestService_Convert_EmptyMarkdown(t *testing.T) {
	svc := newTestService(t, &stubRenderer{}, &stubPDFConverter{})

	_, err := svc.Convert(context.Background(), Input{Markdown: ""})
	if !errors.Is(err, ErrEmptyMarkdown) {
		t.Errorf("Convert() error = %v, want ErrEmptyMarkdown", err)
	}
}

func TestService_Convert_TitleAndSubtitleOverrides(t *testing.T) {
	renderer := &stubRenderer{png: largeImage('p')}
	svc := newTestService(t, renderer, &stubPDFConverter{})

	result, err := svc.Convert(context.Background(), Input{
		Markdown: sampleDoc,
		Title:    "Custom Title",
		Subtitle: "Custom Subtitle",
		HTMLOnly: true,
	})
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	if !strings.Contains(result.HTML, "<title>Custom Title</title>") {
		t.Error("Convert() ignored the title override")
	}
	if !strings.Contains(result.HTML, `<p class="cover-sub">Custom Subtitle</p>`) {
		t.Error("Convert() ignored the subtitle override")
	}
	if strings.Contains(result.HTML, `<p class="cover-sub">A concise tagline</p>`) {
		t.Error("Convert() kept the extracted subtitle on the cover despite an override")
	}
}

func TestService_Convert_NoCover(t *testing.T) {
	renderer := &stubRenderer{png: largeImage('p')}
	svc := newTestService(t, renderer, &stubPDFConverter{})

	result, err := svc.Convert(context.Background(), Input{
		Markdown: sampleDoc,
		NoCover:  true,
		HTMLOnly: true,
	})
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	if strings.Contains(result.HTML, `class="cover"`) {
		t.Error("Convert() rendered a cover despite NoCover")
	}
}

func TestService_Convert_NoCacheClearsAndRerenders(t *testing.T) {
	renderer := &stubRenderer{png: largeImage('p')}
	svc := newTestService(t, renderer, &stubPDFConverter{})

	input := Input{Markdown: sampleDoc, HTMLOnly: true}

	// Warm the cache
	if _, err := svc.Convert(context.Background(), input); err != nil {
		t.Fatalf("first Convert() error: %v", err)
	}
	if renderer.calls != 1 {
		t.Fatalf("renderer called %d times after warm-up, want 1", renderer.calls)
	}

	// Cached run does not touch the renderer
	if _, err := svc.Convert(context.Background(), input); err != nil {
		t.Fatalf("second Convert() error: %v", err)
	}
	if renderer.calls != 1 {
		t.Errorf("renderer called %d times on cached run, want 1", renderer.calls)
	}

	// NoCache clears the store and forces a fresh render
	input.NoCache = true
	if _, err := svc.Convert(context.Background(), input); err != nil {
		t.Fatalf("NoCache Convert() error: %v", err)
	}
	if renderer.calls != 2 {
		t.Errorf("renderer called %d times after NoCache run, want 2", renderer.calls)
	}
}

func TestService_Convert_RenderFailureDegrades(t *testing.T) {
	renderer := &stubRenderer{err: errors.New("server down")}
	svc := newTestService(t, renderer, &stubPDFConverter{})

	result, err := svc.Convert(context.Background(), Input{Markdown: sampleDoc, HTMLOnly: true})
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	if !strings.Contains(result.HTML, `<div class="diagram-fallback">`) {
		t.Error("Convert() missing fallback rendering for failed diagram")
	}
	if result.Diagrams != 1 {
		t.Errorf("Result.Diagrams = %d, want 1 even when rendering fails", result.Diagrams)
	}
}

func TestService_Convert_ContextCancelled(t *testing.T) {
	svc := newTestService(t, &stubRenderer{png: largeImage('p')}, &stubPDFConverter{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Convert(ctx, Input{Markdown: sampleDoc})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
}

func TestService_Close(t *testing.T) {
	pdf := &stubPDFConverter{}
	svc := newTestService(t, &stubRenderer{}, pdf)

	if err := svc.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !pdf.closed {
		t.Error("Close() did not close the PDF converter")
	}
}
