package mdbrief

import (
	"context"
	"fmt"
	"time"
)

// defaultTOCTitle is the generated table-of-contents heading.
const defaultTOCTitle = "Table of Contents"

// coverDateFormat matches the long-form date shown on the cover page.
const coverDateFormat = "January 2, 2006"

// Service orchestrates the markdown-to-PDF pipeline.
type Service struct {
	cfg           serviceConfig
	preprocessor  markdownPreprocessor
	htmlConverter htmlConverter
	assembler     *documentAssembler
	diagrams      *diagramPipeline
	pdfConverter  pdfConverter
	now           func() time.Time
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithCacheDir).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout:  defaultTimeout,
			cacheDir: defaultCacheDir,
		},
		preprocessor:  &quirkPreprocessor{},
		htmlConverter: newGoldmarkConverter(),
		assembler:     newDocumentAssembler(),
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Create collaborators if not injected (e.g., by tests)
	if s.diagrams == nil {
		s.diagrams = &diagramPipeline{
			cache:    NewRenderCache(s.cfg.cacheDir),
			renderer: newKrokiClient(s.cfg.krokiURL, s.cfg.httpClient, s.cfg.retryDelay),
		}
	}
	if s.pdfConverter == nil {
		s.pdfConverter = newRodConverter(s.cfg.timeout)
	}

	return s
}

// Convert runs the full pipeline and returns the result containing HTML and
// PDF. The context is used for cancellation and timeout.
// If input.HTMLOnly is true, PDF generation is skipped (for debugging).
func (s *Service) Convert(ctx context.Context, input Input) (*Result, error) {
	if input.Markdown == "" {
		return nil, ErrEmptyMarkdown
	}

	mdContent := input.Markdown

	// Resolve metadata unless overridden
	title := input.Title
	if title == "" {
		title = extractTitle(mdContent)
	}
	subtitle := input.Subtitle
	if subtitle == "" {
		subtitle = extractSubtitle(mdContent)
	}

	// TOC is built from the raw source, before any transformation
	tocHTML := buildTOC(mdContent, defaultTOCTitle)

	// Drop a hand-written TOC section so it is not duplicated
	mdContent = removeManualTOC(mdContent)

	// Preprocess markdown
	mdContent = s.preprocessor.PreprocessMarkdown(ctx, mdContent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Clear the diagram cache if requested, before any lookups
	if input.NoCache {
		if err := s.diagrams.cache.Clear(); err != nil {
			return nil, err
		}
	}

	// Render diagrams sequentially in document order
	diagramCount := s.diagrams.CountBlocks(mdContent)
	mdContent = s.diagrams.ReplaceBlocks(ctx, mdContent, input.NoCache)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Convert to HTML
	bodyHTML, err := s.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	// Inject heading ids so TOC links resolve
	bodyHTML = injectHeadingIDs(bodyHTML)

	// Assemble the full document
	var cover *coverData
	if !input.NoCover {
		main, accent := splitCoverTitle(title)
		cover = &coverData{
			TitleMain:   main,
			TitleAccent: accent,
			Subtitle:    subtitle,
			Author:      input.Author,
			Date:        s.now().Format(coverDateFormat),
		}
	}
	fullHTML, err := s.assembler.Assemble(title, cover, tocHTML, bodyHTML)
	if err != nil {
		return nil, fmt.Errorf("assembling document: %w", err)
	}

	// Remap TOC links against the injected ids
	fullHTML = resolveFragmentLinks(fullHTML)

	res := &Result{
		HTML:     fullHTML,
		Diagrams: diagramCount,
	}

	// Skip PDF generation if HTMLOnly mode
	if input.HTMLOnly {
		return res, nil
	}

	pdfBytes, err := s.pdfConverter.ToPDF(ctx, fullHTML, &pdfOptions{Title: title})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	res.PDF = pdfBytes

	return res, nil
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.pdfConverter != nil {
		return s.pdfConverter.Close()
	}
	return nil
}
