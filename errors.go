package mdbrief

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Diagram rendering errors.
	ErrDiagramRender = errors.New("diagram rendering failed")
	ErrRenderStatus  = errors.New("render service returned unexpected status")

	// Cache errors.
	ErrCacheWrite = errors.New("failed to write cache entry")
	ErrCacheClear = errors.New("failed to clear cache")

	// Template errors.
	ErrCoverRender    = errors.New("cover template rendering failed")
	ErrDocumentRender = errors.New("document template rendering failed")
)
