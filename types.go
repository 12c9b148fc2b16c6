package mdbrief

import (
	"net/http"
	"time"
)

// Input contains conversion parameters.
type Input struct {
	Markdown string // Markdown content (required)
	Title    string // Document title ("" = auto from first H1)
	Subtitle string // Document subtitle ("" = auto from first italic blockquote)
	Author   string // Author name for the cover page (optional)
	NoCover  bool   // Skip the cover page
	NoCache  bool   // Clear the diagram cache and force fresh renders
	HTMLOnly bool   // Skip PDF generation (for debugging)
}

// Result holds the output of a conversion.
type Result struct {
	PDF      []byte // Rendered PDF (nil when Input.HTMLOnly is set)
	HTML     string // Assembled HTML document
	Diagrams int    // Number of Mermaid diagrams found in the source
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout    time.Duration
	cacheDir   string
	krokiURL   string
	httpClient *http.Client
	retryDelay time.Duration
}

// Defaults used when no option overrides them.
const (
	defaultTimeout  = 30 * time.Second
	defaultCacheDir = ".mermaid-cache"
)

// WithTimeout sets the PDF generation timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdbrief: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithCacheDir sets the directory for the on-disk diagram cache.
func WithCacheDir(dir string) Option {
	return func(s *Service) {
		s.cfg.cacheDir = dir
	}
}

// WithKrokiURL sets the base URL of the diagram render service.
func WithKrokiURL(url string) Option {
	return func(s *Service) {
		s.cfg.krokiURL = url
	}
}

// WithHTTPClient sets the HTTP client used for diagram render calls.
// Useful for custom transports and tests.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.cfg.httpClient = client
	}
}

// WithRetryDelay sets the base delay between diagram render retries.
// Panics if d < 0.
func WithRetryDelay(d time.Duration) Option {
	if d < 0 {
		panic("mdbrief: WithRetryDelay duration must not be negative")
	}
	return func(s *Service) {
		s.cfg.retryDelay = d
	}
}
