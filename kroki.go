package mdbrief

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Render transport constants.
const (
	defaultKrokiURL      = "https://kroki.io"
	defaultRenderTimeout = 60 * time.Second
	defaultRetryDelay    = 1200 * time.Millisecond

	// maxGetSourceLen is the size threshold for the compact encoded-URL
	// transport; longer sources go straight to content submission.
	maxGetSourceLen = 2000

	getAttempts  = 2
	postAttempts = 3
)

// diagramRenderer abstracts the remote render collaborator.
type diagramRenderer interface {
	Render(ctx context.Context, source string) ([]byte, error)
}

// krokiClient renders Mermaid sources to PNG via a Kroki server.
//
// Short sources first try the GET transport (deflate + URL-safe base64 in
// the path), which is faster; on failure, or for long sources, the client
// falls back to POSTing the source as JSON. Both transports are retried a
// bounded number of times with increasing delay. Exhausting all attempts is
// reported as an error, never a panic; callers degrade to a fallback
// rendering of the source.
type krokiClient struct {
	baseURL string
	client  *http.Client
	delay   time.Duration
}

// newKrokiClient creates a client for the given server. Zero values select
// defaults: the public Kroki instance, a 60s per-attempt budget, and a 1.2s
// base retry delay.
func newKrokiClient(baseURL string, client *http.Client, delay time.Duration) *krokiClient {
	if baseURL == "" {
		baseURL = defaultKrokiURL
	}
	if client == nil {
		client = &http.Client{Timeout: defaultRenderTimeout}
	}
	if delay == 0 {
		delay = defaultRetryDelay
	}
	return &krokiClient{baseURL: baseURL, client: client, delay: delay}
}

// Compile-time interface check.
var _ diagramRenderer = (*krokiClient)(nil)

// Render returns the PNG bytes for a Mermaid source, or an error after all
// transports and retries are exhausted. Sleeps between retries honor context
// cancellation.
func (k *krokiClient) Render(ctx context.Context, source string) ([]byte, error) {
	var lastErr error

	// Compact transport for short sources first (faster)
	if len(source) <= maxGetSourceLen {
		for attempt := 0; attempt < getAttempts; attempt++ {
			png, err := k.renderGet(ctx, source)
			if err == nil {
				return png, nil
			}
			lastErr = err
			if err := sleepContext(ctx, k.delay); err != nil {
				return nil, err
			}
		}
	}

	// Content-submission fallback
	for attempt := 0; attempt < postAttempts; attempt++ {
		if err := sleepContext(ctx, k.delay); err != nil {
			return nil, err
		}
		png, err := k.renderPost(ctx, source)
		if err == nil {
			return png, nil
		}
		lastErr = err
		if err := sleepContext(ctx, k.delay*time.Duration(attempt+1)); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrDiagramRender, lastErr)
}

// renderGet performs one attempt over the encoded-URL transport.
func (k *krokiClient) renderGet(ctx context.Context, source string) ([]byte, error) {
	encoded, err := encodeDiagramSource(source)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.baseURL+"/mermaid/png/"+encoded, nil)
	if err != nil {
		return nil, err
	}
	return k.do(req)
}

// renderPost performs one attempt over the content-submission transport.
func (k *krokiClient) renderPost(ctx context.Context, source string) ([]byte, error) {
	body, err := json.Marshal(struct {
		DiagramSource string `json:"diagram_source"`
	}{DiagramSource: source})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.baseURL+"/mermaid/png", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return k.do(req)
}

// do executes a request and reads the image payload.
func (k *krokiClient) do(req *http.Request) ([]byte, error) {
	resp, err := k.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrRenderStatus, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// encodeDiagramSource produces the URL path segment for the GET transport:
// zlib-compressed source in URL-safe base64.
func encodeDiagramSource(source string) (string, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := w.Write([]byte(source)); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(buf.Bytes()), nil
}

// sleepContext sleeps for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
