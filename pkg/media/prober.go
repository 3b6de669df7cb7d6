package media

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	_ "golang.org/x/image/webp"
)

// DefaultProbeTimeout bounds a single probe when the caller configures none.
const DefaultProbeTimeout = 5 * time.Second

// Prober reports whether an image resource exists at url. Implementations
// never fail: every error resolves to false.
type Prober interface {
	Probe(ctx context.Context, url string) bool
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, url string) bool

func (f ProberFunc) Probe(ctx context.Context, url string) bool {
	return f(ctx, url)
}

// HTTPProber loads the resource over HTTP and accepts it only when the body
// decodes as an image header.
type HTTPProber struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPProber builds a prober. A nil client uses http.DefaultClient and a
// non-positive timeout uses DefaultProbeTimeout.
func NewHTTPProber(client *http.Client, timeout time.Duration) *HTTPProber {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HTTPProber{client: client, timeout: timeout}
}

func (p *HTTPProber) Probe(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Accept", "image/*")

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false
	}

	_, _, err = image.DecodeConfig(resp.Body)
	return err == nil
}
