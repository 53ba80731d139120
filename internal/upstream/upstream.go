// upstream.go — the outbound HTTP client interface: abstract upstream-request
// contract plus a default implementation using a real *http.Client. The
// transport-cloning idiom mirrors cloning http.DefaultTransport and
// customizing it rather than building one from scratch.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dev-console/servirtium-go/internal/interaction"
)

// Client makes one upstream HTTP call for a Record-mode interaction. The
// concrete URL is upstreamBase+req.URI.
type Client interface {
	Do(ctx context.Context, upstreamBase string, req interaction.RequestData) (interaction.ResponseData, error)
}

// Error wraps an outbound-client failure.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream: request to %s failed: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// DefaultClient is the built-in Client, backed by a cloned *http.Transport
// with a configurable timeout.
type DefaultClient struct {
	HTTPClient *http.Client
}

// NewDefaultClient returns a DefaultClient with the given request timeout.
// A zero timeout means no timeout is applied.
func NewDefaultClient(timeout time.Duration) *DefaultClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &DefaultClient{
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// Do issues req against upstreamBase+req.URI, overriding the Host header to
// the upstream's host before sending.
func (c *DefaultClient) Do(ctx context.Context, upstreamBase string, req interaction.RequestData) (interaction.ResponseData, error) {
	target := upstreamBase + req.URI

	parsed, err := url.Parse(upstreamBase)
	if err != nil {
		return interaction.ResponseData{}, &Error{URL: target, Err: fmt.Errorf("invalid upstream domain: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, strings.NewReader(req.Body))
	if err != nil {
		return interaction.ResponseData{}, &Error{URL: target, Err: err}
	}

	for name, value := range req.Headers {
		if strings.EqualFold(name, "host") {
			continue
		}
		httpReq.Header.Set(name, value)
	}
	httpReq.Host = parsed.Host

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return interaction.ResponseData{}, &Error{URL: target, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // deferred close

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return interaction.ResponseData{}, &Error{URL: target, Err: fmt.Errorf("reading response body: %w", err)}
	}

	headers := make(interaction.Headers, len(resp.Header))
	for name, values := range resp.Header {
		headers.Set(name, strings.Join(values, ", "))
	}

	return interaction.ResponseData{
		Status:  uint16(resp.StatusCode),
		Headers: headers,
		Body:    string(body),
	}, nil
}
