package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; mail-archive-indexer/1.0)"

// Client fetches pipermail-style archive pages. One instance is built per
// process and shared across the crawl worker pool; http.Client is safe for
// concurrent use and its transport's connection pool bounds the effective
// parallelism against the archive host.
type Client struct {
	BaseURL   string
	http      *http.Client
	userAgent string
}

// NewClient builds a Client whose transport is wrapped with otelhttp so
// every archive fetch produces a span, matching how the rest of the service
// instruments outbound HTTP calls.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
		userAgent: defaultUserAgent,
	}
}

// get issues a GET request and returns the response body. Non-2xx and
// transport failures are reported as *FetchError.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

// listRootURL returns the root archive page for list.
func (c *Client) listRootURL(list string) string {
	return fmt.Sprintf("%s/%s/", c.BaseURL, list)
}
