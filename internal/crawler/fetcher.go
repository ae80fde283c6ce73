package crawler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/WebDevelopersofficial/crawler-api/internal/model"
)

// FetchResult is the outcome of one page fetch. A fetch always resolves
// to a result; there is no error path visible to the scheduler.
type FetchResult struct {
	// Body is the decoded page HTML. It is non-empty only when the
	// response was 200 with an HTML content type.
	Body string

	// Status is the HTTP status code, or model.StatusFetchError when the
	// request failed at the transport level (timeout, refused connection).
	Status int
}

// Fetcher performs bounded-time page fetches. Redirects are followed;
// each request, including its body read, is subject to the client timeout.
type Fetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// maxBodySize limits how many body bytes are read per response.
	maxBodySize int64
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithHTTPClient replaces the HTTP client. The caller owns the client's
// timeout and redirect configuration.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a Fetcher whose requests time out after the given
// duration.
func NewFetcher(timeout time.Duration, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: timeout},
		userAgent:   "crawler-api/1.0",
		maxBodySize: 5 * 1024 * 1024,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch performs a single GET of pageURL. It returns the page body only
// when the response is 200 with an HTML content type; for any other
// response the status code alone is kept for bookkeeping. Transport
// failures map to model.StatusFetchError. Fetch never returns an error:
// every outcome is a result the frontier can record.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) FetchResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return FetchResult{Status: model.StatusFetchError}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return FetchResult{Status: model.StatusFetchError}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode != http.StatusOK || !isHTML(contentType) {
		return FetchResult{Status: resp.StatusCode}
	}

	// Decode to UTF-8; pages still declare legacy charsets in the wild.
	bodyReader, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), contentType)
	if err != nil {
		return FetchResult{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(bodyReader)
	if err != nil {
		// A timeout mid-body is a transport failure, same as one before
		// the response arrived.
		return FetchResult{Status: model.StatusFetchError}
	}

	return FetchResult{Body: string(body), Status: resp.StatusCode}
}

// isHTML reports whether a Content-Type header indicates an HTML page.
func isHTML(contentType string) bool {
	return strings.Contains(contentType, "text/html")
}
