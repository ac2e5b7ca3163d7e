// Package htmlsource reads quotes from server-rendered markup with a single
// GET per instrument and a CSS selector. It does not execute scripts.
package htmlsource

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pricewatch/internal/quote"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=htmlsource_test -destination=mock_http_client_test.go -source=htmlsource.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Source fetches the gold and stable pages over plain HTTP.
type Source struct {
	// gold and stable locate each instrument's price element.
	gold, stable quote.Page
	// httpClient sends the requests.
	httpClient HTTPClient
	// header is added to every request.
	header http.Header
	// timeout bounds each fetch; zero leaves it to the caller's context.
	timeout time.Duration
}

// Option is a configuration option for the Source.
type Option func(*Source)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(s *Source) {
		s.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) Option {
	return func(s *Source) {
		for key, values := range header {
			for _, value := range values {
				s.header.Add(key, value)
			}
		}
	}
}

// WithTimeout bounds every fetch.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		s.timeout = d
	}
}

// New creates a Source for the given pages.
func New(gold, stable quote.Page, options ...Option) *Source {
	var s = &Source{
		gold:       gold,
		stable:     stable,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Source) FetchGold(ctx context.Context) (string, error) {
	return s.fetch(ctx, s.gold)
}

func (s *Source) FetchStable(ctx context.Context) (string, error) {
	return s.fetch(ctx, s.stable)
}

func (s *Source) fetch(ctx context.Context, page quote.Page) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page.URL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header = s.header.Clone()
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "text/html")
	}

	res, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusForbidden:
		return "", fmt.Errorf("forbidden by %s", req.URL.Host)

	case http.StatusTooManyRequests:
		return "", fmt.Errorf("rate limited")

	default:
		return "", fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return "", fmt.Errorf("parsing markup: %w", err)
	}

	sel := doc.Find(page.Selector).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("no element matches %q", page.Selector)
	}
	return strings.TrimSpace(sel.Text()), nil
}
