package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/kailas-cloud/intell/internal/domain"
	"github.com/kailas-cloud/intell/internal/metrics"
)

// Fetcher defaults.
const (
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 10 * time.Second
	DefaultMaxRedirects   = 5
	DefaultMaxBodyBytes   = 10 << 20
)

// Response is a successfully fetched page.
type Response struct {
	// URL is the final URL after redirects.
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// FetcherConfig configures HTTPFetcher. Zero values take the defaults.
type FetcherConfig struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	UserAgent      string
	MaxRedirects   int
	MaxBodyBytes   int64
}

func (c *FetcherConfig) applyDefaults() {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = DefaultMaxRedirects
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// HTTPFetcher fetches pages over HTTP with bounded timeouts and redirects.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewHTTPFetcher creates a fetcher.
func NewHTTPFetcher(cfg FetcherConfig) *HTTPFetcher {
	cfg.applyDefaults()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = cfg.ConnectTimeout
	transport.ResponseHeaderTimeout = cfg.ReadTimeout

	maxRedirects := cfg.MaxRedirects
	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.ConnectTimeout + cfg.ReadTimeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
	}
}

// Fetch issues a GET. Transport failures and non-2xx statuses wrap domain.ErrFetch.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	start := time.Now()
	defer func() { metrics.CrawlFetchDuration.Observe(time.Since(start).Seconds()) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrFetch, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, &domain.StatusError{StatusCode: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrFetch, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", domain.ErrFetch, f.maxBody)
	}

	return &Response{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// isTimeout reports whether err is a network timeout.
func isTimeout(err error) bool {
	var ne net.Error
	return (errors.As(err, &ne) && ne.Timeout()) || errors.Is(err, context.DeadlineExceeded)
}
