package intell

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client is the intell SDK entry point. Safe for concurrent use.
type Client struct {
	base      *url.URL
	http      *http.Client
	apiKey    string
	userAgent string
	obs       *observer
}

// New creates a client for the service at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("intell: parse base url: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("intell: base url must be absolute http(s), got %q", baseURL)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		base:      base,
		http:      hc,
		apiKey:    cfg.apiKey,
		userAgent: cfg.userAgent,
		obs:       obs,
	}, nil
}

// IndexPage submits a page to POST /index-page.
func (c *Client) IndexPage(ctx context.Context, doc Document) (res IndexResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("index_page", start, err) }()

	if doc.Images == nil {
		doc.Images = []Image{}
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return IndexResult{}, fmt.Errorf("intell: encode document: %w", err)
	}
	if err = c.do(ctx, http.MethodPost, "/index-page", nil, body, true, &res); err != nil {
		return IndexResult{}, err
	}
	return res, nil
}

// Search runs GET /search.
func (c *Client) Search(ctx context.Context, p SearchParams) (res *SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	q := url.Values{}
	q.Set("q", p.Query)
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.SafeSearch != nil {
		q.Set("safe_search", strconv.FormatBool(*p.SafeSearch))
	}
	if p.FileType != "" {
		q.Set("file_type", p.FileType)
	}

	res = &SearchResponse{}
	if err = c.do(ctx, http.MethodGet, "/search", q, nil, false, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Suggest runs GET /suggest and returns up to 5 title suggestions.
func (c *Client) Suggest(ctx context.Context, prefix string) (s []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest", start, err) }()

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	if err = c.do(ctx, http.MethodGet, "/suggest", url.Values{"q": {prefix}}, nil, false, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// Trending runs GET /trending.
func (c *Client) Trending(ctx context.Context) (t []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("trending", start, err) }()

	var resp struct {
		Trending []string `json:"trending"`
	}
	if err = c.do(ctx, http.MethodGet, "/trending", nil, nil, false, &resp); err != nil {
		return nil, err
	}
	return resp.Trending, nil
}

// Health runs GET /health. A degraded service answers 503 with a report body,
// which is returned without error.
func (c *Client) Health(ctx context.Context) (h HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	err = c.do(ctx, http.MethodGet, "/health", nil, nil, false, &h)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable && h.Status != "" {
		return h, nil
	}
	return h, err
}

func (c *Client) do(
	ctx context.Context, method, path string, query url.Values,
	body []byte, auth bool, out any,
) error {
	u := *c.base
	u.Path = c.base.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return fmt.Errorf("intell: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if auth && c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("intell: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var eb struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &eb) == nil && eb.Code != "" {
			apiErr.Code, apiErr.Message = eb.Code, eb.Message
		}
		// Health reports still carry a body on 503.
		if out != nil && resp.StatusCode == http.StatusServiceUnavailable {
			_ = json.Unmarshal(data, out)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("intell: decode %s response: %w", path, err)
	}
	return nil
}
