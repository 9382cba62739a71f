// Package elastic implements db.Engine on top of the official Elasticsearch client.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/intell/internal/db"
	"github.com/kailas-cloud/intell/internal/metrics"
)

// Compile-time check: Store implements db.Engine.
var _ db.Engine = (*Store)(nil)

// Config holds connection parameters for an Elasticsearch cluster.
type Config struct {
	Addrs    []string
	Username string
	Password string
	// Transport overrides the HTTP transport (tests, custom TLS).
	Transport http.RoundTripper
}

// Store implements db.Engine. Safe for concurrent use.
type Store struct {
	client    *elasticsearch.Client
	transport http.RoundTripper
}

// NewStore normalizes the addresses and creates a client. Explicit
// credentials win over credentials embedded in the first address.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	addrs := make([]string, 0, len(cfg.Addrs))
	username, password := cfg.Username, cfg.Password
	for i, raw := range cfg.Addrs {
		addr, u, p, err := NormalizeAddr(raw)
		if err != nil {
			return nil, err
		}
		if i == 0 && username == "" && password == "" {
			username, password = u, p
		}
		addrs = append(addrs, addr)
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Store{client: client, transport: cfg.Transport}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) (err error) {
	defer observe(db.OpPing, time.Now(), &err)

	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	defer drain(res)
	if res.IsError() {
		return &db.Error{Op: db.OpPing, Err: fmt.Errorf("status %d", res.StatusCode)}
	}
	return nil
}

// Close releases idle connections of a caller-supplied transport.
func (s *Store) Close() {
	if t, ok := s.transport.(interface{ CloseIdleConnections() }); ok {
		t.CloseIdleConnections()
	}
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := s.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for elasticsearch: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Search runs a query DSL body against index and returns the raw response.
func (s *Store) Search(ctx context.Context, index string, body []byte) (_ []byte, err error) {
	defer observe(db.OpSearch, time.Now(), &err)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return readOK(db.OpSearch, res)
}

// Count returns the number of documents in index.
func (s *Store) Count(ctx context.Context, index string) (_ int64, err error) {
	defer observe(db.OpCount, time.Now(), &err)

	res, err := s.client.Count(
		s.client.Count.WithContext(ctx),
		s.client.Count.WithIndex(index),
	)
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	data, err := readOK(db.OpCount, res)
	if err != nil {
		return 0, err
	}
	var out struct {
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out.Count, nil
}

// Index creates or replaces a document and returns its id.
func (s *Store) Index(ctx context.Context, index, id string, body []byte) (_ string, err error) {
	defer observe(db.OpIndex, time.Now(), &err)

	opts := []func(*esapi.IndexRequest){s.client.Index.WithContext(ctx)}
	if id != "" {
		opts = append(opts, s.client.Index.WithDocumentID(id))
	}
	res, err := s.client.Index(index, bytes.NewReader(body), opts...)
	if err != nil {
		return "", &db.Error{Op: db.OpIndex, Err: err}
	}
	data, err := readOK(db.OpIndex, res)
	if err != nil {
		return "", err
	}
	var out struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &db.Error{Op: db.OpIndex, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out.ID, nil
}

// Update merges partial into the document with the given id.
func (s *Store) Update(ctx context.Context, index, id string, partial []byte) (err error) {
	defer observe(db.OpUpdate, time.Now(), &err)

	body, err := json.Marshal(map[string]json.RawMessage{"doc": partial})
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: fmt.Errorf("encode partial document: %w", err)}
	}
	res, err := s.client.Update(index, id, bytes.NewReader(body), s.client.Update.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	_, err = readOK(db.OpUpdate, res)
	return err
}

// CreateIndex creates an index with the given settings/mappings body.
func (s *Store) CreateIndex(ctx context.Context, name string, mapping []byte) (err error) {
	defer observe(db.OpCreateIndex, time.Now(), &err)

	opts := []func(*esapi.IndicesCreateRequest){s.client.Indices.Create.WithContext(ctx)}
	if len(mapping) > 0 {
		opts = append(opts, s.client.Indices.Create.WithBody(bytes.NewReader(mapping)))
	}
	res, err := s.client.Indices.Create(name, opts...)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	_, err = readOK(db.OpCreateIndex, res)
	return err
}

// IndexExists reports whether an index exists.
func (s *Store) IndexExists(ctx context.Context, name string) (_ bool, err error) {
	defer observe(db.OpIndexExists, time.Now(), &err)

	res, err := s.client.Indices.Exists([]string{name}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, &db.Error{Op: db.OpIndexExists, Err: err}
	}
	defer drain(res)
	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &db.Error{Op: db.OpIndexExists, Err: fmt.Errorf("status %d", res.StatusCode)}
	}
}

// errorBody is the engine's JSON error envelope.
type errorBody struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// readOK reads the response body, mapping error statuses onto db sentinels.
func readOK(op string, res *esapi.Response) ([]byte, error) {
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &db.Error{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	if !res.IsError() {
		return data, nil
	}

	var eb errorBody
	_ = json.Unmarshal(data, &eb)
	var sentinel error
	switch eb.Error.Type {
	case "index_not_found_exception":
		sentinel = db.ErrIndexNotFound
	case "resource_already_exists_exception":
		sentinel = db.ErrIndexExists
	case "document_missing_exception":
		sentinel = db.ErrDocumentNotFound
	}
	detail := fmt.Errorf("status %d: %s: %s", res.StatusCode, eb.Error.Type, eb.Error.Reason)
	if eb.Error.Type == "" {
		detail = fmt.Errorf("status %d", res.StatusCode)
	}
	if sentinel != nil {
		return nil, &db.Error{Op: op, Err: fmt.Errorf("%w: %w", sentinel, detail)}
	}
	return nil, &db.Error{Op: op, Err: detail}
}

func drain(res *esapi.Response) {
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}

func observe(op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	metrics.ObserveEngine(op, time.Since(start).Seconds(), err)
}

// IsNotFound reports whether err means a missing index or document.
func IsNotFound(err error) bool {
	return errors.Is(err, db.ErrIndexNotFound) || errors.Is(err, db.ErrDocumentNotFound)
}
