package elastic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/intell/internal/db"
)

// --- Helpers ---

type recorded struct {
	method string
	path   string
	body   string
}

// fakeCluster answers engine requests from a route table and records them.
type fakeCluster struct {
	mu       sync.Mutex
	routes   map[string]func(w http.ResponseWriter, r *http.Request)
	requests []recorded
}

func newFakeCluster(t *testing.T) (*fakeCluster, *Store) {
	t.Helper()
	fc := &fakeCluster{routes: map[string]func(http.ResponseWriter, *http.Request){}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fc.mu.Lock()
		fc.requests = append(fc.requests, recorded{method: r.Method, path: r.URL.Path, body: string(body)})
		h, ok := fc.routes[r.Method+" "+r.URL.Path]
		fc.mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"type":"index_not_found_exception","reason":"no such index"},"status":404}`)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	s, err := NewStore(Config{Addrs: []string{srv.URL}})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return fc, s
}

func (fc *fakeCluster) handle(route string, status int, body string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.routes[route] = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (fc *fakeCluster) last(t *testing.T) recorded {
	t.Helper()
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if len(fc.requests) == 0 {
		t.Fatal("no requests recorded")
	}
	return fc.requests[len(fc.requests)-1]
}

func isDBError(err error, op string) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr) && dbErr.Op == op
}

// --- Tests ---

func TestNewStore_NoAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error without addrs")
	}
}

func TestNewStore_BadAddr(t *testing.T) {
	if _, err := NewStore(Config{Addrs: []string{"https://"}}); err == nil {
		t.Fatal("expected error for address without host")
	}
}

func TestPing(t *testing.T) {
	fc, s := newFakeCluster(t)
	fc.handle("HEAD /", http.StatusOK, "")

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_ErrorStatus(t *testing.T) {
	fc, s := newFakeCluster(t)
	fc.handle("HEAD /", http.StatusUnauthorized, "")

	err := s.Ping(context.Background())
	if !isDBError(err, db.OpPing) {
		t.Fatalf("expected PING db.Error, got %v", err)
	}
}

func TestWaitForReady_Timeout(t *testing.T) {
	fc, s := newFakeCluster(t)
	fc.handle("HEAD /", http.StatusUnauthorized, "")

	err := s.WaitForReady(context.Background(), 300*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	fc, s := newFakeCluster(t)
	fc.handle("POST /pages/_search", http.StatusOK, `{"hits":{"hits":[]}}`)

	out, err := s.Search(context.Background(), "pages", []byte(`{"size":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `{"hits":{"hits":[]}}` {
		t.Errorf("body = %s", out)
	}
	if got := fc.last(t).body; got != `{"size":1}` {
		t.Errorf("sent body = %s", got)
	}
}

func TestSearch_IndexNotFound(t *testing.T) {
	_, s := newFakeCluster(t)

	_, err := s.Search(context.Background(), "missing", []byte(`{}`))
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
	if !isDBError(err, db.OpSearch) {
		t.Errorf("expected SEARCH db.Error, got %v", err)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should be true")
	}
}

func TestSearch_ServerError(t *testing.T) {
	fc, s := newFakeCluster(t)
	fc.handle("POST /pages/_search", http.StatusInternalServerError,
		`{"error":{"type":"search_phase_execution_exception","reason":"all shards failed"},"status":500}`)

	_, err := s.Search(context.Background(), "pages", []byte(`{}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if IsNotFound(err) {
		t.Error("server error must not read as not found")
	}
}

func TestCount(t *testing.T) {
	fc, s := newFakeCluster(t)
	fc.handle("POST /pages/_count", http.StatusOK, `{"count":42}`)
	fc.handle("GET /pages/_count", http.StatusOK, `{"count":42}`)

	n, err := s.Count(context.Background(), "pages")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 42 {
		t.Errorf("count = %d, want 42", n)
	}
}

func TestIndex_WithID(t *testing.T) {
	fc, s := newFakeCluster(t)
	fc.handle("PUT /pages/_doc/abc", http.StatusCreated, `{"_id":"abc","result":"created"}`)

	id, err := s.Index(context.Background(), "pages", "abc", []byte(`{"url":"https://a.test/"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "abc" {
		t.Errorf("id = %q", id)
	}
}

func TestIndex_AutoID(t *testing.T) {
	fc, s := newFakeCluster(t)
	fc.handle("POST /pages/_doc", http.StatusCreated, `{"_id":"gen-1","result":"created"}`)

	id, err := s.Index(context.Background(), "pages", "", []byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "gen-1" {
		t.Errorf("id = %q", id)
	}
}

func TestUpdate_WrapsDoc(t *testing.T) {
	fc, s := newFakeCluster(t)
	fc.handle("POST /pages/_update/abc", http.StatusOK, `{"_id":"abc","result":"updated"}`)

	if err := s.Update(context.Background(), "pages", "abc", []byte(`{"is_safe":true}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sent map[string]map[string]bool
	if err := json.Unmarshal([]byte(fc.last(t).body), &sent); err != nil {
		t.Fatalf("decode sent body: %v", err)
	}
	if !sent["doc"]["is_safe"] {
		t.Errorf("sent body = %s", fc.last(t).body)
	}
}

func TestUpdate_DocumentMissing(t *testing.T) {
	fc, s := newFakeCluster(t)
	fc.handle("POST /pages/_update/nope", http.StatusNotFound,
		`{"error":{"type":"document_missing_exception","reason":"[nope]: document missing"},"status":404}`)

	err := s.Update(context.Background(), "pages", "nope", []byte(`{}`))
	if !errors.Is(err, db.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestCreateIndex(t *testing.T) {
	fc, s := newFakeCluster(t)
	fc.handle("PUT /pages", http.StatusOK, `{"acknowledged":true}`)

	mapping := `{"mappings":{"properties":{"url":{"type":"keyword"}}}}`
	if err := s.CreateIndex(context.Background(), "pages", []byte(mapping)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fc.last(t).body; got != mapping {
		t.Errorf("sent mapping = %s", got)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	fc, s := newFakeCluster(t)
	fc.handle("PUT /pages", http.StatusBadRequest,
		`{"error":{"type":"resource_already_exists_exception","reason":"index [pages] already exists"},"status":400}`)

	err := s.CreateIndex(context.Background(), "pages", nil)
	if !errors.Is(err, db.ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	fc, s := newFakeCluster(t)
	fc.handle("HEAD /pages", http.StatusOK, "")

	ok, err := s.IndexExists(context.Background(), "pages")
	if err != nil || !ok {
		t.Fatalf("IndexExists(pages) = %v, %v", ok, err)
	}

	ok, err = s.IndexExists(context.Background(), "other")
	if err != nil || ok {
		t.Fatalf("IndexExists(other) = %v, %v", ok, err)
	}
}
