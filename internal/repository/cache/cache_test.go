package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/intell/internal/db"
)

func TestSuggest_CacheMiss(t *testing.T) {
	inner := &mockSuggester{result: []string{"Python Tutorial"}}
	c, ms, counter := newTestCached(t, inner, &mockTrends{})

	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, db.ErrKeyNotFound }
	var setKey string
	var setValue string
	var setTTL time.Duration
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		setKey, setValue, setTTL = key, string(value), ttl
		return nil
	}

	got, err := c.Suggest(context.Background(), "pyth")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "Python Tutorial" {
		t.Fatalf("got %v", got)
	}
	if !strings.HasPrefix(setKey, "intell:suggest:") {
		t.Errorf("key = %q", setKey)
	}
	if setValue != `["Python Tutorial"]` || setTTL != time.Minute {
		t.Errorf("cached %s with ttl %v", setValue, setTTL)
	}
	if n := testutil.ToFloat64(counter.WithLabelValues(KindSuggest, "miss")); n != 1 {
		t.Errorf("miss count = %v", n)
	}
}

func TestSuggest_CacheHit(t *testing.T) {
	inner := &mockSuggester{result: []string{"fresh"}}
	c, ms, counter := newTestCached(t, inner, &mockTrends{})
	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte(`["cached"]`), nil }

	got, err := c.Suggest(context.Background(), "pyth")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "cached" {
		t.Fatalf("expected cached value, got %v", got)
	}
	if inner.calls != 0 {
		t.Errorf("inner called %d times on hit", inner.calls)
	}
	if n := testutil.ToFloat64(counter.WithLabelValues(KindSuggest, "hit")); n != 1 {
		t.Errorf("hit count = %v", n)
	}
}

func TestSuggest_SameKeyPerPrefix(t *testing.T) {
	c, ms, _ := newTestCached(t, &mockSuggester{result: []string{}}, &mockTrends{})
	var keys []string
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		keys = append(keys, key)
		return nil, db.ErrKeyNotFound
	}

	for _, p := range []string{"go", "go", "rust"} {
		if _, err := c.Suggest(context.Background(), p); err != nil {
			t.Fatal(err)
		}
	}
	if keys[0] != keys[1] || keys[0] == keys[2] {
		t.Errorf("keys = %v", keys)
	}
}

func TestSuggest_InnerError(t *testing.T) {
	inner := &mockSuggester{err: errors.New("engine down")}
	c, ms, _ := newTestCached(t, inner, &mockTrends{})
	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, db.ErrKeyNotFound }
	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		t.Fatal("errors must not be cached")
		return nil
	}

	if _, err := c.Suggest(context.Background(), "pyth"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSuggest_CacheErrorsDoNotFail(t *testing.T) {
	inner := &mockSuggester{result: []string{"ok"}}
	c, ms, counter := newTestCached(t, inner, &mockTrends{})
	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, errors.New("redis down") }
	ms.setFn = func(context.Context, string, []byte, time.Duration) error { return errors.New("redis down") }

	got, err := c.Suggest(context.Background(), "x")
	if err != nil || len(got) != 1 {
		t.Fatalf("got %v, %v", got, err)
	}
	if n := testutil.ToFloat64(counter.WithLabelValues(KindSuggest, "error")); n != 1 {
		t.Errorf("error count = %v", n)
	}
}

func TestSuggest_CorruptEntryFallsThrough(t *testing.T) {
	inner := &mockSuggester{result: []string{"ok"}}
	c, ms, _ := newTestCached(t, inner, &mockTrends{})
	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte(`not json`), nil }

	got, err := c.Suggest(context.Background(), "x")
	if err != nil || len(got) != 1 || got[0] != "ok" {
		t.Fatalf("got %v, %v", got, err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d", inner.calls)
	}
}

func TestTrending_CachesNonEmpty(t *testing.T) {
	trends := &mockTrends{result: []string{"golang"}}
	c, ms, _ := newTestCached(t, &mockSuggester{}, trends)
	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, db.ErrKeyNotFound }
	var setKey string
	ms.setFn = func(_ context.Context, key string, _ []byte, _ time.Duration) error {
		setKey = key
		return nil
	}

	got, err := c.Trending(context.Background(), time.Now())
	if err != nil || len(got) != 1 {
		t.Fatalf("got %v, %v", got, err)
	}
	if setKey != "intell:trending" {
		t.Errorf("key = %q", setKey)
	}
}

func TestTrending_EmptyNotCached(t *testing.T) {
	c, ms, _ := newTestCached(t, &mockSuggester{}, &mockTrends{result: []string{}})
	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, db.ErrKeyNotFound }
	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		t.Fatal("empty trending must not be cached")
		return nil
	}

	if _, err := c.Trending(context.Background(), time.Now()); err != nil {
		t.Fatal(err)
	}
}

func TestTrending_InnerError(t *testing.T) {
	c, ms, _ := newTestCached(t, &mockSuggester{}, &mockTrends{err: errors.New("boom")})
	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, db.ErrKeyNotFound }

	if _, err := c.Trending(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error")
	}
}
