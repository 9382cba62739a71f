package cache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type mockSuggester struct {
	result []string
	err    error
	calls  int
}

func (m *mockSuggester) Suggest(_ context.Context, _ string) ([]string, error) {
	m.calls++
	return m.result, m.err
}

type mockTrends struct {
	result []string
	err    error
	calls  int
}

func (m *mockTrends) Trending(_ context.Context, _ time.Time) ([]string, error) {
	m.calls++
	return m.result, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCached(t *testing.T, s *mockSuggester, tr *mockTrends) (*Cached, *mockKVStore, *prometheus.CounterVec) {
	t.Helper()
	ms := &mockKVStore{}
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"kind", "result"})
	return New(s, tr, ms, time.Minute, counter, zap.NewNop()), ms, counter
}
