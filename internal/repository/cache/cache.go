package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/intell/internal/db"
)

// Key layout.
const (
	KeyPrefix   = "intell:"
	suggestKey  = KeyPrefix + "suggest:"
	trendingKey = KeyPrefix + "trending"
)

// Cache kinds used as the "kind" metric label.
const (
	KindSuggest  = "suggest"
	KindTrending = "trending"
)

// store is the consumer interface for the cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Suggester returns title suggestions for a prefix.
type Suggester interface {
	Suggest(ctx context.Context, prefix string) ([]string, error)
}

// TrendSource returns trending terms as of now.
type TrendSource interface {
	Trending(ctx context.Context, now time.Time) ([]string, error)
}

// Cached decorates suggestion and trending reads with a read-through cache.
// Cache failures are logged and never fail a read.
type Cached struct {
	suggester  Suggester
	trends     TrendSource
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with labels "kind" and "result" ("hit"/"miss"/"error"), passed explicitly.
func New(
	suggester Suggester,
	trends TrendSource,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cached {
	return &Cached{
		suggester:  suggester,
		trends:     trends,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Suggest returns cached suggestions for prefix or asks the inner suggester.
func (c *Cached) Suggest(ctx context.Context, prefix string) ([]string, error) {
	key := suggestKey + hashKey(prefix)
	if v, ok := c.get(ctx, KindSuggest, key); ok {
		return v, nil
	}

	v, err := c.suggester.Suggest(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	c.put(ctx, key, v)
	return v, nil
}

// Trending returns cached trending terms or asks the inner source. Empty
// results are not cached so the first logged queries show up promptly.
func (c *Cached) Trending(ctx context.Context, now time.Time) ([]string, error) {
	if v, ok := c.get(ctx, KindTrending, trendingKey); ok {
		return v, nil
	}

	v, err := c.trends.Trending(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}
	if len(v) > 0 {
		c.put(ctx, trendingKey, v)
	}
	return v, nil
}

func (c *Cached) inc(kind, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(kind, result).Inc()
	}
}

func (c *Cached) get(ctx context.Context, kind, key string) ([]string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			c.inc(kind, "miss")
		} else {
			c.inc(kind, "error")
			c.logger.Warn("Failed to read cache", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var v []string
	if err := json.Unmarshal(data, &v); err != nil {
		c.inc(kind, "error")
		c.logger.Warn("Failed to parse cached value", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	c.inc(kind, "hit")
	return v, true
}

func (c *Cached) put(ctx context.Context, key string, v []string) {
	if v == nil {
		v = []string{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to write cache", zap.String("key", key), zap.Error(err))
	}
}

func hashKey(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
