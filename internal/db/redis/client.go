// Package redis backs the suggestion and trending read caches with Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/intell/internal/db"
)

var _ db.Cache = (*Store)(nil)

// readyPoll is how often WaitForReady retries PING.
const readyPoll = 100 * time.Millisecond

// Config is the cache section of the server config.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store is a db.Cache over a single rueidis client. Client-side caching is
// off: cached suggestions already carry their own TTL.
type Store struct {
	client rueidis.Client
}

func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis: at least one address is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: connect %v: %w", cfg.Addrs, err)
	}

	return &Store{client: client}, nil
}

// Ping feeds the /health cache check.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady blocks server startup until Redis answers PING. A failed
// ping is retried; only the deadline ends the wait.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tick := time.NewTicker(readyPoll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("redis not ready after %s: %w", timeout, ctx.Err())
		case <-tick.C:
			if s.Ping(ctx) == nil {
				return nil
			}
		}
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}
