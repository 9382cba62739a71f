package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/intell/internal/db"
)

// Get returns the cached payload, or db.ErrKeyNotFound on a miss.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.do(ctx, s.b().Get().Key(key).Build()).AsBytes()
	switch {
	case err == nil:
		return data, nil
	case rueidis.IsRedisNil(err):
		return nil, db.ErrKeyNotFound
	default:
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.set(ctx, s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Build())
}

// SetWithTTL writes a payload that Redis expires after ttl. Redis rejects
// EX 0, so a non-positive ttl stores the key without expiry.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Set(ctx, key, value)
	}
	return s.set(ctx, s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build())
}

func (s *Store) set(ctx context.Context, cmd rueidis.Completed) error {
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}
