package db

import (
	"context"
	"time"
)

// Engine is the search-engine facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Engine interface {
	Pinger
	Searcher
	DocumentStore
	IndexManager
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher runs raw query DSL against an index and returns the raw response body.
type Searcher interface {
	Search(ctx context.Context, index string, body []byte) ([]byte, error)
	Count(ctx context.Context, index string) (int64, error)
}

// DocumentStore writes documents.
type DocumentStore interface {
	// Index creates or replaces a document. An empty id lets the engine
	// assign one. Returns the stored document id.
	Index(ctx context.Context, index, id string, body []byte) (string, error)
	// Update merges a partial document into an existing one.
	Update(ctx context.Context, index, id string, partial []byte) error
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, name string, mapping []byte) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Cache is the key-value store backing short-lived read caches.
type Cache interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
