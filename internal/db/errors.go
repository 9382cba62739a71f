package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound      = errors.New("db: key not found")
	ErrIndexNotFound    = errors.New("db: index not found")
	ErrIndexExists      = errors.New("db: index already exists")
	ErrDocumentNotFound = errors.New("db: document not found")
)

// Op constants name engine and cache operations for error context.
const (
	OpPing        = "PING"
	OpSearch      = "SEARCH"
	OpCount       = "COUNT"
	OpIndex       = "INDEX"
	OpUpdate      = "UPDATE"
	OpCreateIndex = "INDICES.CREATE"
	OpIndexExists = "INDICES.EXISTS"
	OpGet         = "GET"
	OpSet         = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
