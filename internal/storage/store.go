package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

// Record is one opaque text blob stored under a key.
type Record struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Store is a key/value store of text blobs.
type Store interface {
	Get(ctx context.Context, key string) (Record, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Record, error)
}
