// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// Store is a synchronous key-value blob store.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, memory)
// without changing the state layer. Values are opaque to the store.
type Store interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Entry is one key-value pair of a batch write.
type Entry struct {
	Key   string
	Value []byte
}

// BatchSetter is implemented by stores that can write several keys atomically.
type BatchSetter interface {
	SetMany(ctx context.Context, entries []Entry) error
}

// SetAll writes entries atomically when s supports it and one by one otherwise.
func SetAll(ctx context.Context, s Store, entries []Entry) error {
	if b, ok := s.(BatchSetter); ok {
		return b.SetMany(ctx, entries)
	}
	for _, e := range entries {
		if err := s.Set(ctx, e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}
