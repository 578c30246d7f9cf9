// Package kv defines the string-keyed JSON document store the repositories
// persist through, with memory, SQLite and Postgres backends.
package kv

import "context"

// Store is the storage collaborator contract: string keys mapped to
// JSON-serialized documents. Get reports absence through its second return
// value; Remove on an absent key is a no-op.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	RemoveMany(ctx context.Context, keys ...string) error
	Close() error
}
