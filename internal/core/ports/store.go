package ports

import "context"

// Store is a minimal keyed storage contract parameterized by key and record
// type. Entity repositories are built by composing a Store per entity instead
// of inheriting from a shared data-access base.
type Store[K comparable, R any] interface {
	// Get returns the record under key, or an entity-specific not-found error.
	Get(ctx context.Context, key K) (R, error)
	// Put writes the record under key, inserting or replacing.
	Put(ctx context.Context, key K, record R) error
	// Delete removes the record under key. Removing an absent key is a no-op.
	Delete(ctx context.Context, key K) error
	// All returns every stored record in unspecified order.
	All(ctx context.Context) ([]R, error)
}
