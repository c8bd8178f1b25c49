package throttle

import "context"

// Store persists one Bucket per key. Implementations must treat buckets as
// whole values: Get returns a copy the limiter may mutate freely, and Set
// replaces whatever is stored.
//
// The limiter performs an unguarded get-compute-set cycle against plain
// stores. A store shared between processes (Redis, Postgres, Mongo) can
// therefore interleave concurrent updates to the same key and admit slightly
// more than the configured rate under contention. That trade is intentional:
// the hot path stays a single round trip. Stores local to one process should
// additionally implement AtomicStore to close the gap.
type Store interface {
	// Get returns the bucket stored for key, or (nil, nil) when the key has
	// never been seen.
	Get(ctx context.Context, key string) (*Bucket, error)

	// Set stores the bucket for key, overwriting any existing state.
	Set(ctx context.Context, key string, bucket *Bucket) error
}

// AtomicStore is a Store whose read-modify-write cycles do not interleave.
// When the configured store implements it, the limiter routes every decision
// through Update instead of Get/Set, making concurrent requests against the
// same key strictly sequential.
type AtomicStore interface {
	Store

	// Update atomically applies fn to the current bucket for key (nil when
	// absent) and stores the returned bucket. If fn returns an error the
	// stored state is left untouched and the error is returned as-is.
	Update(ctx context.Context, key string, fn func(*Bucket) (*Bucket, error)) error
}

// Resetter is implemented by stores that can delete a key outright. The
// limiter's Reset requires it; stores without it report ErrResetUnsupported.
type Resetter interface {
	// Reset removes all stored state for key. Resetting an absent key is
	// not an error.
	Reset(ctx context.Context, key string) error
}
