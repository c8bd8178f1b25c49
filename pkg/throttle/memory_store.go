package throttle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/turnstilehq/turnstile/core/cache"
)

// DefaultStoreSize is the bucket capacity of a MemoryStore unless overridden
// with WithStoreSize.
const DefaultStoreSize = 10000

const (
	defaultBucketTTL     = time.Hour
	defaultSweepInterval = 5 * time.Minute
	defaultJanitorGrace  = 30 * time.Second
)

// MemoryStore is the default Store: a bounded in-process LRU of buckets.
// It implements AtomicStore, so limiter decisions against it never interleave,
// and Resetter, so keys can be cleared.
//
// Memory is bounded two ways: the LRU evicts the least recently used bucket
// once the store is full, and an optional janitor sweeps buckets idle longer
// than the bucket TTL. Start the janitor with Start or Run; without it the
// LRU bound still holds. An evicted key simply starts over at full capacity.
type MemoryStore struct {
	mu      sync.Mutex
	buckets *cache.LRUCache[string, Bucket]

	size   int
	ttl    time.Duration
	sweep  time.Duration
	grace  time.Duration
	logger *slog.Logger

	// Janitor run state. stop cancels the running loop; done closes when
	// the loop has fully exited, sweeps included.
	stop context.CancelFunc
	done chan struct{}

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
	expired   atomic.Int64
}

// MemoryStoreStats is a point-in-time snapshot of store activity.
type MemoryStoreStats struct {
	Hits          int64 // Lookups that found a bucket
	Misses        int64 // Lookups for unseen or evicted keys
	Evictions     int64 // Buckets evicted by LRU capacity pressure
	Expired       int64 // Buckets removed by the TTL janitor
	ActiveBuckets int   // Current number of stored buckets
	IsRunning     bool  // Whether the janitor loop is running
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithStoreSize sets the maximum number of buckets held before LRU eviction.
// Zero or negative means unbounded, which is not recommended for stores keyed
// by untrusted input.
func WithStoreSize(size int) MemoryStoreOption {
	return func(ms *MemoryStore) { ms.size = size }
}

// WithBucketTTL sets how long an untouched bucket survives before the janitor
// removes it.
func WithBucketTTL(ttl time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if ttl > 0 {
			ms.ttl = ttl
		}
	}
}

// WithCleanupInterval sets how often the janitor sweeps for expired buckets.
// Set to 0 to disable the janitor entirely.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) { ms.sweep = interval }
}

// WithMemoryStoreShutdownTimeout bounds how long Stop waits for the janitor.
func WithMemoryStoreShutdownTimeout(timeout time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if timeout > 0 {
			ms.grace = timeout
		}
	}
}

// WithMemoryStoreLogger sets the logger for janitor lifecycle events.
func WithMemoryStoreLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// NewMemoryStore builds an in-memory store. The janitor does not run until
// Start or Run is called.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		size:   DefaultStoreSize,
		ttl:    defaultBucketTTL,
		sweep:  defaultSweepInterval,
		grace:  defaultJanitorGrace,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(ms)
	}

	ms.buckets = cache.NewLRUCache[string, Bucket](ms.size)
	ms.buckets.SetEvictCallback(func(string, Bucket) {
		ms.evictions.Add(1)
	})
	return ms
}

// Get returns a copy of the bucket stored for key, or (nil, nil) if the key
// is unknown. The lookup marks the bucket as recently used.
func (ms *MemoryStore) Get(ctx context.Context, key string) (*Bucket, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	b, ok := ms.buckets.Get(key)
	if !ok {
		ms.misses.Add(1)
		return nil, nil
	}
	ms.hits.Add(1)
	return &b, nil
}

// Set stores a copy of bucket for key.
func (ms *MemoryStore) Set(ctx context.Context, key string, bucket *Bucket) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.buckets.Put(key, *bucket)
	return nil
}

// Update applies fn to the bucket for key under the store mutex, so the whole
// read-modify-write cycle is exclusive. fn receives nil when the key is
// unknown; returning a nil bucket leaves the store unchanged.
func (ms *MemoryStore) Update(ctx context.Context, key string, fn func(*Bucket) (*Bucket, error)) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var prev *Bucket
	if b, ok := ms.buckets.Get(key); ok {
		ms.hits.Add(1)
		prev = &b
	} else {
		ms.misses.Add(1)
	}

	next, err := fn(prev)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}

	ms.buckets.Put(key, *next)
	return nil
}

// Reset removes the bucket for key. Unknown keys are a no-op.
func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.buckets.Remove(key)
	return nil
}

// Start runs the janitor loop until ctx ends, sweeping stale buckets every
// cleanup interval. It returns ctx.Err() on cancellation; a second Start
// while the loop runs is an error, as is starting with the janitor disabled.
func (ms *MemoryStore) Start(ctx context.Context) error {
	ms.mu.Lock()
	if ms.stop != nil {
		ms.mu.Unlock()
		return errors.New("bucket janitor already running")
	}
	if ms.sweep <= 0 {
		ms.mu.Unlock()
		return fmt.Errorf("cleanup interval must be positive, got %v", ms.sweep)
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ms.stop, ms.done = cancel, done
	ms.mu.Unlock()

	// The loop owns its run state: however it exits, it clears the fields
	// (unless a newer run already replaced them) and releases waiters.
	defer func() {
		ms.mu.Lock()
		if ms.done == done {
			ms.stop, ms.done = nil, nil
		}
		ms.mu.Unlock()
		close(done)
	}()

	ms.logger.InfoContext(ctx, "bucket janitor running",
		slog.Duration("sweep_interval", ms.sweep),
		slog.Duration("bucket_ttl", ms.ttl))

	tick := time.NewTicker(ms.sweep)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			ms.logger.Info("bucket janitor stopped")
			return ctx.Err()
		case <-tick.C:
			ms.sweepStale()
		}
	}
}

// Stop cancels the janitor and waits for its loop to exit, current sweep
// included, up to the shutdown timeout.
func (ms *MemoryStore) Stop() error {
	ms.mu.Lock()
	stop, done := ms.stop, ms.done
	ms.mu.Unlock()

	if stop == nil {
		return errors.New("bucket janitor not running")
	}
	stop()

	select {
	case <-done:
		return nil
	case <-time.After(ms.grace):
		return fmt.Errorf("bucket janitor did not stop within %s", ms.grace)
	}
}

// Run adapts the janitor to errgroup.Go: the returned function runs the
// sweep loop until ctx ends and treats cancellation as a clean exit.
func (ms *MemoryStore) Run(ctx context.Context) func() error {
	return func() error {
		err := ms.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

// sweepStale drops buckets untouched for longer than the bucket TTL.
// UpdatedAt advances on every admission decision, so it doubles as the
// last-access timestamp.
func (ms *MemoryStore) sweepStale() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	cutoff := time.Now().Add(-ms.ttl)

	var stale []string
	ms.buckets.Range(func(key string, b Bucket) bool {
		if b.UpdatedAt.Before(cutoff) {
			stale = append(stale, key)
		}
		return true
	})
	for _, key := range stale {
		ms.buckets.Remove(key)
	}
	ms.expired.Add(int64(len(stale)))
}

// Stats snapshots store activity for monitoring.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.Lock()
	running := ms.stop != nil
	active := ms.buckets.Len()
	ms.mu.Unlock()

	return MemoryStoreStats{
		Hits:          ms.hits.Load(),
		Misses:        ms.misses.Load(),
		Evictions:     ms.evictions.Load(),
		Expired:       ms.expired.Load(),
		ActiveBuckets: active,
		IsRunning:     running,
	}
}

// Healthcheck reports whether the store is operational: a configured
// janitor that is not running means sweeps have silently stopped.
func (ms *MemoryStore) Healthcheck(ctx context.Context) error {
	ms.mu.Lock()
	running := ms.stop != nil
	ms.mu.Unlock()

	if ms.sweep > 0 && !running {
		return errors.New("bucket janitor configured but not running")
	}
	return nil
}
