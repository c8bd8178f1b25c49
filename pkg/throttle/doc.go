// Package throttle provides token bucket request admission with pluggable
// storage backends and deferred cost accounting.
//
// Each key owns a bucket of tokens that refills over time. Admitting a
// request consumes tokens; when the bucket cannot cover the cost the request
// is rejected with retry guidance. Buckets are created lazily at full
// capacity the first time a key is seen.
//
// # Rate Grammar
//
// Rates are written as "<amount>/<denominator><unit>" with an optional
// ":fixed" suffix:
//
//	"3/s"        3 tokens per second, rolling refill
//	"100/min"    100 tokens per minute, rolling refill
//	"5/2min"     5 tokens per 2 minutes, rolling refill
//	"10/day"     10 tokens per day, rolling refill
//	"5/s:fixed"  5 tokens per second, fixed windows
//
// Units are ms, s|sec|second, m|min|minute, h|hour, and d|day. The amount and
// the optional denominator must be positive integers.
//
// # Refill Disciplines
//
// Rolling (the default) accrues tokens continuously in proportion to elapsed
// time, so traffic is smoothed with no boundary effects. Fixed resets the
// bucket to full capacity each time a period boundary is crossed; up to two
// full bursts can land back to back around a boundary, which is the
// documented cost of the cheaper bookkeeping.
//
// # Usage
//
// Basic limiter setup:
//
//	store := throttle.NewMemoryStore()
//
//	limiter, err := throttle.New(store, throttle.Config{
//		Rate:  "100/min", // refill rate
//		Burst: 200,       // optional capacity override
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := limiter.Allow(ctx, "user:123")
//	if err != nil {
//		log.Printf("throttle error: %v", err)
//		return
//	}
//	if !result.Allowed() {
//		log.Printf("throttled, retry after %v", result.RetryAfter())
//		return
//	}
//
// Weighted requests consume more than one token:
//
//	result, err := limiter.AllowN(ctx, "batch:upload", 5)
//
// Cost 0 always admits, so it doubles as a whitelist pass. Status is the
// read-only flavor of the same call:
//
//	status, err := limiter.Status(ctx, "user:123")
//	log.Printf("%v of %v tokens left, reset at %v",
//		status.Remaining, status.Limit, status.ResetAt)
//
// Administrative reset clears a key entirely (stores implementing Resetter):
//
//	if err := limiter.Reset(ctx, "user:123"); err != nil {
//		log.Printf("reset failed: %v", err)
//	}
//
// # Deferred Cost
//
// When the real cost is only known after the work, Hold admits the request
// without consuming and hands back a single-use Drain:
//
//	result, drain, err := limiter.Hold(ctx, key, 10)
//	if err != nil || !result.Allowed() {
//		return
//	}
//
//	n := doExpensiveWork()
//
//	// Subtract what the work actually cost. Draining twice is a no-op.
//	if err := drain.DrainN(ctx, float64(n)); err != nil {
//		log.Printf("drain failed: %v", err)
//	}
//
// Never draining means the request was free. A failed drain may be retried;
// the handle only marks itself spent after a successful write.
//
// # Storage Backends
//
// MemoryStore (default) is a bounded in-process LRU with an optional janitor
// goroutine sweeping idle buckets. It implements AtomicStore, so decisions
// against it never interleave, and a limiter over it is exact.
//
// RedisStore, PostgresStore, and MongoStore share buckets across processes.
// They are plain Stores: two processes deciding for the same key at the same
// time can lose an update, admitting slightly more than the configured rate
// under contention. The hot path stays a single round trip; a coordination
// layer is deliberately out of scope.
//
// # Error Handling
//
// Configuration problems surface eagerly from New as ErrInvalidRate,
// ErrInvalidBurst, or ErrNilStore. Per-request failures wrap ErrInvalidCost,
// ErrStoreGet, or ErrStoreSet; a store failure is returned as an error and is
// never converted into an admit or a reject. Match with errors.Is.
package throttle
