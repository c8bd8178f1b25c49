package throttle

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Config configures a Limiter. Rate is required; everything else has a
// sensible zero value.
type Config struct {
	// Rate is the refill specification in ParseRate grammar, e.g. "100/min",
	// "5/2s", or "10/s:fixed".
	Rate string

	// Burst overrides the bucket capacity. Zero means the rate's amount.
	Burst float64
}

// Limiter admits or rejects requests against per-key token buckets held in a
// Store. It is safe for concurrent use; all mutable state lives in the store.
type Limiter struct {
	store    Store
	rate     Rate
	capacity float64

	now func() time.Time
}

// New validates cfg and returns a Limiter backed by store. Configuration
// problems are reported eagerly so a misconfigured limiter never reaches the
// request path.
func New(store Store, cfg Config) (*Limiter, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	rate, err := ParseRate(cfg.Rate)
	if err != nil {
		return nil, err
	}

	if cfg.Burst < 0 || math.IsNaN(cfg.Burst) || math.IsInf(cfg.Burst, 0) {
		return nil, fmt.Errorf("%w: burst %v must be positive", ErrInvalidBurst, cfg.Burst)
	}
	capacity := cfg.Burst
	if capacity == 0 {
		capacity = rate.Amount
	}

	return &Limiter{
		store:    store,
		rate:     rate,
		capacity: capacity,
		now:      time.Now,
	}, nil
}

// Allow admits or rejects a single cost-1 request for key.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	return l.AllowN(ctx, key, 1)
}

// AllowN admits or rejects a request of the given cost for key. Cost must be
// finite and non-negative; cost 0 always admits and banks the accrued refill,
// which makes it a free pass for whitelisted work.
func (l *Limiter) AllowN(ctx context.Context, key string, cost float64) (Result, error) {
	return l.run(ctx, key, cost, true)
}

// Status reports the current state of key without consuming tokens. The
// bucket's bookkeeping still advances: accrued refill is banked and UpdatedAt
// moves to now.
func (l *Limiter) Status(ctx context.Context, key string) (Result, error) {
	return l.run(ctx, key, 0, true)
}

// Hold runs the admission decision for cost without subtracting anything.
// When admitted, the returned Drain subtracts the real cost later, exactly
// once. A rejected request returns a nil Drain; nothing was reserved, so
// there is nothing to repay.
func (l *Limiter) Hold(ctx context.Context, key string, cost float64) (Result, *Drain, error) {
	res, err := l.run(ctx, key, cost, false)
	if err != nil {
		return Result{}, nil, err
	}
	if !res.Allowed() {
		return res, nil, nil
	}
	return res, &Drain{limiter: l, key: key, bucket: res.Bucket, cost: cost}, nil
}

// Reset deletes all stored state for key, so its next request starts a fresh
// bucket at full capacity. The store must implement Resetter.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	rs, ok := l.store.(Resetter)
	if !ok {
		return fmt.Errorf("%w: %T", ErrResetUnsupported, l.store)
	}
	return rs.Reset(ctx, key)
}

// run drives one store round trip: load the bucket, decide, persist. Stores
// that implement AtomicStore get the whole cycle applied under their own
// exclusion; plain stores get an unguarded Get/Set pair.
func (l *Limiter) run(ctx context.Context, key string, cost float64, consume bool) (Result, error) {
	if err := validCost(cost); err != nil {
		return Result{}, err
	}

	now := l.now()

	var (
		admitted bool
		next     Bucket
	)
	if as, ok := l.store.(AtomicStore); ok {
		err := as.Update(ctx, key, func(prev *Bucket) (*Bucket, error) {
			admitted, next = admit(l.rate, l.capacity, prev, now, cost, consume)
			return &next, nil
		})
		if err != nil {
			// Update covers the whole read-modify-write cycle, so the
			// failure cannot be pinned on the read or the write side.
			return Result{}, fmt.Errorf("%w: %v", ErrStoreUpdate, err)
		}
	} else {
		prev, err := l.store.Get(ctx, key)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrStoreGet, err)
		}
		admitted, next = admit(l.rate, l.capacity, prev, now, cost, consume)
		if err := l.store.Set(ctx, key, &next); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrStoreSet, err)
		}
	}

	return l.result(admitted, next, cost, now), nil
}

// result builds the caller-facing snapshot from a persisted bucket.
func (l *Limiter) result(admitted bool, b Bucket, cost float64, now time.Time) Result {
	res := Result{
		Limit:     l.capacity,
		Remaining: b.Tokens,
		Bucket:    b,
		allowed:   admitted,
	}

	if l.rate.Fixed {
		res.ResetAt = b.ResetAt
		if !admitted {
			res.retryAfter = b.ResetAt.Sub(now)
		}
		return res
	}

	res.ResetAt = now.Add(l.rate.durationToAccrue(l.capacity - b.Tokens))
	if !admitted {
		res.retryAfter = l.rate.durationToAccrue(cost - b.Tokens)
	}
	return res
}

func validCost(cost float64) error {
	if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return fmt.Errorf("%w: cost %v must be a non-negative finite number", ErrInvalidCost, cost)
	}
	return nil
}

// Result describes the outcome of one admission decision. Limit, Remaining,
// and ResetAt map directly onto rate-limit response headers; Bucket is the
// exact state that was persisted.
type Result struct {
	// Limit is the bucket capacity.
	Limit float64
	// Remaining is the token balance after the decision.
	Remaining float64
	// ResetAt is when the bucket returns to full capacity (rolling) or when
	// the current window expires (fixed).
	ResetAt time.Time
	// Bucket is the state persisted by this decision.
	Bucket Bucket

	allowed    bool
	retryAfter time.Duration
}

// Allowed reports whether the request was admitted.
func (r Result) Allowed() bool { return r.allowed }

// RetryAfter is how long the client should wait before retrying. Zero for
// admitted requests.
func (r Result) RetryAfter() time.Duration { return r.retryAfter }
