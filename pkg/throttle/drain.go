package throttle

import (
	"context"
	"fmt"
	"sync"
)

// Drain is the single-use handle returned by Limiter.Hold. It subtracts the
// deferred cost of an admitted request, exactly once, no matter how many
// times it is invoked. Dropping a Drain without calling it means the request
// never pays: tokens were banked at admission, not reserved.
//
// A failed drain does not consume the handle; the caller may retry until one
// Set succeeds, keeping the subtraction exactly-once rather than at-most-once.
type Drain struct {
	limiter *Limiter
	key     string
	bucket  Bucket
	cost    float64

	mu      sync.Mutex
	drained bool
}

// Drain subtracts the cost given to Hold.
func (d *Drain) Drain(ctx context.Context) error {
	return d.DrainN(ctx, d.cost)
}

// DrainN subtracts cost instead of the admission cost, for callers that know
// the real cost only after the work is done. The first successful call wins;
// anything after it is a no-op.
//
// The subtraction re-applies refill from the bucket captured at admission to
// now, subtracts cost, clamps the balance into [0, capacity], and writes the
// bucket back in a single Set. Decisions made by other requests between Hold
// and DrainN are overwritten; on shared stores that is the same lost-update
// window every non-atomic cycle has.
func (d *Drain) DrainN(ctx context.Context, cost float64) error {
	if err := validCost(cost); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.drained {
		return nil
	}

	l := d.limiter
	now := l.now()
	b := d.bucket

	candidate := l.rate.refill(&b, l.capacity, now)
	b.Tokens = min(max(candidate-cost, 0), l.capacity)
	b.UpdatedAt = now

	if err := l.store.Set(ctx, d.key, &b); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreSet, err)
	}
	d.drained = true
	return nil
}

// Drained reports whether the deferred cost has been subtracted.
func (d *Drain) Drained() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drained
}
