package throttle

import "time"

// Bucket is the per-key throttle state. It is always read and written as a
// whole value; stores must never persist partial updates.
type Bucket struct {
	// Tokens is the current balance, between zero and the bucket capacity.
	Tokens float64 `json:"tokens" bson:"tokens"`
	// UpdatedAt is the last time tokens were computed or drained.
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	// WindowStart is the origin of the current fixed window. Zero for rolling rates.
	WindowStart time.Time `json:"window_start" bson:"window_start"`
	// ResetAt is the instant the current fixed window expires. Zero for rolling rates.
	ResetAt time.Time `json:"reset_at" bson:"reset_at"`
}

// admit decides whether a request of the given cost is admitted at now and
// returns the bucket state to persist. It is a pure function: prev is never
// mutated and no I/O happens here.
//
// A nil prev means the key has not been seen; the bucket is seeded at full
// capacity. The refilled balance is clamped to capacity, equality with cost
// admits, and UpdatedAt advances whether or not the request is admitted.
// Rejected requests keep the prior balance: the unconsumed rolling accrual
// is discarded. Fixed-window resets apply regardless of the decision.
//
// When consume is false the admission decision is still computed but the
// refilled balance is banked without subtracting cost; the deferred drain
// performs the subtraction later. Cost 0 behaves the same way, which is what
// makes it a free probe.
func admit(rate Rate, capacity float64, prev *Bucket, now time.Time, cost float64, consume bool) (bool, Bucket) {
	var b Bucket
	if prev == nil {
		b = Bucket{Tokens: capacity, UpdatedAt: now}
		if rate.Fixed {
			b.WindowStart = now
		}
	} else {
		b = *prev
	}

	candidate := rate.refill(&b, capacity, now)

	admitted := candidate >= cost
	if admitted {
		b.Tokens = candidate
		if consume {
			b.Tokens = candidate - cost
		}
	}

	b.UpdatedAt = now
	return admitted, b
}
