package throttle

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rate describes how buckets refill: Amount tokens per Period, accrued
// continuously (rolling) or granted whole at window boundaries (fixed).
type Rate struct {
	Amount float64
	Period time.Duration
	Fixed  bool
}

// units maps the rate grammar's unit tokens to durations.
var units = map[string]time.Duration{
	"ms":     time.Millisecond,
	"s":      time.Second,
	"sec":    time.Second,
	"second": time.Second,
	"m":      time.Minute,
	"min":    time.Minute,
	"minute": time.Minute,
	"h":      time.Hour,
	"hour":   time.Hour,
	"d":      24 * time.Hour,
	"day":    24 * time.Hour,
}

// ParseRate parses a human rate specification of the form
// "<amount>/<denominator><unit>[:fixed]", e.g. "3/s", "5/2min", "10/day",
// "5/s:fixed". The amount is a positive integer, the denominator an optional
// positive integer defaulting to 1, and the unit one of ms, s|sec|second,
// m|min|minute, h|hour, d|day. A trailing ":fixed" selects the fixed-window
// discipline instead of continuous refill.
func ParseRate(s string) (Rate, error) {
	spec := strings.TrimSpace(s)
	if spec == "" {
		return Rate{}, fmt.Errorf("%w: empty specification", ErrInvalidRate)
	}

	spec, fixed := strings.CutSuffix(spec, ":fixed")

	amountPart, periodPart, ok := strings.Cut(spec, "/")
	if !ok {
		return Rate{}, fmt.Errorf("%w: %q is missing '/'", ErrInvalidRate, s)
	}

	amount, err := strconv.Atoi(amountPart)
	if err != nil || amount <= 0 {
		return Rate{}, fmt.Errorf("%w: amount %q must be a positive integer", ErrInvalidRate, amountPart)
	}

	i := 0
	for i < len(periodPart) && periodPart[i] >= '0' && periodPart[i] <= '9' {
		i++
	}

	denominator := 1
	if i > 0 {
		denominator, err = strconv.Atoi(periodPart[:i])
		if err != nil || denominator <= 0 {
			return Rate{}, fmt.Errorf("%w: denominator %q must be a positive integer", ErrInvalidRate, periodPart[:i])
		}
	}

	unit, ok := units[periodPart[i:]]
	if !ok {
		return Rate{}, fmt.Errorf("%w: unknown unit %q", ErrInvalidRate, periodPart[i:])
	}

	return Rate{
		Amount: float64(amount),
		Period: time.Duration(denominator) * unit,
		Fixed:  fixed,
	}, nil
}

// refill applies the discipline's refill to b at now and returns the balance
// available for admission. Fixed-window boundary crossings mutate b: tokens
// reset to capacity and the window restarts at now. Rolling accrual leaves
// b.Tokens untouched; the caller decides whether to keep it.
func (r Rate) refill(b *Bucket, capacity float64, now time.Time) float64 {
	if r.Fixed {
		if now.Sub(b.WindowStart)/r.Period != b.UpdatedAt.Sub(b.WindowStart)/r.Period {
			b.Tokens = capacity
			b.WindowStart = now
		}
		b.ResetAt = fixedResetAt(now, r.Period)
		return b.Tokens
	}

	elapsed := now.Sub(b.UpdatedAt)
	if elapsed <= 0 {
		return b.Tokens
	}
	return min(b.Tokens+r.Amount*float64(elapsed)/float64(r.Period), capacity)
}

// durationToAccrue returns how long the rolling discipline needs to accrue
// the given number of tokens.
func (r Rate) durationToAccrue(tokens float64) time.Duration {
	if tokens <= 0 {
		return 0
	}
	return time.Duration(tokens / r.Amount * float64(r.Period))
}

// fixedResetAt returns the next epoch-aligned window expiry after now.
func fixedResetAt(now time.Time, period time.Duration) time.Time {
	periodMs := period.Milliseconds()
	rem := periodMs - now.UnixMilli()%periodMs
	return now.Add(time.Duration(rem) * time.Millisecond)
}
