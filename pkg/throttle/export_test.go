package throttle

import "time"

// SetNow replaces the limiter's time source so tests can steer the clock
// instead of sleeping through real refill intervals.
func SetNow(l *Limiter, now func() time.Time) {
	l.now = now
}
