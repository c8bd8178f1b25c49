package throttle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnstilehq/turnstile/pkg/throttle"
)

func TestParseRate(t *testing.T) {
	t.Parallel()

	t.Run("valid specifications", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			spec   string
			amount float64
			period time.Duration
			fixed  bool
		}{
			{"tokens per second", "3/s", 3, time.Second, false},
			{"tokens per millisecond", "1/ms", 1, time.Millisecond, false},
			{"tokens per minute", "100/min", 100, time.Minute, false},
			{"explicit denominator", "5/2min", 5, 2 * time.Minute, false},
			{"denominator of one", "5/1s", 5, time.Second, false},
			{"sub-second period", "1000/500ms", 1000, 500 * time.Millisecond, false},
			{"per day", "10/day", 10, 24 * time.Hour, false},
			{"multi hour", "7/3h", 7, 3 * time.Hour, false},
			{"long second alias", "1/second", 1, time.Second, false},
			{"short second alias", "1/sec", 1, time.Second, false},
			{"long minute alias", "1/minute", 1, time.Minute, false},
			{"short minute alias", "1/m", 1, time.Minute, false},
			{"long hour alias", "1/hour", 1, time.Hour, false},
			{"short day alias", "1/d", 1, 24 * time.Hour, false},
			{"fixed window", "5/s:fixed", 5, time.Second, true},
			{"fixed window with denominator", "10/30s:fixed", 10, 30 * time.Second, true},
			{"surrounding whitespace", "  3/s  ", 3, time.Second, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				rate, err := throttle.ParseRate(tt.spec)
				require.NoError(t, err)
				assert.Equal(t, tt.amount, rate.Amount)
				assert.Equal(t, tt.period, rate.Period)
				assert.Equal(t, tt.fixed, rate.Fixed)
			})
		}
	})

	t.Run("invalid specifications", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			spec string
		}{
			{"empty", ""},
			{"whitespace only", "   "},
			{"missing slash", "100"},
			{"missing amount", "/s"},
			{"zero amount", "0/s"},
			{"negative amount", "-5/s"},
			{"fractional amount", "1.5/s"},
			{"non numeric amount", "abc/s"},
			{"missing unit", "5/"},
			{"denominator without unit", "5/2"},
			{"zero denominator", "5/0s"},
			{"unknown unit", "5/fortnight"},
			{"uppercase unit", "5/S"},
			{"uppercase suffix", "5/s:FIXED"},
			{"unknown suffix", "5/s:sliding"},
			{"suffix only", ":fixed"},
			{"inner whitespace", "5 /s"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				_, err := throttle.ParseRate(tt.spec)
				require.Error(t, err)
				assert.ErrorIs(t, err, throttle.ErrInvalidRate)
			})
		}
	})
}
