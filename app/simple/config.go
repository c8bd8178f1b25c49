package simple

import (
	"time"

	"github.com/turnstilehq/turnstile/core/server"
)

// Config carries everything the quickstart service reads from the
// environment.
type Config struct {
	Server server.Config

	AppName string `env:"APP_NAME" envDefault:"turnstile-simple"`
	Env     string `env:"APP_ENV" envDefault:"development"`

	// ThrottleRate is the admission budget applied to every route,
	// e.g. "100/minute" or "10/s:fixed".
	ThrottleRate string `env:"THROTTLE_RATE" envDefault:"100/minute"`
	// ThrottleBurst overrides the bucket capacity; 0 defaults it to the
	// rate amount.
	ThrottleBurst float64 `env:"THROTTLE_BURST" envDefault:"0"`
	// ThrottleStoreSize caps how many client buckets stay in memory.
	ThrottleStoreSize int `env:"THROTTLE_STORE_SIZE" envDefault:"10000"`
	// ThrottleBucketTTL controls how long idle buckets survive before the
	// janitor sweeps them.
	ThrottleBucketTTL time.Duration `env:"THROTTLE_BUCKET_TTL" envDefault:"1h"`
}
