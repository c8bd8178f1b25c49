// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/turnstilehq/turnstile/core/config"
//
//	type ThrottleConfig struct {
//		Rate      string `env:"THROTTLE_RATE" envDefault:"100/min"`
//		Burst     float64 `env:"THROTTLE_BURST"`
//		StoreSize int    `env:"THROTTLE_STORE_SIZE" envDefault:"10000"`
//		RedisURL  string `env:"REDIS_URL,required"`
//	}
//
//	func main() {
//		var cfg ThrottleConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 ThrottleConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 ThrottleConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently, so component configs (server,
// stores, integrations) can each be loaded where they are needed without
// re-reading the environment.
package config
