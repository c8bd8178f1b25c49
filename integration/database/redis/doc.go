// Package redis connects and verifies the go-redis client used by the
// Redis-backed throttle store, which shares rate limit buckets across
// service replicas.
//
// Connect validates the URL (redis:// and rediss:// schemes), retries
// transient dial failures, and pings before handing the client back, so
// the service never starts admitting traffic against a dead store:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal("redis:", err)
//	}
//	defer client.Close()
//
//	store := throttle.NewRedisStore(client)
//	limiter, err := throttle.New(store, throttle.Config{Rate: "100/minute"})
//
// Config maps entirely from the environment: REDIS_URL (required),
// REDIS_RETRY_ATTEMPTS (3), REDIS_RETRY_INTERVAL (5s),
// REDIS_CONNECT_TIMEOUT (30s), REDIS_SCAN_BATCH_SIZE (1000). Retries
// respect context cancellation.
//
// Healthcheck adapts the client's ping into the shape the healthcheck
// handler consumes:
//
//	r.Get("/health", healthcheck.Handler[*router.Context](log,
//		redis.Healthcheck(client),
//	))
//
// Failures surface as the package's sentinel errors
// (ErrFailedToParseRedisConnString, ErrRedisNotReady,
// ErrEmptyConnectionURL, ErrHealthcheckFailed) wrapping the go-redis
// cause, so callers can branch with errors.Is.
package redis
