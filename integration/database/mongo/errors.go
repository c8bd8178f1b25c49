package mongo

import "errors"

// Domain-specific MongoDB errors for consistent error handling across the
// application. Use errors.Is() to check error types.
var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
)
