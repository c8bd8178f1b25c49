package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnstilehq/turnstile/core/handler"
	"github.com/turnstilehq/turnstile/core/response"
	"github.com/turnstilehq/turnstile/core/router"
	"github.com/turnstilehq/turnstile/middleware"
)

// echoIDRouter serves the ID the middleware assigned, or "none".
func echoIDRouter(mw handler.Middleware[*router.Context]) router.Router[*router.Context] {
	r := router.New[*router.Context]()
	r.Use(mw)
	r.Get("/id", func(ctx *router.Context) handler.Response {
		id, ok := middleware.GetRequestID(ctx)
		if !ok {
			id = "none"
		}
		return response.String(id)
	})
	return r
}

func TestRequestIDAssignment(t *testing.T) {
	t.Parallel()

	r := echoIDRouter(middleware.RequestID[*router.Context]())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/id", nil))

	id := rec.Header().Get("X-Request-ID")
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "default generator mints UUIDs")
	assert.Equal(t, id, rec.Body.String(), "header and context carry the same ID")

	rec2 := httptest.NewRecorder()
	r.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/id", nil))
	assert.NotEqual(t, id, rec2.Header().Get("X-Request-ID"), "every request gets its own ID")
}

func TestRequestIDCustomGenerator(t *testing.T) {
	t.Parallel()

	calls := 0
	r := echoIDRouter(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
		Generator:  func() string { calls++; return "req-1" },
		HeaderName: "X-Trace-ID",
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/id", nil))

	assert.Equal(t, "req-1", rec.Header().Get("X-Trace-ID"))
	assert.Empty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, 1, calls)
}

func TestRequestIDUseExisting(t *testing.T) {
	t.Parallel()

	t.Run("adopts inbound ID when enabled", func(t *testing.T) {
		t.Parallel()

		r := echoIDRouter(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
			UseExisting: true,
		}))

		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set("X-Request-ID", "caller-chosen")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "caller-chosen", rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "caller-chosen", rec.Body.String())
	})

	t.Run("mints when the request carries none", func(t *testing.T) {
		t.Parallel()

		r := echoIDRouter(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
			UseExisting: true,
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/id", nil))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("inbound IDs are ignored by default", func(t *testing.T) {
		t.Parallel()

		r := echoIDRouter(middleware.RequestID[*router.Context]())

		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set("X-Request-ID", "caller-chosen")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.NotEqual(t, "caller-chosen", rec.Header().Get("X-Request-ID"))
	})
}

func TestRequestIDSkip(t *testing.T) {
	t.Parallel()

	r := echoIDRouter(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
		Skip: func(ctx handler.Context) bool { return true },
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/id", nil))

	assert.Empty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "none", rec.Body.String())
}
