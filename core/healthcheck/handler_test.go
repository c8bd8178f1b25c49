package healthcheck_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnstilehq/turnstile/core/healthcheck"
	"github.com/turnstilehq/turnstile/core/response"
)

type testContext struct {
	context.Context
	r *http.Request
	w http.ResponseWriter
}

func (c *testContext) Request() *http.Request              { return c.r }
func (c *testContext) ResponseWriter() http.ResponseWriter { return c.w }
func (c *testContext) Param(key string) string             { return "" }
func (c *testContext) SetValue(key, val any)               {}

func newTestContext() (*testContext, *httptest.ResponseRecorder) {
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	return &testContext{Context: r.Context(), r: r, w: w}, w
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandlerLiveness(t *testing.T) {
	t.Parallel()

	h := healthcheck.Handler[*testContext](discardLogger())

	ctx, rec := newTestContext()
	err := h(ctx)(rec, ctx.Request())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())
}

func TestHandlerReadiness(t *testing.T) {
	t.Parallel()

	t.Run("all checks pass", func(t *testing.T) {
		t.Parallel()

		var calls int
		check := func(context.Context) error {
			calls++
			return nil
		}

		h := healthcheck.Handler[*testContext](discardLogger(), check, check)

		ctx, rec := newTestContext()
		err := h(ctx)(rec, ctx.Request())
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "READY", rec.Body.String())
		assert.Equal(t, 2, calls)
	})

	t.Run("check failure returns service unavailable", func(t *testing.T) {
		t.Parallel()

		var afterFailure bool
		h := healthcheck.Handler[*testContext](discardLogger(),
			func(context.Context) error { return nil },
			func(context.Context) error { return errors.New("connection refused") },
			func(context.Context) error { afterFailure = true; return nil },
		)

		ctx, rec := newTestContext()
		err := h(ctx)(rec, ctx.Request())
		require.Error(t, err)

		var httpErr response.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)

		// The error is returned for the router's error handler to render.
		assert.Zero(t, rec.Body.Len())
		assert.False(t, afterFailure, "checks after a failure must not run")
	})
}
