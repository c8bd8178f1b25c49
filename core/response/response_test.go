package response_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnstilehq/turnstile/core/response"
)

// testContext is a minimal handler.Context for exercising responses directly.
type testContext struct {
	context.Context
	r *http.Request
	w http.ResponseWriter
}

func newTestContext(method, target string) (*testContext, *httptest.ResponseRecorder) {
	r := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	return &testContext{Context: r.Context(), r: r, w: w}, w
}

func (c *testContext) Request() *http.Request              { return c.r }
func (c *testContext) ResponseWriter() http.ResponseWriter { return c.w }
func (c *testContext) Param(string) string                 { return "" }

func (c *testContext) SetValue(key, val any) {
	c.Context = context.WithValue(c.Context, key, val)
}

func TestString(t *testing.T) {
	t.Parallel()

	ctx, rec := newTestContext(http.MethodGet, "/")
	response.Render(ctx, response.String("hello"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestStringWithStatus(t *testing.T) {
	t.Parallel()

	ctx, rec := newTestContext(http.MethodGet, "/")
	response.Render(ctx, response.StringWithStatus("slow down", http.StatusTooManyRequests))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "slow down", rec.Body.String())
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("encodes payload", func(t *testing.T) {
		ctx, rec := newTestContext(http.MethodGet, "/")
		response.Render(ctx, response.JSON(map[string]int{"remaining": 3}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"remaining":3}`, rec.Body.String())
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	})

	t.Run("no body for 204", func(t *testing.T) {
		ctx, rec := newTestContext(http.MethodGet, "/")
		response.Render(ctx, response.JSONWithStatus(map[string]int{"x": 1}, http.StatusNoContent))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestStatusAndNoContent(t *testing.T) {
	t.Parallel()

	ctx, rec := newTestContext(http.MethodGet, "/")
	response.Render(ctx, response.Status(http.StatusAccepted))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	ctx2, rec2 := newTestContext(http.MethodGet, "/")
	response.Render(ctx2, response.NoContent())
	assert.Equal(t, http.StatusNoContent, rec2.Code)
}

func TestError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	resp := response.Error(boom)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	err := resp(w, r)

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, w.Body.String(), "Error must not write anything itself")
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	t.Run("renders HTTPError status", func(t *testing.T) {
		ctx, rec := newTestContext(http.MethodGet, "/")
		response.ErrorHandler(ctx, response.ErrTooManyRequests)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), "Too Many Requests")
	})

	t.Run("unknown errors become 500", func(t *testing.T) {
		ctx, rec := newTestContext(http.MethodGet, "/")
		response.ErrorHandler(ctx, errors.New("mystery"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("wrapped errors keep their status", func(t *testing.T) {
		ctx, rec := newTestContext(http.MethodGet, "/")
		response.ErrorHandler(ctx, fmt.Errorf("admission: %w", response.ErrTooManyRequests))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})
}

func TestJSONErrorHandler(t *testing.T) {
	t.Parallel()

	ctx, rec := newTestContext(http.MethodGet, "/")
	response.JSONErrorHandler(ctx, response.ErrTooManyRequests.WithDetails(map[string]any{"retry_after": 2}))

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"code":"too_many_requests"`)
	assert.Contains(t, body, `"retry_after"`)
}

func TestHTTPErrorDecorators(t *testing.T) {
	t.Parallel()

	base := response.ErrNotFound
	withMsg := base.WithMessage("no such bucket")
	assert.Equal(t, "no such bucket", withMsg.Error())
	assert.Equal(t, base.Status, withMsg.StatusCode())
	assert.Equal(t, http.StatusText(http.StatusNotFound), base.Message, "original is unchanged")

	cause := errors.New("root cause")
	withErr := base.WithError(cause)
	assert.Equal(t, "root cause", withErr.Details["cause"])
	assert.Nil(t, base.Details, "predefined error must not accumulate details")
}

func TestWithHeaders(t *testing.T) {
	t.Parallel()

	resp := response.WithHeaders(response.NoContent(), map[string]string{
		"X-RateLimit-Limit":     "10",
		"X-RateLimit-Remaining": "3",
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	require.NoError(t, resp(w, r))

	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Remaining"))
}
