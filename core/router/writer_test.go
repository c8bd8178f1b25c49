package router

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	t.Run("tracks status and size", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		w := newResponseWriter(rec)

		assert.False(t, w.Written())
		assert.Zero(t, w.Status())

		w.WriteHeader(418)
		n, err := w.Write([]byte("short"))
		assert.NoError(t, err)
		assert.Equal(t, 5, n)

		assert.True(t, w.Written())
		assert.Equal(t, 418, w.Status())
		assert.Equal(t, 5, w.BytesWritten())
		assert.Equal(t, 418, rec.Code)
	})

	t.Run("write implies 200", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		w := newResponseWriter(rec)

		_, _ = w.Write([]byte("ok"))
		assert.Equal(t, 200, w.Status())
	})

	t.Run("second status is dropped", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		w := newResponseWriter(rec)

		w.WriteHeader(204)
		w.WriteHeader(500)
		assert.Equal(t, 204, w.Status())
		assert.Equal(t, 204, rec.Code)
	})
}
