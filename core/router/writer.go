package router

import "net/http"

// responseWriter fronts the real writer so the router knows whether a
// response has started, with what status, and how many body bytes went out.
type responseWriter struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

// WriteHeader records the first status written; repeats are dropped rather
// than triggering net/http's superfluous-call warning.
func (w *responseWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	w.status = status
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Written reports whether the status line has gone out.
func (w *responseWriter) Written() bool {
	return w.written
}

// Status returns the status sent, or 0 before any write.
func (w *responseWriter) Status() int {
	return w.status
}

// BytesWritten returns the body size so far.
func (w *responseWriter) BytesWritten() int {
	return w.bytes
}

// Flush forwards to the underlying writer when it supports streaming.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
