package response

import (
	"encoding/json"
	"net/http"

	"github.com/turnstilehq/turnstile/core/handler"
)

// Render executes resp against ctx. When the response itself fails to write,
// the client still gets a plain 500 rather than a hung connection.
func Render(ctx handler.Context, resp handler.Response) {
	if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
		http.Error(ctx.ResponseWriter(), err.Error(), http.StatusInternalServerError)
	}
}

// String replies 200 with a text/plain body.
func String(content string) handler.Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus replies with a text/plain body and the given status.
func StringWithStatus(content string, status int) handler.Response {
	return write("text/plain; charset=utf-8", status, []byte(content))
}

// Status replies with the given status and no body.
func Status(code int) handler.Response {
	return write("", code, nil)
}

// NoContent replies 204.
func NoContent() handler.Response {
	return Status(http.StatusNoContent)
}

// JSON replies 200 with v encoded as application/json.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus encodes v as application/json with the given status,
// streaming straight to the wire. Statuses that forbid a body (204, 304)
// skip encoding.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if status == http.StatusNoContent || status == http.StatusNotModified {
			return nil
		}
		return json.NewEncoder(w).Encode(v)
	}
}

// Error produces a response that writes nothing and hands err to the
// router's error handler. It is how handlers and middleware surface
// failures (a store outage, an admission denial) through the one error
// path.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error { return err }
}

// WithHeaders sets headers before the wrapped response renders. The throttle
// middleware uses it to attach X-RateLimit-* headers to handler output.
func WithHeaders(resp handler.Response, headers map[string]string) handler.Response {
	if resp == nil || len(headers) == 0 {
		return resp
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		return resp(w, r)
	}
}

func write(contentType string, status int, body []byte) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if len(body) == 0 {
			return nil
		}
		_, err := w.Write(body)
		return err
	}
}
