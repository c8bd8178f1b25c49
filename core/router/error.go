package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/turnstilehq/turnstile/core/handler"
)

var (
	// Serve-time errors handed to the error handler.
	ErrNotFound         = errors.New("not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrNilResponse      = errors.New("nil response")

	// Registration mistakes; these panic, since routes are wired at startup.
	ErrInvalidPattern   = errors.New("invalid route pattern")
	ErrWildcardPosition = errors.New("wildcard must end the pattern")
	ErrDuplicateParam   = errors.New("duplicate route parameter")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrNilSubrouter     = errors.New("nil subrouter function")
	ErrNoContextFactory = errors.New("no context factory provided")
)

// statusCode lets an error pick its own HTTP status.
type statusCode interface {
	StatusCode() int
}

// defaultErrorHandler renders errors as plain text. Router sentinels map to
// their natural statuses, errors carrying a StatusCode are honored, and
// everything else is a 500.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()
	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrMethodNotAllowed):
		status = http.StatusMethodNotAllowed
	default:
		var sc statusCode
		if errors.As(err, &sc) {
			status = sc.StatusCode()
		}
	}

	http.Error(w, err.Error(), status)
}

// PanicError is how recovered panics reach a custom error handler: the
// error wraps the panic value and the stack captured at the panic site.
type PanicError interface {
	error
	Value() any
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap exposes panics raised with an error value to errors.Is/As.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
