package response

import (
	"errors"
	"net/http"

	"github.com/turnstilehq/turnstile/core/handler"
)

// HTTPError is the error shape routers render when a handler fails: an HTTP
// status, a stable machine-readable code, and an optional details map. The
// status stays out of the JSON body since it is already on the wire.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e HTTPError) Error() string   { return e.Message }
func (e HTTPError) StatusCode() int { return e.Status }

// WithMessage returns a copy with the message replaced.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

// WithDetails returns a copy with the details map replaced.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// WithError returns a copy recording err under the "cause" detail. The
// details map is copied, so predefined errors stay pristine.
func (e HTTPError) WithError(err error) HTTPError {
	details := map[string]any{"cause": err.Error()}
	for k, v := range e.Details {
		if k != "cause" {
			details[k] = v
		}
	}
	e.Details = details
	return e
}

// httpError builds a predefined error whose message is the standard
// status text.
func httpError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
}

var (
	ErrBadRequest          = httpError(http.StatusBadRequest, "bad_request")
	ErrUnauthorized        = httpError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden           = httpError(http.StatusForbidden, "forbidden")
	ErrNotFound            = httpError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed    = httpError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrTooManyRequests     = httpError(http.StatusTooManyRequests, "too_many_requests")
	ErrInternalServerError = httpError(http.StatusInternalServerError, "internal_server_error")
	ErrServiceUnavailable  = httpError(http.StatusServiceUnavailable, "service_unavailable")
)

var byStatus = map[int]HTTPError{}

func init() {
	for _, e := range []HTTPError{
		ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound,
		ErrMethodNotAllowed, ErrTooManyRequests,
		ErrInternalServerError, ErrServiceUnavailable,
	} {
		byStatus[e.Status] = e
	}
}

// asHTTPError maps an arbitrary error onto the taxonomy. HTTPError values
// pass through untouched; errors exposing StatusCode() int keep their
// status; everything else becomes a 500 with the original error recorded
// as the cause.
func asHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	base, ok := byStatus[status]
	if !ok {
		base = ErrInternalServerError
	}
	return base.WithError(err)
}

// ErrorHandler renders errors as plain text. Routers install it as the
// default.
func ErrorHandler[C handler.Context](ctx C, err error) {
	e := asHTTPError(err)
	Render(ctx, StringWithStatus(e.Message, e.Status))
}

// JSONErrorHandler renders errors as JSON in the HTTPError shape.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	e := asHTTPError(err)
	Render(ctx, JSONWithStatus(e, e.Status))
}
