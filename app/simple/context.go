package simple

import (
	"net/http"

	"github.com/turnstilehq/turnstile/core/router"
	"github.com/turnstilehq/turnstile/middleware"
)

// Context is the request context for the quickstart service: the default
// router context plus throttle-oriented accessors.
type Context struct {
	*router.Context
}

func newContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{Context: router.NewContext(w, r, params)}
}

// ClientKey returns the identity the throttle middleware buckets this
// request under: the resolved client IP when the ClientIP middleware ran,
// otherwise the raw remote address.
func (c *Context) ClientKey() string {
	if ip, ok := middleware.GetClientIP(c); ok {
		return ip
	}
	return c.Request().RemoteAddr
}
