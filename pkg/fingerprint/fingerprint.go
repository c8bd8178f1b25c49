package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/turnstilehq/turnstile/pkg/clientip"
)

// The version prefix keeps stored keys from colliding if the mix ever
// changes: old buckets simply age out under the old prefix.
const version = "v1:"

// hashLen truncates the SHA-256 sum to 128 bits. Enough for keying, and
// half the footprint in the bucket store.
const hashLen = 16

type config struct {
	ip      bool
	agent   bool
	accepts bool
	shape   bool
}

// Option adjusts which traits feed the fingerprint.
type Option func(*config)

// WithIP mixes in the client IP. Limits stop being shared across machines
// behind one NAT, at the price of resetting the budget whenever a mobile
// or VPN client changes address.
func WithIP() Option {
	return func(c *config) { c.ip = true }
}

// WithoutUserAgent leaves the User-Agent out of the mix.
func WithoutUserAgent() Option {
	return func(c *config) { c.agent = false }
}

// WithoutAcceptHeaders leaves the Accept-* values out of the mix, for
// clients whose content negotiation varies per request.
func WithoutAcceptHeaders() Option {
	return func(c *config) { c.accepts = false }
}

// WithoutHeaderShape leaves the header-set shape out of the mix.
func WithoutHeaderShape() Option {
	return func(c *config) { c.shape = false }
}

// Generate returns the client's fingerprint as "v1:" plus 32 hex digits.
// Identical requests always produce identical fingerprints.
func Generate(r *http.Request, opts ...Option) string {
	cfg := config{agent: true, accepts: true, shape: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := sha256.New()
	mix := func(trait string) {
		// The separator keeps adjacent traits from bleeding into each
		// other; absent traits contribute nothing, so a missing header
		// and a disabled one hash alike.
		if trait != "" {
			h.Write([]byte(trait))
			h.Write([]byte{'|'})
		}
	}

	if cfg.agent {
		mix(r.UserAgent())
	}
	if cfg.accepts {
		mix(r.Header.Get("Accept-Language"))
		mix(r.Header.Get("Accept-Encoding"))
		mix(r.Header.Get("Accept"))
	}
	if cfg.ip {
		mix(clientip.GetIP(r))
	}
	if cfg.shape {
		mix(headerShape(r))
	}

	sum := h.Sum(nil)
	return version + hex.EncodeToString(sum[:hashLen])
}

// Strict is Generate with the client IP mixed in.
func Strict(r *http.Request) string {
	return Generate(r, WithIP())
}

// stableHeaders lists, already sorted, the headers whose presence marks a
// client type without churning between that client's requests. Volatile
// headers (cookies, referers) stay out to avoid splitting one client
// across buckets.
var stableHeaders = []string{
	"Accept",
	"Accept-Encoding",
	"Accept-Language",
	"Cache-Control",
	"Connection",
	"Sec-Fetch-Dest",
	"Sec-Fetch-Mode",
	"Sec-Fetch-Site",
	"Upgrade-Insecure-Requests",
	"User-Agent",
}

// headerShape reports which of the stable headers the request carries,
// ignoring their values.
func headerShape(r *http.Request) string {
	var present []string
	for _, name := range stableHeaders {
		if r.Header.Get(name) != "" {
			present = append(present, strings.ToLower(name))
		}
	}
	return strings.Join(present, ",")
}
