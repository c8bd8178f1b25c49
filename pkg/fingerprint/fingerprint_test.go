package fingerprint_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turnstilehq/turnstile/pkg/fingerprint"
)

func request(remote string, headers map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = remote
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)",
	"Accept":          "text/html,application/xhtml+xml",
	"Accept-Language": "en-US,en;q=0.9",
	"Accept-Encoding": "gzip, deflate, br",
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("format and determinism", func(t *testing.T) {
		t.Parallel()

		r := request("192.168.1.100:54321", browserHeaders)
		fp := fingerprint.Generate(r)

		assert.Regexp(t, "^v1:[a-f0-9]{32}$", fp)
		assert.Equal(t, fp, fingerprint.Generate(r), "same request, same fingerprint")
	})

	t.Run("user agent is a trait", func(t *testing.T) {
		t.Parallel()

		mac := request("10.0.0.1:1", map[string]string{"User-Agent": "Mozilla/5.0 (Macintosh)", "Accept": "text/html"})
		win := request("10.0.0.1:1", map[string]string{"User-Agent": "Mozilla/5.0 (Windows)", "Accept": "text/html"})

		assert.NotEqual(t, fingerprint.Generate(mac), fingerprint.Generate(win))
	})

	t.Run("accept values are traits", func(t *testing.T) {
		t.Parallel()

		html := request("10.0.0.1:1", map[string]string{"User-Agent": "app", "Accept": "text/html"})
		json := request("10.0.0.1:1", map[string]string{"User-Agent": "app", "Accept": "application/json"})

		assert.NotEqual(t, fingerprint.Generate(html), fingerprint.Generate(json))
	})

	t.Run("header shape is a trait", func(t *testing.T) {
		t.Parallel()

		// Same visible values; only the set of headers present differs.
		browser := request("10.0.0.1:1", map[string]string{
			"User-Agent": "app", "Accept": "text/html", "Connection": "keep-alive",
		})
		tool := request("10.0.0.1:1", map[string]string{
			"User-Agent": "app", "Accept": "text/html", "Sec-Fetch-Mode": "navigate",
		})

		assert.NotEqual(t, fingerprint.Generate(browser), fingerprint.Generate(tool))
	})

	t.Run("ip is not a trait by default", func(t *testing.T) {
		t.Parallel()

		a := request("192.168.1.100:54321", browserHeaders)
		b := request("192.168.1.101:54321", browserHeaders)

		assert.Equal(t, fingerprint.Generate(a), fingerprint.Generate(b),
			"an address change must not reset the client's budget")
	})

	t.Run("bare request still fingerprints", func(t *testing.T) {
		t.Parallel()

		fp := fingerprint.Generate(request("127.0.0.1:8080", nil))
		assert.Regexp(t, "^v1:[a-f0-9]{32}$", fp)
	})
}

func TestGenerateOptions(t *testing.T) {
	t.Parallel()

	t.Run("WithIP separates addresses", func(t *testing.T) {
		t.Parallel()

		a := request("192.168.1.100:54321", browserHeaders)
		b := request("192.168.1.101:54321", browserHeaders)

		assert.NotEqual(t,
			fingerprint.Generate(a, fingerprint.WithIP()),
			fingerprint.Generate(b, fingerprint.WithIP()),
		)
	})

	t.Run("WithIP honors proxy headers", func(t *testing.T) {
		t.Parallel()

		direct := request("10.0.0.1:1", map[string]string{"User-Agent": "app"})
		proxied := request("10.0.0.1:1", map[string]string{
			"User-Agent":       "app",
			"CF-Connecting-IP": "203.0.113.195",
		})

		assert.NotEqual(t,
			fingerprint.Generate(direct, fingerprint.WithIP()),
			fingerprint.Generate(proxied, fingerprint.WithIP()),
		)
	})

	t.Run("WithoutUserAgent ignores agent churn", func(t *testing.T) {
		t.Parallel()

		old := request("10.0.0.1:1", map[string]string{"User-Agent": "app/1.0", "Accept": "text/html"})
		upgraded := request("10.0.0.1:1", map[string]string{"User-Agent": "app/1.1", "Accept": "text/html"})

		assert.Equal(t,
			fingerprint.Generate(old, fingerprint.WithoutUserAgent()),
			fingerprint.Generate(upgraded, fingerprint.WithoutUserAgent()),
		)
	})

	t.Run("WithoutAcceptHeaders ignores negotiation churn", func(t *testing.T) {
		t.Parallel()

		en := request("10.0.0.1:1", map[string]string{"User-Agent": "app", "Accept-Language": "en-US"})
		fr := request("10.0.0.1:1", map[string]string{"User-Agent": "app", "Accept-Language": "fr-FR"})

		assert.Equal(t,
			fingerprint.Generate(en, fingerprint.WithoutAcceptHeaders()),
			fingerprint.Generate(fr, fingerprint.WithoutAcceptHeaders()),
		)
	})

	t.Run("WithoutHeaderShape ignores presence churn", func(t *testing.T) {
		t.Parallel()

		lean := request("10.0.0.1:1", map[string]string{"User-Agent": "app", "Accept": "text/html"})
		full := request("10.0.0.1:1", map[string]string{"User-Agent": "app", "Accept": "text/html", "Connection": "keep-alive"})

		assert.Equal(t,
			fingerprint.Generate(lean, fingerprint.WithoutHeaderShape()),
			fingerprint.Generate(full, fingerprint.WithoutHeaderShape()),
		)
		assert.NotEqual(t, fingerprint.Generate(lean), fingerprint.Generate(full),
			"shape counts by default")
	})
}

func TestStrict(t *testing.T) {
	t.Parallel()

	a := request("192.168.1.100:54321", browserHeaders)
	b := request("192.168.1.101:54321", browserHeaders)

	assert.Equal(t, fingerprint.Generate(a, fingerprint.WithIP()), fingerprint.Strict(a))
	assert.NotEqual(t, fingerprint.Strict(a), fingerprint.Strict(b))
}

func TestDistinctClients(t *testing.T) {
	t.Parallel()

	clients := []map[string]string{
		{
			"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9",
			"Accept-Language": "en-US,en;q=0.9",
			"Accept-Encoding": "gzip, deflate, br",
		},
		{
			"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:91.0) Gecko/20100101",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
			"Accept-Encoding": "gzip, deflate",
		},
		{
			"User-Agent": "quota-probe/1.0",
			"Accept":     "application/json",
		},
	}

	seen := make(map[string]bool)
	for _, headers := range clients {
		seen[fingerprint.Generate(request("10.0.0.1:1", headers))] = true
	}
	assert.Len(t, seen, len(clients), "distinct clients collide")
}

func BenchmarkGenerate(b *testing.B) {
	r := request("192.168.1.100:54321", map[string]string{
		"User-Agent":                "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.9",
		"Accept-Encoding":           "gzip, deflate, br",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	})

	for b.Loop() {
		fingerprint.Generate(r)
	}
}
