package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Attr constructors for the keys this project logs under, so the same
// fact always lands under the same key. Constructors given an absent
// value (nil error, empty string) return the zero Attr, which slog drops,
// so call sites need no guards.

// Error logs err under "error", or nothing for a nil error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under "errors", keyed by their
// position so order survives, or nothing when every err is nil.
func Errors(errs ...error) slog.Attr {
	var group []slog.Attr
	for i, err := range errs {
		if err != nil {
			group = append(group, slog.Any(strconv.Itoa(i), err))
		}
	}
	if group == nil {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(group...)}
}

// ID logs an identifier under the caller's key, or nothing for nil.
func ID(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}

// Key logs an arbitrary value under the caller's key, or nothing for nil.
func Key(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}

// Timing attrs.

func Duration(d time.Duration) slog.Attr { return slog.Duration("duration", d) }
func Latency(d time.Duration) slog.Attr  { return slog.Duration("latency", d) }

// Elapsed logs the time since start under "elapsed".
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// Request-scoped attrs, matching the keys the logging middleware emits.

func Method(method string) slog.Attr { return slog.String("method", method) }
func Path(path string) slog.Attr     { return slog.String("path", path) }
func StatusCode(code int) slog.Attr  { return slog.Int("status_code", code) }
func ClientIP(ip string) slog.Attr   { return slog.String("client_ip", ip) }
func BytesOut(n int64) slog.Attr     { return slog.Int64("bytes_out", n) }

// Component tags a line with the subsystem that emitted it.
func Component(name string) slog.Attr { return slog.String("component", name) }

// RequestID logs the request's ID, or nothing when none was assigned.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Query logs the raw query string, or nothing for a bare URL.
func Query(q string) slog.Attr {
	if q == "" {
		return slog.Attr{}
	}
	return slog.String("query", q)
}
