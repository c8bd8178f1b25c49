// Package clientip resolves the real client address of an HTTP request
// for throttle keying and logging behind proxies, load balancers, and
// CDNs.
//
// GetIP walks the known forwarding headers in trust order, most specific
// first:
//
//	CF-Connecting-IP   set by Cloudflare
//	DO-Connecting-IP   set by DigitalOcean load balancers
//	X-Forwarded-For    generic proxy chain; the leftmost entry is the client
//	X-Real-IP          nginx convention
//
// falling back to the connection's RemoteAddr when none yields a valid
// address. Every candidate is parsed and canonicalized with net.ParseIP,
// so IPv6 works throughout and garbage values (including the unspecified
// 0.0.0.0) are skipped rather than trusted. GetIP never fails; worst
// case it returns the raw RemoteAddr.
//
//	key := clientip.GetIP(r)
//
// The forwarding headers are client-supplied. A request arriving directly
// can claim any address, so only deploy this behind a proxy layer that
// overwrites them.
package clientip
