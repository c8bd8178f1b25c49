// Package fingerprint derives a stable identity for an HTTP client from
// traits of its requests, for throttling clients that carry no credential.
//
// The default mix hashes the User-Agent, the Accept-* values, and the
// shape of the header set: which stable headers the client sends at all.
// Browsers, mobile clients, and API tools each send a recognizably
// different set. The client IP stays out of the mix unless asked for,
// because mobile carriers and VPNs rotate addresses and every rotation
// would hand the client a fresh bucket; keying by fingerprint also keeps
// clients behind one NAT from draining each other's quota.
//
//	func keyFunc(ctx handler.Context) string {
//		return fingerprint.Generate(ctx.Request())
//	}
//
// Fingerprints are best-effort identifiers, not proof of identity. A
// determined client can rotate every input; pair fingerprint keying with
// authenticated identifiers where abuse matters.
package fingerprint
