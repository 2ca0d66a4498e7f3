// Package fetch provides HTTP retrieval of conference program pages.
//
// The fetch package performs a single bounded network round trip per call and
// surfaces every failure mode (transport error, timeout, non-2xx status) as a
// typed *Error. It deliberately contains no retry or caching logic; callers
// that want retries wrap Fetch themselves, and the optional disk Cache is a
// separate caller-side layer.
package fetch
