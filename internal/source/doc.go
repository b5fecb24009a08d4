// Package source fetches the raw catalog CSV.
//
// Two implementations satisfy Source: an HTTP source that enforces a request
// timeout, a fixed User-Agent, and 2xx responses behind a circuit breaker, and
// a file source for local CSV exports. Failures are classified with the
// services sentinels (timeout, transient, validation) so callers can decide
// whether a retry makes sense. An empty body is always an error.
package source
