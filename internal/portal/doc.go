// Package portal serves the video asset catalog over HTTP.
//
// A Portal owns the in-memory catalog, rebuilds it from the configured CSV
// source on start, on POST /api/reload, and optionally on a timer, and
// persists every successful build to the store. A failed build never
// replaces the catalog being served; when no catalog has ever loaded the
// read endpoints answer 503 with the load error so the UI can offer a retry.
//
// The chi router exposes catalog, filtering, scoring, export, saved search,
// and issue reporting endpoints under /api plus Prometheus metrics at
// /metrics. Issue submission is rate limited per client IP and reload is
// guarded by the bearer token when paths.api_token is set. A file lock in
// the data directory keeps a second portal from starting against the same
// database.
package portal
