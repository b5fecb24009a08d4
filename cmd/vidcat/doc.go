// Package main hosts the vidcat CLI entrypoint and command graph.
//
// The Cobra command tree builds the catalog from its CSV source, queries the
// persisted catalog (search, show, score, recommend, facets), exports
// filtered views, files issue reports, manages saved searches, and runs or
// inspects the HTTP portal. Configuration is resolved once per invocation
// and shared through commandContext.
//
// Keep this package lean: behaviour belongs in internal packages and is only
// surfaced here through flags and rendering.
package main
