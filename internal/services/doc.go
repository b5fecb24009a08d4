// Package services defines shared utilities consumed by the catalog pipeline,
// the portal API, and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp asset IDs and correlation identifiers for
//     logging.
//   - Structured error markers plus the Wrap helper, and the mapping from those
//     markers to HTTP status codes and retry decisions.
//
// Use these helpers when wiring new components so failure classification
// stays uniform between the CLI and the portal.
package services
