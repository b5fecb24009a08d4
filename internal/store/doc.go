// Package store persists built catalogs, saved searches, and search history
// in SQLite.
//
// Each build replaces the whole asset set in one transaction, so readers see
// either the previous catalog or the new one. Assets are keyed by their
// stable id and stored as JSON next to a few indexed columns. Metadata and
// facet counts live in a single-row table.
//
// Schema changes bump schemaVersion in schema.go; the catalog is rebuilt from
// its source, so an outdated database is simply deleted and rebuilt.
package store
