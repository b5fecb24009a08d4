// Package catalog builds an assets.Catalog from raw CSV text.
//
// The first non-blank line is the header. A header naming resolution.width
// selects the pre-normalized extended layout; anything else is read
// positionally as url, category, format/protocol, notes. Each data row is
// tokenized and normalized independently: malformed rows are logged and
// counted in BuildStats, never fatal. Rows repeating an already seen URL are
// dropped as duplicates so each asset ID appears once.
//
// Facet counts are accumulated in the same pass and sorted by descending
// count, ties broken by value so repeated builds are byte-for-byte stable.
package catalog
