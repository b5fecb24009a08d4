// Package filter narrows a catalog by free-text search and facet selections.
//
// Within one facet the selected values are ORed; across facets they are
// ANDed. Every function is pure and safe to call repeatedly on the same
// immutable asset slice.
package filter
