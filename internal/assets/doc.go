// Package assets defines the catalog data model shared by every vidcat
// component.
//
// An Asset is one video test URL plus the technical metadata derived from its
// free-text description: streaming protocols, codecs, resolution bucket, HDR
// tag, container, and capability features. Asset identity is exactly its
// normalized URL, so two rows naming the same URL always carry the same ID.
//
// FacetCounts is the per-facet histogram built alongside the asset list. It
// keeps values in descending count order and preserves that order when encoded
// as JSON, which Go maps cannot do on their own.
//
// The types here hold no behavior beyond small accessors; extraction, building,
// filtering, and scoring live in their own packages and operate on these
// values without mutating them.
package assets
