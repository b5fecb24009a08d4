// Package quality ranks assets by technical desirability.
//
// A score is a pure projection of an asset: six lookup tables (protocol,
// codec, resolution, HDR, container, features) add up to at most 100 points,
// the total maps onto a letter grade, and low sub-scores trigger fixed
// recommendation strings. Scores are never stored with the asset.
package quality
