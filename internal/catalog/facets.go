package catalog

import (
	"sort"

	"vidcat/internal/assets"
)

// CountFacets builds the per-facet histogram for list. Every facet is present
// in the result, possibly with no values.
func CountFacets(list []assets.Asset) assets.FacetCounts {
	counts := make(map[assets.Facet]map[string]int, len(assets.Facets))
	for _, f := range assets.Facets {
		counts[f] = map[string]int{}
	}
	for _, a := range list {
		for _, f := range assets.Facets {
			for _, v := range a.FacetValues(f) {
				counts[f][v]++
			}
		}
	}

	out := make(assets.FacetCounts, len(assets.Facets))
	for _, f := range assets.Facets {
		values := make([]assets.FacetValue, 0, len(counts[f]))
		for v, n := range counts[f] {
			values = append(values, assets.FacetValue{Value: v, Count: n})
		}
		sort.Slice(values, func(i, j int) bool {
			if values[i].Count != values[j].Count {
				return values[i].Count > values[j].Count
			}
			return values[i].Value < values[j].Value
		})
		out[f] = values
	}
	return out
}

// Assemble wraps an existing asset list into a catalog with fresh facet counts.
func Assemble(list []assets.Asset, meta assets.Metadata) *assets.Catalog {
	meta.TotalAssets = len(list)
	return &assets.Catalog{Assets: list, FacetCounts: CountFacets(list), Metadata: meta}
}
