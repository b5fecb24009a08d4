package filter

import (
	"vidcat/internal/assets"
	"vidcat/internal/query"
)

// Criteria combines facet selections, quick search, an advanced query,
// ordering, and a result limit.
type Criteria struct {
	State State
	Query string
	Sort  SortKey
	Order Order
	// Limit caps the returned slice; zero or negative means no cap.
	Limit int
}

// Run applies c to list. Facets and search narrow first, the advanced query
// second, then the result is sorted and capped. total counts matches before
// the cap.
func (c Criteria) Run(list []assets.Asset) (matched []assets.Asset, total int) {
	matched = Apply(list, c.State)
	if c.Query != "" {
		matched = query.Filter(matched, c.Query)
	}
	by, order := c.Sort, c.Order
	if by == "" {
		by = SortCategory
	}
	if order == "" {
		order = Ascending
	}
	matched = Sort(matched, by, order)
	total = len(matched)
	if c.Limit > 0 && len(matched) > c.Limit {
		matched = matched[:c.Limit]
	}
	return matched, total
}
