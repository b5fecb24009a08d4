package assets

import "time"

// CatalogVersion is the schema version stamped into metadata.
const CatalogVersion = "1.0.0"

// Metadata describes one catalog build.
type Metadata struct {
	TotalAssets    int       `json:"totalAssets"`
	BuildTimestamp time.Time `json:"buildTimestamp"`
	SourceURL      string    `json:"sourceUrl"`
	Version        string    `json:"version"`
}

// Catalog is the complete build output.
type Catalog struct {
	Assets      []Asset     `json:"assets"`
	FacetCounts FacetCounts `json:"facetCounts"`
	Metadata    Metadata    `json:"metadata"`
}

// Find returns the asset with the given ID.
func (c *Catalog) Find(id string) (Asset, bool) {
	if c == nil {
		return Asset{}, false
	}
	for _, a := range c.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return Asset{}, false
}

// Len reports the number of assets, tolerating a nil catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Assets)
}
