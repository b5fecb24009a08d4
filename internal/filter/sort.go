package filter

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"vidcat/internal/assets"
	"vidcat/internal/quality"
)

// SortKey names a sortable column.
type SortKey string

const (
	SortCategory   SortKey = "category"
	SortHost       SortKey = "host"
	SortProtocols  SortKey = "protocols"
	SortCodecs     SortKey = "codecs"
	SortResolution SortKey = "resolution"
	SortQuality    SortKey = "quality"
)

// Order is the sort direction.
type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// ParseSort validates a sort key and direction. Empty values default to
// category ascending.
func ParseSort(by, order string) (SortKey, Order, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(by)))
	switch key {
	case "":
		key = SortCategory
	case SortCategory, SortHost, SortProtocols, SortCodecs, SortResolution, SortQuality:
	default:
		return "", "", fmt.Errorf("unknown sort key %q", by)
	}
	dir := Order(strings.ToLower(strings.TrimSpace(order)))
	switch dir {
	case "":
		dir = Ascending
	case Ascending, Descending:
	default:
		return "", "", fmt.Errorf("unknown sort order %q", order)
	}
	return key, dir, nil
}

// Sort returns a sorted copy of list. The sort is stable.
func Sort(list []assets.Asset, by SortKey, order Order) []assets.Asset {
	out := slices.Clone(list)
	if out == nil {
		out = []assets.Asset{}
	}
	compare := comparator(by)
	slices.SortStableFunc(out, func(a, b assets.Asset) int {
		c := compare(a, b)
		if order == Descending {
			return -c
		}
		return c
	})
	return out
}

func comparator(by SortKey) func(a, b assets.Asset) int {
	switch by {
	case SortHost:
		return func(a, b assets.Asset) int { return cmp.Compare(a.Host, b.Host) }
	case SortProtocols:
		return func(a, b assets.Asset) int {
			return cmp.Compare(joined(a.FacetValues(assets.FacetProtocol)), joined(b.FacetValues(assets.FacetProtocol)))
		}
	case SortCodecs:
		return func(a, b assets.Asset) int {
			return cmp.Compare(joined(a.FacetValues(assets.FacetCodec)), joined(b.FacetValues(assets.FacetCodec)))
		}
	case SortResolution:
		return func(a, b assets.Asset) int { return cmp.Compare(pixels(a), pixels(b)) }
	case SortQuality:
		return func(a, b assets.Asset) int {
			return cmp.Compare(quality.Score(a).Overall, quality.Score(b).Overall)
		}
	default:
		return func(a, b assets.Asset) int {
			return cmp.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
		}
	}
}

func joined(values []string) string {
	return strings.Join(values, ",")
}

func pixels(a assets.Asset) int {
	if a.Resolution == nil {
		return 0
	}
	return a.Resolution.Width * a.Resolution.Height
}
