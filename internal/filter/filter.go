package filter

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vidcat/internal/assets"
)

// State is the user's current search text and per-facet selections.
type State struct {
	Search   string                    `json:"search"`
	Selected map[assets.Facet][]string `json:"selected,omitempty"`
}

// Select adds values to a facet selection, ignoring blanks and repeats.
func (s *State) Select(f assets.Facet, values ...string) {
	if s.Selected == nil {
		s.Selected = make(map[assets.Facet][]string)
	}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(s.Selected[f], v) {
			continue
		}
		s.Selected[f] = append(s.Selected[f], v)
	}
}

// Clear drops all selections and the search text.
func (s *State) Clear() {
	s.Search = ""
	s.Selected = nil
}

// Apply returns the assets that pass s, preserving input order. The result
// is never nil.
func Apply(list []assets.Asset, s State) []assets.Asset {
	out := make([]assets.Asset, 0, len(list))
	for _, a := range list {
		if Matches(a, s) {
			out = append(out, a)
		}
	}
	return out
}

// Matches reports whether a single asset passes s.
func Matches(a assets.Asset, s State) bool {
	if query := strings.ToLower(strings.TrimSpace(s.Search)); query != "" {
		if !strings.Contains(SearchableText(a), query) {
			return false
		}
	}
	for _, f := range assets.Facets {
		selected := s.Selected[f]
		if len(selected) == 0 {
			continue
		}
		if !slices.ContainsFunc(a.FacetValues(f), func(v string) bool {
			return slices.Contains(selected, v)
		}) {
			return false
		}
	}
	return true
}

// SearchableText joins category, host, hdr, container, notes, resolution
// label, protocols, codecs, and features with spaces, lowercased.
func SearchableText(a assets.Asset) string {
	parts := []string{a.Category, a.Host, string(a.HDR), string(a.Container), a.Notes, a.ResolutionLabel()}
	for _, p := range a.Protocol {
		parts = append(parts, string(p))
	}
	for _, c := range a.Codec {
		parts = append(parts, string(c))
	}
	parts = append(parts, a.Features...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Search is the quick search: any asset whose searchable text contains the
// term. An empty term returns the whole list.
func Search(list []assets.Asset, term string) []assets.Asset {
	return Apply(list, State{Search: term})
}

// ActiveFilterCount sums the sizes of all facet selections.
func ActiveFilterCount(s State) int {
	n := 0
	for _, f := range assets.Facets {
		n += len(s.Selected[f])
	}
	return n
}

// labelOrder is the order in which selection labels are listed.
var labelOrder = []assets.Facet{
	assets.FacetProtocol,
	assets.FacetCodec,
	assets.FacetResolution,
	assets.FacetHDR,
	assets.FacetContainer,
	assets.FacetScheme,
	assets.FacetHost,
}

// upper builds a fresh Caser per call; Casers carry state and must not be
// shared between goroutines.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// ActiveFilterLabels renders every selected value for display.
func ActiveFilterLabels(s State) []string {
	labels := make([]string, 0, ActiveFilterCount(s))
	for _, f := range labelOrder {
		for _, v := range s.Selected[f] {
			labels = append(labels, Label(f, v))
		}
	}
	return labels
}

// Label renders one facet value for display.
func Label(f assets.Facet, value string) string {
	switch f {
	case assets.FacetCodec:
		switch assets.Codec(value) {
		case assets.CodecAVC:
			return "H.264"
		case assets.CodecHEVC:
			return "HEVC"
		}
		return upper(value)
	case assets.FacetHDR:
		if assets.HDR(value) == assets.DoVi {
			return "Dolby Vision"
		}
		return upper(value)
	case assets.FacetProtocol, assets.FacetContainer, assets.FacetScheme:
		return upper(value)
	default:
		return value
	}
}
