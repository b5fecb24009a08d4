package export

import (
	"fmt"
	"strconv"
	"strings"

	"vidcat/internal/assets"
	"vidcat/internal/quality"
)

// listSeparator joins list values inside one cell.
const listSeparator = "; "

type column struct {
	key    string
	header string
	value  func(a assets.Asset) string
}

// columns is the full export layout in output order. Keys match the asset
// JSON field names and are what Options.Fields selects.
var columns = []column{
	{"id", "ID", func(a assets.Asset) string { return a.ID }},
	{"category", "Category", func(a assets.Asset) string { return a.Category }},
	{"url", "URL", func(a assets.Asset) string { return a.URL }},
	{"host", "Host", func(a assets.Asset) string { return a.Host }},
	{"scheme", "Scheme", func(a assets.Asset) string { return a.Scheme }},
	{"protocol", "Protocols", func(a assets.Asset) string {
		return strings.Join(a.FacetValues(assets.FacetProtocol), listSeparator)
	}},
	{"codec", "Codecs", func(a assets.Asset) string {
		return strings.Join(a.FacetValues(assets.FacetCodec), listSeparator)
	}},
	{"container", "Container", func(a assets.Asset) string { return string(a.Container) }},
	{"resolution", "Resolution", resolutionText},
	{"hdr", "HDR", func(a assets.Asset) string { return string(a.HDR) }},
	{"features", "Features", func(a assets.Asset) string { return strings.Join(a.Features, listSeparator) }},
	{"notes", "Notes", func(a assets.Asset) string { return a.Notes }},
}

// FieldNames lists the keys accepted by Options.Fields.
func FieldNames() []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		out = append(out, c.key)
	}
	return out
}

// resolutionText prefers the label and falls back to WxH.
func resolutionText(a assets.Asset) string {
	if a.Resolution == nil {
		return ""
	}
	if a.Resolution.Label != "" {
		return a.Resolution.Label
	}
	return fmt.Sprintf("%dx%d", a.Resolution.Width, a.Resolution.Height)
}

// selectColumns resolves Options.Fields against the layout. An empty
// selection keeps every column; unknown names are an error.
func selectColumns(fields []string) ([]column, error) {
	if len(fields) == 0 {
		return columns, nil
	}
	wanted := make(map[string]bool, len(fields))
	for _, f := range fields {
		key := strings.ToLower(strings.TrimSpace(f))
		if key == "" {
			continue
		}
		if !isColumn(key) {
			return nil, fmt.Errorf("unknown export field %q", f)
		}
		wanted[key] = true
	}
	out := make([]column, 0, len(wanted))
	for _, c := range columns {
		if wanted[c.key] {
			out = append(out, c)
		}
	}
	return out, nil
}

func isColumn(key string) bool {
	for _, c := range columns {
		if c.key == key {
			return true
		}
	}
	return false
}

// table renders the header and rows shared by the CSV and XLSX writers.
func table(list []assets.Asset, cols []column, opts Options) ([]string, [][]string) {
	header := make([]string, 0, len(cols)+3)
	for _, c := range cols {
		header = append(header, c.header)
	}
	if opts.IncludeScores {
		header = append(header, "Quality Score", "Quality Grade")
	}
	if opts.IncludeRecommendations {
		header = append(header, "Recommendations")
	}

	rows := make([][]string, 0, len(list))
	for _, a := range list {
		row := make([]string, 0, len(header))
		for _, c := range cols {
			row = append(row, c.value(a))
		}
		if opts.IncludeScores || opts.IncludeRecommendations {
			score := quality.Score(a)
			if opts.IncludeScores {
				row = append(row, strconv.Itoa(score.Overall), string(score.Grade))
			}
			if opts.IncludeRecommendations {
				row = append(row, strings.Join(score.Recommendations, listSeparator))
			}
		}
		rows = append(rows, row)
	}
	return header, rows
}
