package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"vidcat/internal/assets"
	"vidcat/internal/quality"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatTXT  Format = "txt"
)

// SheetName is the worksheet holding exported assets.
const SheetName = "Assets"

// ParseFormat resolves a format name; "excel" is accepted for xlsx.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatCSV, FormatJSON, FormatXLSX, FormatTXT:
		return f, nil
	case "excel", "xls":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", name)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename names an export produced at t, e.g. video-assets-2024-05-01.csv.
func Filename(f Format, t time.Time) string {
	return fmt.Sprintf("video-assets-%s.%s", t.UTC().Format(time.DateOnly), f)
}

// Options controls what an export contains.
type Options struct {
	Format                 Format
	IncludeScores          bool
	IncludeRecommendations bool
	// Fields limits the asset columns by JSON name; empty means all.
	Fields []string
}

// Write renders list to w.
func Write(w io.Writer, list []assets.Asset, opts Options) error {
	cols, err := selectColumns(opts.Fields)
	if err != nil {
		return err
	}
	switch opts.Format {
	case FormatCSV:
		return writeCSV(w, list, cols, opts)
	case FormatJSON:
		return writeJSON(w, list, cols, opts)
	case FormatXLSX:
		return writeXLSX(w, list, cols, opts)
	case FormatTXT:
		return writeTXT(w, list, cols, opts)
	default:
		return fmt.Errorf("unsupported export format %q", opts.Format)
	}
}

// Bytes renders list into memory.
func Bytes(list []assets.Asset, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, list, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCSV(w io.Writer, list []assets.Asset, cols []column, opts Options) error {
	header, rows := table(list, cols, opts)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, list []assets.Asset, cols []column, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	full := len(opts.Fields) == 0
	if full && !opts.IncludeScores && !opts.IncludeRecommendations {
		if list == nil {
			list = []assets.Asset{}
		}
		return enc.Encode(list)
	}

	out := make([]map[string]any, 0, len(list))
	for _, a := range list {
		record := make(map[string]any, len(cols)+1)
		raw, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encode asset %s: %w", a.ID, err)
		}
		var all map[string]json.RawMessage
		if err := json.Unmarshal(raw, &all); err != nil {
			return fmt.Errorf("encode asset %s: %w", a.ID, err)
		}
		for _, c := range cols {
			record[c.key] = all[c.key]
		}
		if opts.IncludeScores || opts.IncludeRecommendations {
			score := quality.Score(a)
			if !opts.IncludeRecommendations {
				score.Recommendations = nil
			}
			record["qualityScore"] = score
		}
		out = append(out, record)
	}
	return enc.Encode(out)
}

func writeXLSX(w io.Writer, list []assets.Asset, cols []column, opts Options) error {
	header, rows := table(list, cols, opts)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for r, values := range append([][]string{header}, rows...) {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		row := make([]any, len(values))
		for i, v := range values {
			row[i] = v
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// txtSeparator separates asset blocks in text exports.
var txtSeparator = "\n\n" + strings.Repeat("=", 50) + "\n\n"

// txtFallback is printed for empty values.
var txtFallback = map[string]string{
	"codec":      "Unknown",
	"container":  "Unknown",
	"resolution": "Unknown",
	"hdr":        "SDR",
	"notes":      "None",
}

var listColumns = map[string]bool{"protocol": true, "codec": true, "features": true}

func writeTXT(w io.Writer, list []assets.Asset, cols []column, opts Options) error {
	blocks := make([]string, 0, len(list))
	for _, a := range list {
		lines := make([]string, 0, len(cols)+2)
		for _, c := range cols {
			value := c.value(a)
			if value == "" {
				value = txtFallback[c.key]
			}
			if listColumns[c.key] {
				value = strings.ReplaceAll(value, listSeparator, ", ")
			}
			lines = append(lines, c.header+": "+value)
		}
		if opts.IncludeScores || opts.IncludeRecommendations {
			score := quality.Score(a)
			if opts.IncludeScores {
				lines = append(lines, fmt.Sprintf("Quality Score: %d (%s)", score.Overall, score.Grade))
			}
			if opts.IncludeRecommendations {
				lines = append(lines, "Recommendations: "+strings.Join(score.Recommendations, listSeparator))
			}
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if _, err := io.WriteString(w, strings.Join(blocks, txtSeparator)); err != nil {
		return fmt.Errorf("write text export: %w", err)
	}
	return nil
}
