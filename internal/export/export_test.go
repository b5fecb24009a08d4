package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"vidcat/internal/assets"
	"vidcat/internal/export"
)

func sample() []assets.Asset {
	return []assets.Asset{
		{
			ID: "abc123", Category: "Demo", URL: "https://example.com/a.m3u8", Host: "example.com", Scheme: "https",
			Protocol: []assets.Protocol{assets.ProtocolHLS, assets.ProtocolDASH}, Codec: []assets.Codec{assets.CodecHEVC},
			Resolution: &assets.Resolution{Width: 3840, Height: 2160, Label: "4K"}, HDR: assets.HDR10,
			Container: assets.ContainerMP4, Features: []string{"Live", "DRM", "Subtitles"}, Notes: "a, b; c",
		},
		{
			ID: "def456", Category: "Files", URL: "https://example.com/b.bin", Host: "example.com", Scheme: "https",
			Protocol: []assets.Protocol{assets.ProtocolFile}, Codec: []assets.Codec{}, HDR: assets.SDR, Features: []string{},
		},
	}
}

func TestCSV(t *testing.T) {
	out, err := export.Bytes(sample(), export.Options{Format: export.FormatCSV, IncludeScores: true, IncludeRecommendations: true})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	wantHeader := []string{"ID", "Category", "URL", "Host", "Scheme", "Protocols", "Codecs", "Container",
		"Resolution", "HDR", "Features", "Notes", "Quality Score", "Quality Grade", "Recommendations"}
	if !reflect.DeepEqual(records[0], wantHeader) {
		t.Fatalf("header = %v", records[0])
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	first := records[1]
	if first[5] != "hls; dash" || first[10] != "Live; DRM; Subtitles" || first[11] != "a, b; c" {
		t.Fatalf("unexpected list/notes cells: %v", first)
	}
	if first[8] != "4K" || first[12] != "84" || first[13] != "B+" {
		t.Fatalf("unexpected resolution/score cells: %v", first)
	}
}

func TestFieldSelection(t *testing.T) {
	out, err := export.Bytes(sample(), export.Options{Format: export.FormatCSV, Fields: []string{"url", "id"}})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if lines[0] != "ID,URL" || lines[1] != "abc123,https://example.com/a.m3u8" {
		t.Fatalf("unexpected csv: %q", lines)
	}
	if _, err := export.Bytes(sample(), export.Options{Format: export.FormatCSV, Fields: []string{"size"}}); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestJSON(t *testing.T) {
	out, err := export.Bytes(sample(), export.Options{Format: export.FormatJSON})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	var decoded []assets.Asset
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, sample()) {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}

	out, err = export.Bytes(sample(), export.Options{Format: export.FormatJSON, Fields: []string{"id"}, IncludeScores: true})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(out, &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records[0]) != 2 || records[0]["id"] != "abc123" || records[0]["qualityScore"] == nil {
		t.Fatalf("unexpected record: %v", records[0])
	}
}

func TestXLSX(t *testing.T) {
	out, err := export.Bytes(sample(), export.Options{Format: export.FormatXLSX, IncludeScores: true})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "ID" || rows[1][0] != "abc123" || rows[1][13] != "B+" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestTXT(t *testing.T) {
	out, err := export.Bytes(sample(), export.Options{Format: export.FormatTXT, IncludeScores: true})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	blocks := strings.Split(string(out), "\n\n"+strings.Repeat("=", 50)+"\n\n")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	for _, want := range []string{"Protocols: hls, dash", "Notes: a, b; c", "Quality Score: 84 (B+)"} {
		if !strings.Contains(blocks[0], want) {
			t.Fatalf("first block missing %q:\n%s", want, blocks[0])
		}
	}
	for _, want := range []string{"Codecs: Unknown", "Container: Unknown", "Resolution: Unknown", "Notes: None"} {
		if !strings.Contains(blocks[1], want) {
			t.Fatalf("second block missing %q:\n%s", want, blocks[1])
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	f, err := export.ParseFormat("Excel")
	if err != nil || f != export.FormatXLSX {
		t.Fatalf("ParseFormat(Excel) = %q, %v", f, err)
	}
	if _, err := export.ParseFormat("pdf"); err == nil {
		t.Fatal("expected error for pdf")
	}
	day := time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)
	if got := export.Filename(export.FormatCSV, day); got != "video-assets-2024-05-01.csv" {
		t.Fatalf("Filename = %q", got)
	}
}
