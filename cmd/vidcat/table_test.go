package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"Facet", "Value", "Assets"},
		[][]string{{"protocol", "hls", "12"}, {"codec"}, {"hdr", "HDR10", "3", "extra"}},
		[]columnAlignment{alignLeft, alignLeft, alignRight})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected header, three rows and borders, got %d lines:\n%s", len(lines), out)
	}
	if strings.Contains(out, "extra") {
		t.Fatalf("cells beyond the header width should be dropped:\n%s", out)
	}
	if !strings.Contains(out, "│ codec    │       │        │") {
		t.Fatalf("short row should be padded with empty cells:\n%s", out)
	}
	if renderTable(nil, [][]string{{"x"}}, nil) != "" {
		t.Fatal("no headers should render nothing")
	}
}

func TestWriteJSONKeepsURLsLiteral(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	if err := writeJSON(cmd, map[string]string{"url": "https://cdn.example.org/play?a=1&b=2"}); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	if !strings.Contains(buf.String(), "a=1&b=2") {
		t.Fatalf("expected unescaped ampersand, got %s", buf.String())
	}
}
