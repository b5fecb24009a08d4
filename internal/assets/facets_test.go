package assets_test

import (
	"encoding/json"
	"strings"
	"testing"

	"vidcat/internal/assets"
)

func TestFacetCountsJSONPreservesOrder(t *testing.T) {
	counts := assets.FacetCounts{
		assets.FacetProtocol: {{Value: "hls", Count: 3}, {Value: "dash", Count: 2}, {Value: "cmaf", Count: 1}},
		assets.FacetScheme:   {{Value: "https", Count: 4}},
	}
	data, err := json.Marshal(counts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, `{"protocol":{"hls":3,"dash":2,"cmaf":1},"codec":{}`) {
		t.Fatalf("unexpected encoding: %s", text)
	}
	if !strings.HasSuffix(text, `"scheme":{"https":4}}`) {
		t.Fatalf("unexpected scheme encoding: %s", text)
	}

	var decoded assets.FacetCounts
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := decoded[assets.FacetProtocol]
	if len(got) != 3 || got[0].Value != "hls" || got[2].Value != "cmaf" {
		t.Fatalf("order not preserved: %+v", got)
	}
	if decoded.Count(assets.FacetScheme, "https") != 4 {
		t.Fatalf("expected https count 4, got %d", decoded.Count(assets.FacetScheme, "https"))
	}
	if decoded.Total(assets.FacetProtocol) != 6 {
		t.Fatalf("expected protocol total 6, got %d", decoded.Total(assets.FacetProtocol))
	}
}

func TestAssetContainerEncodesNull(t *testing.T) {
	asset := assets.Asset{ID: "a", Protocol: []assets.Protocol{}, Codec: []assets.Codec{}, Features: []string{}}
	data, err := json.Marshal(asset)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"container":null`) {
		t.Fatalf("expected null container, got %s", data)
	}
	if !strings.Contains(string(data), `"resolution":null`) {
		t.Fatalf("expected null resolution, got %s", data)
	}

	var decoded assets.Asset
	if err := json.Unmarshal([]byte(`{"container":"mkv"}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Container != assets.ContainerMKV {
		t.Fatalf("expected mkv, got %q", decoded.Container)
	}
}

func TestFacetValuesAndFields(t *testing.T) {
	asset := assets.Asset{
		Category:   "Live",
		Host:       "example.com",
		Scheme:     "https",
		Protocol:   []assets.Protocol{assets.ProtocolHLS, assets.ProtocolDASH},
		Codec:      []assets.Codec{assets.CodecHEVC},
		Resolution: &assets.Resolution{Width: 3840, Height: 2160, Label: "4K"},
		HDR:        assets.HDR10,
		Features:   []string{"Live"},
		Notes:      "note",
	}
	if got := asset.FacetValues(assets.FacetProtocol); len(got) != 2 || got[1] != "dash" {
		t.Fatalf("unexpected protocol values: %v", got)
	}
	if got := asset.FacetValues(assets.FacetContainer); len(got) != 0 {
		t.Fatalf("expected no container values, got %v", got)
	}
	fields := asset.Fields()
	want := []string{"Live", "hls", "dash", "hevc", "example.com", "hdr10", "4K", "Live", "note"}
	if strings.Join(fields, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected fields: %v", fields)
	}
}
