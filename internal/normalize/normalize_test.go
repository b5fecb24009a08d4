package normalize_test

import (
	"errors"
	"reflect"
	"testing"

	"vidcat/internal/assets"
	"vidcat/internal/csvline"
	"vidcat/internal/normalize"
)

func TestAssetFromSimpleRow(t *testing.T) {
	row, err := normalize.RowFromValues(csvline.Split("https://example.com/video.m3u8,Test,HLS H.264 1080p,"))
	if err != nil {
		t.Fatalf("RowFromValues: %v", err)
	}
	asset, err := normalize.Asset(row)
	if err != nil {
		t.Fatalf("Asset: %v", err)
	}
	if !reflect.DeepEqual(asset.Protocol, []assets.Protocol{assets.ProtocolHLS}) {
		t.Fatalf("unexpected protocol: %v", asset.Protocol)
	}
	if !reflect.DeepEqual(asset.Codec, []assets.Codec{assets.CodecAVC}) {
		t.Fatalf("unexpected codec: %v", asset.Codec)
	}
	want := &assets.Resolution{Width: 1920, Height: 1080, Label: "1080p"}
	if !reflect.DeepEqual(asset.Resolution, want) {
		t.Fatalf("unexpected resolution: %+v", asset.Resolution)
	}
	if asset.HDR != assets.SDR {
		t.Fatalf("expected sdr, got %q", asset.HDR)
	}
	if asset.Host != "example.com" || asset.Scheme != "https" {
		t.Fatalf("unexpected host/scheme: %q %q", asset.Host, asset.Scheme)
	}
	if asset.Category != "Test" || asset.Notes != "" {
		t.Fatalf("unexpected category/notes: %q %q", asset.Category, asset.Notes)
	}
	if len(asset.ID) != normalize.IDLength {
		t.Fatalf("unexpected id length: %q", asset.ID)
	}
}

func TestAssetNormalizesURLAndDefaults(t *testing.T) {
	row, err := normalize.RowFromValues(csvline.Split(`example.com/v.mp4,,,"Live DRM encrypted"`))
	if err != nil {
		t.Fatalf("RowFromValues: %v", err)
	}
	asset, err := normalize.Asset(row)
	if err != nil {
		t.Fatalf("Asset: %v", err)
	}
	if asset.URL != "https://example.com/v.mp4" {
		t.Fatalf("unexpected url: %q", asset.URL)
	}
	if asset.Category != normalize.DefaultCategory {
		t.Fatalf("unexpected category: %q", asset.Category)
	}
	if !reflect.DeepEqual(asset.Protocol, []assets.Protocol{assets.ProtocolFile}) {
		t.Fatalf("unexpected protocol: %v", asset.Protocol)
	}
	if !containsAll(asset.Features, "Live", "DRM") {
		t.Fatalf("expected Live and DRM features, got %v", asset.Features)
	}
	if asset.Container != assets.ContainerMP4 {
		t.Fatalf("expected mp4 container, got %q", asset.Container)
	}
	if asset.ID != normalize.ID("https://example.com/v.mp4") {
		t.Fatalf("id not derived from normalized url")
	}
}

func TestSkipRows(t *testing.T) {
	_, err := normalize.RowFromValues([]string{"a", "b", "c"})
	var skip *normalize.SkipError
	if !errors.As(err, &skip) || skip.Reason != normalize.ReasonTooFewColumns || skip.Columns != 3 {
		t.Fatalf("expected too-few-columns skip, got %v", err)
	}

	_, err = normalize.Asset(normalize.Row{URL: "   ", Category: "x"})
	if !errors.Is(err, normalize.ErrSkipRow) {
		t.Fatalf("expected ErrSkipRow, got %v", err)
	}
}

func TestHostSchemeFallback(t *testing.T) {
	host, scheme := normalize.HostScheme("https://")
	if host != normalize.Unknown || scheme != normalize.Unknown {
		t.Fatalf("expected unknown/unknown, got %q %q", host, scheme)
	}
	host, scheme = normalize.HostScheme("https://bad host%zz/x")
	if host != normalize.Unknown || scheme != normalize.Unknown {
		t.Fatalf("expected unknown/unknown for invalid url, got %q %q", host, scheme)
	}
	host, scheme = normalize.HostScheme("http://Media.Example.com:8080/a")
	if host != "media.example.com" || scheme != "http" {
		t.Fatalf("unexpected host/scheme: %q %q", host, scheme)
	}
}

func TestIDIsStable(t *testing.T) {
	a := normalize.ID("https://example.com/a.mp4")
	b := normalize.ID("https://example.com/a.mp4")
	c := normalize.ID("https://example.com/b.mp4")
	if a != b {
		t.Fatalf("same url produced different ids: %q %q", a, b)
	}
	if a == c {
		t.Fatalf("different urls produced the same id %q", a)
	}
}

func TestExtendedAsset(t *testing.T) {
	header := normalize.NewHeader(normalize.ExtendedColumns)
	values := []string{
		"ignored", "media.example.com/master.m3u8", "", "", "Demo", "hls|dash|weird",
		"mp4", "hevc|av1", "3840", "2160", "", "hdr10", "Live|DRM|", "notes here",
	}
	asset, err := normalize.ExtendedAsset(header, values)
	if err != nil {
		t.Fatalf("ExtendedAsset: %v", err)
	}
	if asset.ID != normalize.ID("https://media.example.com/master.m3u8") {
		t.Fatalf("expected recomputed id, got %q", asset.ID)
	}
	if asset.Host != "media.example.com" || asset.Scheme != "https" {
		t.Fatalf("unexpected host/scheme: %q %q", asset.Host, asset.Scheme)
	}
	wantProtocols := []assets.Protocol{assets.ProtocolHLS, assets.ProtocolDASH, assets.ProtocolOther}
	if !reflect.DeepEqual(asset.Protocol, wantProtocols) {
		t.Fatalf("unexpected protocols: %v", asset.Protocol)
	}
	if !reflect.DeepEqual(asset.Codec, []assets.Codec{assets.CodecHEVC, assets.CodecAV1}) {
		t.Fatalf("unexpected codecs: %v", asset.Codec)
	}
	if asset.Resolution == nil || asset.Resolution.Label != "4K" {
		t.Fatalf("unexpected resolution: %+v", asset.Resolution)
	}
	if !reflect.DeepEqual(asset.Features, []string{"Live", "DRM"}) {
		t.Fatalf("unexpected features: %v", asset.Features)
	}
	if asset.HDR != assets.HDR10 || asset.Container != assets.ContainerMP4 {
		t.Fatalf("unexpected hdr/container: %q %q", asset.HDR, asset.Container)
	}
}

func TestExtendedAssetDefaults(t *testing.T) {
	header := normalize.NewHeader(normalize.ExtendedColumns)
	values := []string{"", "https://x.test/a", "", "", "", "", "flv", "", "", "", "", "", "", ""}
	asset, err := normalize.ExtendedAsset(header, values)
	if err != nil {
		t.Fatalf("ExtendedAsset: %v", err)
	}
	if !reflect.DeepEqual(asset.Protocol, []assets.Protocol{assets.ProtocolFile}) {
		t.Fatalf("expected file protocol default, got %v", asset.Protocol)
	}
	if asset.HDR != assets.SDR || asset.Container != "" || asset.Resolution != nil {
		t.Fatalf("unexpected defaults: %+v", asset)
	}
	if asset.Category != normalize.DefaultCategory {
		t.Fatalf("unexpected category: %q", asset.Category)
	}
	if !normalize.IsExtended(normalize.ExtendedColumns) || normalize.IsExtended([]string{"url", "category"}) {
		t.Fatal("IsExtended misclassified headers")
	}
}

func containsAll(values []string, want ...string) bool {
	for _, w := range want {
		found := false
		for _, v := range values {
			if v == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
