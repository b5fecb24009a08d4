package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SampleCSV is a small simple-layout catalog: four rows, one blank URL, and
// one duplicate of the first URL.
var SampleCSV = strings.Join([]string{
	"url,category,format,notes",
	"https://example.com/live/master.m3u8,Live,HLS H.264 1080p,Live event with subtitles",
	"https://cdn.example.org/vod/manifest.mpd,VOD,DASH HEVC 2160p HDR10,DRM protected",
	"example.net/files/clip.mp4,,MP4 AV1 720p,",
	",Broken,HLS,missing url",
	"https://example.com/live/master.m3u8,Live,HLS,duplicate row",
}, "\n") + "\n"

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteSampleCSV writes SampleCSV to the configured source path and returns it.
func WriteSampleCSV(t testing.TB, path string) string {
	t.Helper()
	WriteFile(t, path, SampleCSV)
	return path
}
