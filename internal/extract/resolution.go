package extract

import (
	"fmt"
	"regexp"
	"strconv"

	"vidcat/internal/assets"
)

type namedResolution struct {
	pattern *regexp.Regexp
	width   int
	height  int
	label   string
}

// Named patterns are tried in order; the first match wins. Progressive
// heights need word boundaries, the abbreviations match anywhere, so "4Kp60"
// reads as 4K and "HDR10" as HD.
var namedResolutions = []namedResolution{
	{regexp.MustCompile(`(?i)\b4320p\b`), 7680, 4320, "8K"},
	{regexp.MustCompile(`(?i)\b2160p\b|4k|uhd`), 3840, 2160, "4K"},
	{regexp.MustCompile(`(?i)\b1440p\b`), 2560, 1440, "1440p"},
	{regexp.MustCompile(`(?i)\b1080p\b|fhd`), 1920, 1080, "1080p"},
	{regexp.MustCompile(`(?i)\b720p\b|hd`), 1280, 720, "720p"},
	{regexp.MustCompile(`(?i)\b480p\b`), 854, 480, "480p"},
	{regexp.MustCompile(`(?i)\b360p\b`), 640, 360, "360p"},
	{regexp.MustCompile(`(?i)\b240p\b`), 426, 240, "240p"},
}

var dimensionPattern = regexp.MustCompile(`\b(\d{3,4})[×x](\d{3,4})\b`)

var heightLabels = []struct {
	min   int
	label string
}{
	{2160, "4K"},
	{1440, "1440p"},
	{1080, "1080p"},
	{720, "720p"},
	{480, "480p"},
	{360, "360p"},
	{240, "240p"},
}

// Resolution returns the first named resolution found, then falls back to a
// literal WIDTHxHEIGHT pair. It returns nil when neither is present.
func Resolution(format, notes string) *assets.Resolution {
	text := format + " " + notes
	for _, named := range namedResolutions {
		if named.pattern.MatchString(text) {
			return &assets.Resolution{Width: named.width, Height: named.height, Label: named.label}
		}
	}
	m := dimensionPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	width, errW := strconv.Atoi(m[1])
	height, errH := strconv.Atoi(m[2])
	if errW != nil || errH != nil {
		return nil
	}
	return &assets.Resolution{Width: width, Height: height, Label: LabelForSize(width, height)}
}

// LabelForSize buckets a frame size by height. Heights under 240 keep the
// literal WIDTHxHEIGHT form.
func LabelForSize(width, height int) string {
	for _, bucket := range heightLabels {
		if height >= bucket.min {
			return bucket.label
		}
	}
	return fmt.Sprintf("%dx%d", width, height)
}
