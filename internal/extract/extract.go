package extract

import (
	"strings"

	"vidcat/internal/assets"
)

var protocolRules = newTable(
	rule[assets.Protocol]{keywords: []string{"hls"}, value: assets.ProtocolHLS},
	rule[assets.Protocol]{keywords: []string{"dash"}, value: assets.ProtocolDASH},
	rule[assets.Protocol]{keywords: []string{"cmaf"}, value: assets.ProtocolCMAF},
	rule[assets.Protocol]{keywords: []string{"smooth", "mss"}, value: assets.ProtocolSmooth},
)

var codecRules = newTable(
	rule[assets.Codec]{keywords: []string{"h.264", "avc"}, value: assets.CodecAVC},
	rule[assets.Codec]{keywords: []string{"h.265", "hevc"}, value: assets.CodecHEVC},
	rule[assets.Codec]{keywords: []string{"av1"}, value: assets.CodecAV1},
	rule[assets.Codec]{keywords: []string{"vp9"}, value: assets.CodecVP9},
	rule[assets.Codec]{keywords: []string{"mpeg-2", "mpeg2"}, value: assets.CodecMPEG2},
	rule[assets.Codec]{keywords: []string{"vvc", "h.266"}, value: assets.CodecVVC},
)

var hdrRules = newTable(
	rule[assets.HDR]{keywords: []string{"dolby vision", "dovi"}, value: assets.DoVi},
	rule[assets.HDR]{keywords: []string{"hdr10"}, value: assets.HDR10},
	rule[assets.HDR]{keywords: []string{"hlg"}, value: assets.HLG},
	rule[assets.HDR]{keywords: []string{"hdr"}, value: assets.HDRGeneric},
)

var containerRules = newTable(
	rule[assets.Container]{keywords: []string{"mp4"}, value: assets.ContainerMP4},
	rule[assets.Container]{keywords: []string{".ts", "mpeg-ts"}, value: assets.ContainerTS},
	rule[assets.Container]{keywords: []string{".mkv"}, value: assets.ContainerMKV},
	rule[assets.Container]{keywords: []string{".webm"}, value: assets.ContainerWebM},
	rule[assets.Container]{keywords: []string{".mov"}, value: assets.ContainerMOV},
	rule[assets.Container]{keywords: []string{".yuv", "raw"}, value: assets.ContainerYUV},
)

var featureRules = newTable(
	rule[string]{keywords: []string{"8k"}, value: "8K"},
	rule[string]{keywords: []string{"stereo", "3d"}, value: "Stereo"},
	rule[string]{keywords: []string{"multi", "audio"}, requireAll: true, value: "Multi-Audio"},
	rule[string]{keywords: []string{"subtitle", "caption"}, value: "Subtitles"},
	rule[string]{keywords: []string{"drm", "encrypted"}, value: "DRM"},
	rule[string]{keywords: []string{"live"}, value: "Live"},
	rule[string]{keywords: []string{"vr", "360"}, value: "VR/360"},
)

// Fields bundles every derived attribute for one row.
type Fields struct {
	Protocol   []assets.Protocol
	Codec      []assets.Codec
	Resolution *assets.Resolution
	HDR        assets.HDR
	Container  assets.Container
	Features   []string
}

// All runs every extractor over one row.
func All(url, format, notes string) Fields {
	return Fields{
		Protocol:   Protocols(format, notes),
		Codec:      Codecs(format, notes),
		Resolution: Resolution(format, notes),
		HDR:        HDR(format, notes),
		Container:  Container(url, format, notes),
		Features:   Features(format, notes),
	}
}

// Protocols returns every streaming protocol mentioned, or ["file"].
func Protocols(format, notes string) []assets.Protocol {
	found := protocolRules.all(combine(format, notes))
	if len(found) == 0 {
		return []assets.Protocol{assets.ProtocolFile}
	}
	return found
}

// Codecs returns every codec mentioned. The result is never nil.
func Codecs(format, notes string) []assets.Codec {
	return codecRules.all(combine(format, notes))
}

// HDR returns the highest priority dynamic range tag, or sdr.
func HDR(format, notes string) assets.HDR {
	if hdr, ok := hdrRules.first(combine(format, notes)); ok {
		return hdr
	}
	return assets.SDR
}

// Container matches extensions and keywords across the URL and text. The
// empty Container means unknown.
func Container(url, format, notes string) assets.Container {
	container, _ := containerRules.first(combine(url, format, notes))
	return container
}

// Features returns the capability tags found. The result is never nil.
func Features(format, notes string) []string {
	return featureRules.all(combine(format, notes))
}

func combine(parts ...string) string {
	return strings.ToLower(strings.Join(parts, " "))
}
