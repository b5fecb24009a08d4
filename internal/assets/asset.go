package assets

import (
	"bytes"
	"encoding/json"
)

// Protocol is a streaming protocol tag.
type Protocol string

const (
	ProtocolHLS    Protocol = "hls"
	ProtocolDASH   Protocol = "dash"
	ProtocolCMAF   Protocol = "cmaf"
	ProtocolSmooth Protocol = "smooth"
	ProtocolFile   Protocol = "file"
	ProtocolOther  Protocol = "other"
)

// Codec is a video codec tag.
type Codec string

const (
	CodecAVC   Codec = "avc"
	CodecHEVC  Codec = "hevc"
	CodecAV1   Codec = "av1"
	CodecVP9   Codec = "vp9"
	CodecMPEG2 Codec = "mpeg2"
	CodecVVC   Codec = "vvc"
	CodecOther Codec = "other"
)

// HDR is the dynamic range tag. Every asset carries exactly one.
type HDR string

const (
	HDR10      HDR = "hdr10"
	HLG        HDR = "hlg"
	DoVi       HDR = "dovi"
	HDRGeneric HDR = "hdr"
	SDR        HDR = "sdr"
)

// Container is the media container tag. The zero value means unknown and is
// encoded as JSON null.
type Container string

const (
	ContainerMP4  Container = "mp4"
	ContainerTS   Container = "ts"
	ContainerMKV  Container = "mkv"
	ContainerWebM Container = "webm"
	ContainerMOV  Container = "mov"
	ContainerYUV  Container = "yuv"
)

// MarshalJSON encodes an unknown container as null.
func (c Container) MarshalJSON() ([]byte, error) {
	if c == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(c))
}

// UnmarshalJSON accepts null or a string.
func (c *Container) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = Container(s)
	return nil
}

// Resolution is a width/height pair with its canonical bucket label.
type Resolution struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Label  string `json:"label"`
}

// Asset is one catalog entry.
type Asset struct {
	ID         string      `json:"id"`
	URL        string      `json:"url"`
	Host       string      `json:"host"`
	Scheme     string      `json:"scheme"`
	Category   string      `json:"category"`
	Protocol   []Protocol  `json:"protocol"`
	Codec      []Codec     `json:"codec"`
	Resolution *Resolution `json:"resolution"`
	HDR        HDR         `json:"hdr"`
	Container  Container   `json:"container"`
	Features   []string    `json:"features"`
	Notes      string      `json:"notes"`
}

// ResolutionLabel returns the resolution bucket or "" when unknown.
func (a Asset) ResolutionLabel() string {
	if a.Resolution == nil {
		return ""
	}
	return a.Resolution.Label
}

// FacetValues returns the asset's values for a facet. Single-valued facets
// yield at most one element; unknown values yield none.
func (a Asset) FacetValues(f Facet) []string {
	switch f {
	case FacetProtocol:
		out := make([]string, 0, len(a.Protocol))
		for _, p := range a.Protocol {
			out = append(out, string(p))
		}
		return out
	case FacetCodec:
		out := make([]string, 0, len(a.Codec))
		for _, c := range a.Codec {
			out = append(out, string(c))
		}
		return out
	case FacetResolution:
		return nonEmpty(a.ResolutionLabel())
	case FacetHDR:
		return nonEmpty(string(a.HDR))
	case FacetContainer:
		return nonEmpty(string(a.Container))
	case FacetHost:
		return nonEmpty(a.Host)
	case FacetScheme:
		return nonEmpty(a.Scheme)
	default:
		return nil
	}
}

// Fields flattens every searchable value of the asset: category, protocols,
// codecs, host, hdr, container, resolution label, features, and notes. Empty
// values are omitted.
func (a Asset) Fields() []string {
	out := make([]string, 0, 8+len(a.Protocol)+len(a.Codec)+len(a.Features))
	out = append(out, nonEmpty(a.Category)...)
	for _, p := range a.Protocol {
		out = append(out, string(p))
	}
	for _, c := range a.Codec {
		out = append(out, string(c))
	}
	out = append(out, nonEmpty(a.Host)...)
	out = append(out, nonEmpty(string(a.HDR))...)
	out = append(out, nonEmpty(string(a.Container))...)
	out = append(out, nonEmpty(a.ResolutionLabel())...)
	out = append(out, a.Features...)
	out = append(out, nonEmpty(a.Notes)...)
	return out
}

func nonEmpty(value string) []string {
	if value == "" {
		return nil
	}
	return []string{value}
}
