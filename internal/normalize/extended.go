package normalize

import (
	"slices"
	"strconv"
	"strings"

	"vidcat/internal/assets"
	"vidcat/internal/extract"
)

// ListSeparator separates values inside list columns of the extended layout.
const ListSeparator = "|"

// Extended column names, lowercased.
const (
	ColID               = "id"
	ColURL              = "url"
	ColHost             = "host"
	ColScheme           = "scheme"
	ColCategory         = "category"
	ColProtocol         = "protocol"
	ColContainer        = "container"
	ColCodec            = "codec"
	ColResolutionWidth  = "resolution.width"
	ColResolutionHeight = "resolution.height"
	ColResolutionLabel  = "resolution.label"
	ColHDR              = "hdr"
	ColFeatures         = "features"
	ColNotes            = "notes"
)

// ExtendedColumns lists the pre-normalized layout in its canonical order.
var ExtendedColumns = []string{
	ColID, ColURL, ColHost, ColScheme, ColCategory, ColProtocol, ColContainer, ColCodec,
	ColResolutionWidth, ColResolutionHeight, ColResolutionLabel, ColHDR, ColFeatures, ColNotes,
}

// IsExtended reports whether a lowercased header names the pre-normalized
// layout.
func IsExtended(header []string) bool {
	return slices.Contains(header, ColResolutionWidth)
}

// Header indexes the columns of an extended layout by name.
type Header map[string]int

// NewHeader builds a column index from lowercased header names.
func NewHeader(names []string) Header {
	h := make(Header, len(names))
	for i, name := range names {
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	return h
}

func (h Header) value(values []string, column string) string {
	idx, ok := h[column]
	if !ok || idx >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[idx])
}

// ExtendedAsset converts a pre-normalized row into an asset. Identity is
// recomputed from the normalized URL; a supplied id column is ignored. Values
// outside the known vocabularies are coerced to "other" (protocol, codec), sdr
// (hdr), or unknown (container).
func ExtendedAsset(h Header, values []string) (assets.Asset, error) {
	if len(values) < MinColumns {
		return assets.Asset{}, &SkipError{Reason: ReasonTooFewColumns, Columns: len(values)}
	}
	raw := h.value(values, ColURL)
	if raw == "" {
		return assets.Asset{}, &SkipError{Reason: ReasonEmptyURL}
	}
	normalized := URL(raw)
	host, scheme := HostScheme(normalized)
	if v := h.value(values, ColHost); v != "" {
		host = strings.ToLower(v)
	}
	if v := h.value(values, ColScheme); v != "" {
		scheme = strings.ToLower(v)
	}

	protocols := []assets.Protocol{}
	for _, v := range SplitList(h.value(values, ColProtocol)) {
		p := protocolOf(v)
		if !slices.Contains(protocols, p) {
			protocols = append(protocols, p)
		}
	}
	if len(protocols) == 0 {
		protocols = []assets.Protocol{assets.ProtocolFile}
	}

	codecs := []assets.Codec{}
	for _, v := range SplitList(h.value(values, ColCodec)) {
		c := codecOf(v)
		if !slices.Contains(codecs, c) {
			codecs = append(codecs, c)
		}
	}

	return assets.Asset{
		ID:         ID(normalized),
		URL:        normalized,
		Host:       host,
		Scheme:     scheme,
		Category:   Category(h.value(values, ColCategory)),
		Protocol:   protocols,
		Codec:      codecs,
		Resolution: resolutionOf(h, values),
		HDR:        hdrOf(h.value(values, ColHDR)),
		Container:  containerOf(h.value(values, ColContainer)),
		Features:   SplitList(h.value(values, ColFeatures)),
		Notes:      h.value(values, ColNotes),
	}, nil
}

// SplitList splits a list column on ListSeparator, dropping blank entries.
// The result is never nil.
func SplitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ListSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func protocolOf(v string) assets.Protocol {
	p := assets.Protocol(strings.ToLower(v))
	switch p {
	case assets.ProtocolHLS, assets.ProtocolDASH, assets.ProtocolCMAF, assets.ProtocolSmooth, assets.ProtocolFile:
		return p
	default:
		return assets.ProtocolOther
	}
}

func codecOf(v string) assets.Codec {
	c := assets.Codec(strings.ToLower(v))
	switch c {
	case assets.CodecAVC, assets.CodecHEVC, assets.CodecAV1, assets.CodecVP9, assets.CodecMPEG2, assets.CodecVVC:
		return c
	default:
		return assets.CodecOther
	}
}

func hdrOf(v string) assets.HDR {
	h := assets.HDR(strings.ToLower(v))
	switch h {
	case assets.HDR10, assets.HLG, assets.DoVi, assets.HDRGeneric:
		return h
	default:
		return assets.SDR
	}
}

func containerOf(v string) assets.Container {
	c := assets.Container(strings.ToLower(v))
	switch c {
	case assets.ContainerMP4, assets.ContainerTS, assets.ContainerMKV, assets.ContainerWebM, assets.ContainerMOV, assets.ContainerYUV:
		return c
	default:
		return ""
	}
}

func resolutionOf(h Header, values []string) *assets.Resolution {
	width, errW := strconv.Atoi(h.value(values, ColResolutionWidth))
	height, errH := strconv.Atoi(h.value(values, ColResolutionHeight))
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return nil
	}
	label := h.value(values, ColResolutionLabel)
	if label == "" {
		label = extract.LabelForSize(width, height)
	}
	return &assets.Resolution{Width: width, Height: height, Label: label}
}
