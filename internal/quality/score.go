package quality

import (
	"slices"

	"vidcat/internal/assets"
)

// Maximum points per dimension.
const (
	MaxProtocol   = 20
	MaxCodec      = 25
	MaxResolution = 20
	MaxHDR        = 15
	MaxContainer  = 10
	MaxFeatures   = 10
)

const pointsPerFeature = 2

var protocolPoints = map[assets.Protocol]int{
	assets.ProtocolCMAF:   20,
	assets.ProtocolDASH:   18,
	assets.ProtocolHLS:    16,
	assets.ProtocolSmooth: 12,
	assets.ProtocolFile:   8,
	assets.ProtocolOther:  5,
}

var codecPoints = map[assets.Codec]int{
	assets.CodecAV1:   25,
	assets.CodecVVC:   24,
	assets.CodecHEVC:  20,
	assets.CodecVP9:   18,
	assets.CodecAVC:   15,
	assets.CodecMPEG2: 8,
	assets.CodecOther: 5,
}

var hdrPoints = map[assets.HDR]int{
	assets.DoVi:       15,
	assets.HDR10:      12,
	assets.HLG:        10,
	assets.HDRGeneric: 8,
	assets.SDR:        5,
}

var containerPoints = map[assets.Container]int{
	assets.ContainerMP4:  10,
	assets.ContainerMKV:  9,
	assets.ContainerWebM: 8,
	assets.ContainerMOV:  7,
	assets.ContainerTS:   6,
	assets.ContainerYUV:  4,
}

// resolutionPoints is ordered by descending minimum width.
var resolutionPoints = []struct {
	minWidth int
	points   int
}{
	{7680, 20},
	{3840, 18},
	{2560, 15},
	{1920, 12},
	{1280, 8},
	{640, 5},
	{0, 3},
}

// Breakdown holds the points earned per dimension.
type Breakdown struct {
	Protocol   int `json:"protocol"`
	Codec      int `json:"codec"`
	Resolution int `json:"resolution"`
	HDR        int `json:"hdr"`
	Container  int `json:"container"`
	Features   int `json:"features"`
}

// Total sums the breakdown.
func (b Breakdown) Total() int {
	return b.Protocol + b.Codec + b.Resolution + b.HDR + b.Container + b.Features
}

// Result is the score of one asset.
type Result struct {
	Overall         int       `json:"overall"`
	Breakdown       Breakdown `json:"breakdown"`
	Grade           Grade     `json:"grade"`
	Recommendations []string  `json:"recommendations"`
}

// Score computes the quality score of a. The best protocol and codec count;
// an asset without codecs, resolution, or container earns nothing for them.
func Score(a assets.Asset) Result {
	b := Breakdown{
		Protocol:   best(a.Protocol, protocolPoints),
		Codec:      best(a.Codec, codecPoints),
		Resolution: resolutionScore(a.Resolution),
		HDR:        hdrPoints[a.HDR],
		Container:  containerPoints[a.Container],
		Features:   min(len(a.Features)*pointsPerFeature, MaxFeatures),
	}
	overall := b.Total()
	return Result{
		Overall:         overall,
		Breakdown:       b,
		Grade:           GradeFor(overall),
		Recommendations: recommend(b, len(a.Features)),
	}
}

func best[K comparable](values []K, table map[K]int) int {
	top := 0
	for _, v := range values {
		top = max(top, table[v])
	}
	return top
}

func resolutionScore(r *assets.Resolution) int {
	if r == nil {
		return 0
	}
	for _, bucket := range resolutionPoints {
		if r.Width >= bucket.minWidth {
			return bucket.points
		}
	}
	return 0
}

// Recommendation texts.
const (
	RecommendProtocol   = "Consider using DASH or HLS for better streaming compatibility"
	RecommendCodec      = "Upgrade to HEVC or AV1 for better compression efficiency"
	RecommendResolution = "Higher resolution content provides better viewing experience"
	RecommendHDR        = "HDR content offers enhanced visual quality"
	RecommendFeatures   = "Additional features like adaptive bitrate improve user experience"
	RecommendNone       = "Excellent quality asset with modern standards"
)

func recommend(b Breakdown, features int) []string {
	var out []string
	if b.Protocol < 15 {
		out = append(out, RecommendProtocol)
	}
	if b.Codec < 20 {
		out = append(out, RecommendCodec)
	}
	if b.Resolution < 12 {
		out = append(out, RecommendResolution)
	}
	if b.HDR < 10 {
		out = append(out, RecommendHDR)
	}
	if features < 3 {
		out = append(out, RecommendFeatures)
	}
	if len(out) == 0 {
		out = append(out, RecommendNone)
	}
	return out
}

// Scored pairs an asset with its score.
type Scored struct {
	Asset assets.Asset `json:"asset"`
	Score Result       `json:"qualityScore"`
}

// ScoreAll scores every asset, preserving order.
func ScoreAll(list []assets.Asset) []Scored {
	out := make([]Scored, 0, len(list))
	for _, a := range list {
		out = append(out, Scored{Asset: a, Score: Score(a)})
	}
	return out
}

// DefaultRecommendLimit is the number of assets Recommend returns when limit
// is not positive.
const DefaultRecommendLimit = 5

// Recommend returns the highest scoring assets, best first. Equal scores keep
// catalog order.
func Recommend(list []assets.Asset, limit int) []Scored {
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}
	scored := ScoreAll(list)
	slices.SortStableFunc(scored, func(a, b Scored) int {
		return b.Score.Overall - a.Score.Overall
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
