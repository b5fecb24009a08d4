package quality_test

import (
	"reflect"
	"testing"

	"vidcat/internal/assets"
	"vidcat/internal/quality"
)

func strongAsset() assets.Asset {
	return assets.Asset{
		ID:         "strong",
		Protocol:   []assets.Protocol{assets.ProtocolHLS, assets.ProtocolDASH},
		Codec:      []assets.Codec{assets.CodecHEVC},
		Resolution: &assets.Resolution{Width: 3840, Height: 2160, Label: "4K"},
		HDR:        assets.HDR10,
		Container:  assets.ContainerMP4,
		Features:   []string{"Live", "DRM", "Subtitles"},
	}
}

func bareAsset() assets.Asset {
	return assets.Asset{ID: "bare", Protocol: []assets.Protocol{assets.ProtocolFile}, HDR: assets.SDR}
}

func TestScoreBreakdown(t *testing.T) {
	got := quality.Score(strongAsset())
	want := quality.Breakdown{Protocol: 18, Codec: 20, Resolution: 18, HDR: 12, Container: 10, Features: 6}
	if got.Breakdown != want {
		t.Fatalf("breakdown = %+v, want %+v", got.Breakdown, want)
	}
	if got.Overall != 84 || got.Grade != quality.GradeBPlus {
		t.Fatalf("overall/grade = %d %s", got.Overall, got.Grade)
	}
	if !reflect.DeepEqual(got.Recommendations, []string{quality.RecommendNone}) {
		t.Fatalf("unexpected recommendations: %v", got.Recommendations)
	}
}

func TestScoreDefaultsEarnLittle(t *testing.T) {
	got := quality.Score(bareAsset())
	if got.Overall != 13 || got.Grade != quality.GradeF {
		t.Fatalf("overall/grade = %d %s", got.Overall, got.Grade)
	}
	want := []string{
		quality.RecommendProtocol,
		quality.RecommendCodec,
		quality.RecommendResolution,
		quality.RecommendHDR,
		quality.RecommendFeatures,
	}
	if !reflect.DeepEqual(got.Recommendations, want) {
		t.Fatalf("unexpected recommendations: %v", got.Recommendations)
	}
}

func TestScoreMaximum(t *testing.T) {
	a := assets.Asset{
		Protocol:   []assets.Protocol{assets.ProtocolCMAF},
		Codec:      []assets.Codec{assets.CodecAV1, assets.CodecAVC},
		Resolution: &assets.Resolution{Width: 7680, Height: 4320, Label: "8K"},
		HDR:        assets.DoVi,
		Container:  assets.ContainerMP4,
		Features:   []string{"8K", "Live", "DRM", "VR/360", "Stereo", "Subtitles"},
	}
	got := quality.Score(a)
	if got.Overall != 100 || got.Grade != quality.GradeAPlus {
		t.Fatalf("overall/grade = %d %s", got.Overall, got.Grade)
	}
	if got.Breakdown.Features != quality.MaxFeatures {
		t.Fatalf("features should cap at %d, got %d", quality.MaxFeatures, got.Breakdown.Features)
	}
}

func TestGradeLadder(t *testing.T) {
	tests := map[int]quality.Grade{
		100: quality.GradeAPlus, 90: quality.GradeAPlus, 89: quality.GradeA, 85: quality.GradeA,
		84: quality.GradeBPlus, 70: quality.GradeB, 60: quality.GradeCPlus, 50: quality.GradeC,
		40: quality.GradeD, 39: quality.GradeF, 0: quality.GradeF,
	}
	for score, want := range tests {
		if got := quality.GradeFor(score); got != want {
			t.Fatalf("GradeFor(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestResolutionBuckets(t *testing.T) {
	tests := map[int]int{7680: 20, 4096: 18, 2560: 15, 1920: 12, 1280: 8, 640: 5, 320: 3}
	for width, want := range tests {
		a := bareAsset()
		a.Resolution = &assets.Resolution{Width: width, Height: 1}
		if got := quality.Score(a).Breakdown.Resolution; got != want {
			t.Fatalf("width %d scored %d, want %d", width, got, want)
		}
	}
}

func TestRecommendIsStableTopN(t *testing.T) {
	first := bareAsset()
	first.ID = "first"
	second := bareAsset()
	second.ID = "second"
	list := []assets.Asset{first, strongAsset(), second}

	got := quality.Recommend(list, 2)
	if len(got) != 2 || got[0].Asset.ID != "strong" || got[1].Asset.ID != "first" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if all := quality.Recommend(list, 0); len(all) != 3 {
		t.Fatalf("default limit should cover short lists, got %d", len(all))
	}
}

func TestDistribute(t *testing.T) {
	d := quality.Distribute([]assets.Asset{strongAsset(), bareAsset(), bareAsset()})
	if len(d) != len(quality.Grades) {
		t.Fatalf("expected every grade present, got %v", d)
	}
	if d[quality.GradeBPlus] != 1 || d[quality.GradeF] != 2 || d[quality.GradeA] != 0 {
		t.Fatalf("unexpected distribution: %v", d)
	}
}
