package align

import (
	"math"
	"testing"

	"github.com/kshedden/prosearch/internal/dp"
	"github.com/kshedden/prosearch/internal/scoring"
	"github.com/kshedden/prosearch/internal/seqalpha"
)

func encAlt(s string) []seqalpha.Letter {
	out := make([]seqalpha.Letter, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = seqalpha.Encode(s[i])
	}
	return out
}

func TestMaskRangeClampsToTargetBounds(t *testing.T) {
	target := encAlt("ACDEFGH")
	maskRange(target, Interval{-5, 3})
	for i := 0; i < 3; i++ {
		if target[i] != SuperHardMask {
			t.Errorf("target[%d] not masked", i)
		}
	}
	maskRange(target, Interval{5, 100})
	for i := 5; i < len(target); i++ {
		if target[i] != SuperHardMask {
			t.Errorf("target[%d] not masked by out-of-range hi", i)
		}
	}
}

func TestFractionMaskedEmptyTargetIsFullyMasked(t *testing.T) {
	if got := fractionMasked(nil); got != 1 {
		t.Errorf("fractionMasked(nil) = %v, want 1", got)
	}
}

func TestFractionMaskedPartial(t *testing.T) {
	target := encAlt("AAAA")
	target[0] = SuperHardMask
	if got := fractionMasked(target); got != 0.25 {
		t.Errorf("fractionMasked = %v, want 0.25", got)
	}
}

func TestOverlapsAnyDetectsOverlap(t *testing.T) {
	existing := []Hsp{{SubjectRange: Interval{10, 20}}}
	if !overlapsAny(existing, Interval{15, 25}) {
		t.Error("expected overlap to be detected")
	}
	if overlapsAny(existing, Interval{20, 30}) {
		t.Error("adjacent, non-overlapping ranges should not be flagged")
	}
}

func TestMaskCoveredMasksAllHspRanges(t *testing.T) {
	target := encAlt("ACDEFGHIKL")
	hsps := []Hsp{{SubjectRange: Interval{0, 2}}, {SubjectRange: Interval{5, 7}}}
	maskCovered(target, hsps)
	if target[0] != SuperHardMask || target[1] != SuperHardMask {
		t.Error("first Hsp range not masked")
	}
	if target[5] != SuperHardMask || target[6] != SuperHardMask {
		t.Error("second Hsp range not masked")
	}
	if target[2] == SuperHardMask || target[8] == SuperHardMask {
		t.Error("region outside Hsp ranges should remain unmasked")
	}
}

func TestAlternativeHspsSkipsEmptyFrames(t *testing.T) {
	query := encAlt("ACDEFGH")
	baseTarget := encAlt("ACDEFGH")
	tgt := &Target{BlockID: 1}
	provider := func(blockID uint32) ([]seqalpha.Letter, []seqalpha.Letter) {
		return baseTarget, nil
	}
	cfg := Config{
		Matrix:      scoring.Blosum62(),
		Gap:         dp.GapParams{Open: 11, Extend: 1},
		MaxHsps:     2,
		MaxEValue:   math.Inf(1),
		SearchSpace: 1e6,
	}
	out := alternativeHsps(query, tgt, provider, cfg)
	if out.totalHspCount() != 0 {
		t.Errorf("alternativeHsps should not invent Hsps for a frame with none to begin with, got %d", out.totalHspCount())
	}
}

func TestAlternativeHspsSkipsFramesAtMaxHsps(t *testing.T) {
	query := encAlt("ACDEFGH")
	baseTarget := encAlt("ACDEFGH")
	tgt := &Target{BlockID: 1}
	tgt.AddHsp(Hsp{Frame: 0, Score: 10, EValue: 1e-3, SubjectRange: Interval{0, 3}})
	provider := func(blockID uint32) ([]seqalpha.Letter, []seqalpha.Letter) {
		return baseTarget, nil
	}
	cfg := Config{
		Matrix:      scoring.Blosum62(),
		Gap:         dp.GapParams{Open: 11, Extend: 1},
		MaxHsps:     1, // already at cap
		MaxEValue:   math.Inf(1),
		SearchSpace: 1e6,
	}
	out := alternativeHsps(query, tgt, provider, cfg)
	if len(out.FramesHsps[0]) != 1 {
		t.Errorf("frame already at MaxHsps should be left untouched, got %d Hsps", len(out.FramesHsps[0]))
	}
}
