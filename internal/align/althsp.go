package align

import (
	"github.com/kshedden/prosearch/internal/dp"
	"github.com/kshedden/prosearch/internal/seqalpha"
)

// SuperHardMask is the sentinel letter alt-HSP masking writes over already-
// covered target regions, matching spec §4.5 step 8's SUPER_HARD_MASK.
const SuperHardMask = seqalpha.MASKED

// IsFullyMaskedThreshold is the fraction of a target's length that, once
// masked, excludes it from further alt-HSP rescan (spec §8 boundary
// behaviour "Target masked below is_fully_masked threshold -> excluded
// from alt-HSP rescan").
const IsFullyMaskedThreshold = 0.9

// alternativeHsps repeatedly masks the region already covered by existing
// Hsps, reruns full-matrix DP (dp.FullMatrix) per frame on a per-query scratch copy of the
// target (spec §5 "Alt-HSP masking clones the relevant subrange into a
// per-query scratch SequenceSet so the shared buffer is never mutated"),
// and splices any new Hsp whose evalue <= MaxEValue onto the Target. It
// iterates until no new Hsp is found, every frame is fully masked, or
// MaxHsps is reached (spec §4.5 step 8).
func alternativeHsps(query []seqalpha.Letter, t *Target, provider TargetProvider, cfg Config) *Target {
	if cfg.MaxHsps <= 0 {
		cfg.MaxHsps = 1
	}
	baseTarget, _ := provider(t.BlockID)
	scoreFn := func(a, b seqalpha.Letter) int32 { return cfg.Matrix.Score(a, b) }

	for frame := 0; frame < numFrames; frame++ {
		if len(t.FramesHsps[frame]) == 0 || len(t.FramesHsps[frame]) >= cfg.MaxHsps {
			continue
		}
		scratch := make([]seqalpha.Letter, len(baseTarget))
		copy(scratch, baseTarget)
		maskCovered(scratch, t.FramesHsps[frame])

		for len(t.FramesHsps[frame]) < cfg.MaxHsps {
			if fractionMasked(scratch) >= IsFullyMaskedThreshold {
				break
			}
			res := dp.FullMatrix(query, scratch, scoreFn, cfg.Gap, false)
			if res.Score <= 0 {
				break
			}
			h := FromDPResult(res, uint8(frame), cfg.Matrix, cfg.SearchSpace, true)
			if h.EValue > cfg.MaxEValue {
				break
			}
			if overlapsAny(t.FramesHsps[frame], h.SubjectRange) {
				break
			}
			t.AddHsp(h)
			maskRange(scratch, h.SubjectRange)
		}
	}
	return t
}

func maskCovered(target []seqalpha.Letter, hsps []Hsp) {
	for _, h := range hsps {
		maskRange(target, h.SubjectRange)
	}
}

func maskRange(target []seqalpha.Letter, r Interval) {
	lo, hi := r.Begin, r.End
	if lo < 0 {
		lo = 0
	}
	if int(hi) > len(target) {
		hi = int32(len(target))
	}
	for i := lo; i < hi; i++ {
		target[i] = SuperHardMask
	}
}

func fractionMasked(target []seqalpha.Letter) float64 {
	if len(target) == 0 {
		return 1
	}
	var masked int
	for _, l := range target {
		if l == SuperHardMask {
			masked++
		}
	}
	return float64(masked) / float64(len(target))
}

// overlapsAny guarantees spec §8's "union of subject_ranges across
// surviving Hsps on one frame is pairwise disjoint" invariant by rejecting
// any candidate whose subject range overlaps an already-accepted Hsp.
func overlapsAny(existing []Hsp, r Interval) bool {
	for _, h := range existing {
		lo := maxI(h.SubjectRange.Begin, r.Begin)
		hi := minI(h.SubjectRange.End, r.End)
		if hi > lo {
			return true
		}
	}
	return false
}
