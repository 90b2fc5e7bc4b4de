package align

import "sort"

// EnvelopeFraction is the overlap fraction used by inner/cross-frame
// culling (spec §3 invariant and §8 property 2: "intersect at less than
// 50% of the shorter").
const EnvelopeFraction = 0.5

func overlapFraction(a, b Interval) float64 {
	lo := maxI(a.Begin, b.Begin)
	hi := minI(a.End, b.End)
	if hi <= lo {
		return 0
	}
	shorter := minI(a.End-a.Begin, b.End-b.Begin)
	if shorter <= 0 {
		return 0
	}
	return float64(hi-lo) / float64(shorter)
}

func maxI(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minI(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

// envelops reports whether intervals a and b overlap by at least frac of
// the shorter one's length. InnerCull calls it once for the query ranges
// and once for the subject ranges of a pair of Hsps.
func envelops(a, b Interval, frac float64) bool {
	return overlapFraction(a, b) >= frac
}

// InnerCull removes, within one frame, Hsps enveloped by a strictly better
// Hsp on both the query and subject axes (spec §4.5 step 9 "inner_culling":
// envelope >= 50% on both axes), honouring spec §3's invariant that
// surviving same-frame Hsps overlap by less than the envelope threshold on
// at least one axis.
func InnerCull(hsps []Hsp) []Hsp {
	ordered := make([]Hsp, len(hsps))
	copy(ordered, hsps)
	SortHsps(ordered)

	keep := make([]bool, len(ordered))
	for i := range ordered {
		keep[i] = true
	}
	for i := range ordered {
		if !keep[i] {
			continue
		}
		for j := i + 1; j < len(ordered); j++ {
			if !keep[j] {
				continue
			}
			qOverlap := envelops(ordered[i].QueryRange, ordered[j].QueryRange, EnvelopeFraction)
			sOverlap := envelops(ordered[i].SubjectRange, ordered[j].SubjectRange, EnvelopeFraction)
			if qOverlap && sOverlap {
				keep[j] = false
			}
		}
	}
	var out []Hsp
	for i, k := range keep {
		if k {
			out = append(out, ordered[i])
		}
	}
	return out
}

// CullParams configures cross-match culling (spec §4.5 step 9, §3
// invariant: "either the match survives a top-K cap, or its filter score
// falls below the top-percent-of-best gate, or its E-value exceeds the
// cutoff; one applies at a time").
type CullParams struct {
	TopK       int     // 0 means no cap
	TopPercent float64 // 100 means no gate
	MaxEValue  float64 // +Inf means no cutoff
}

// CrossMatchCull applies top-percent or top-K with deterministic tie
// breaks (evalue asc, score desc, target block id asc), per spec §4.5
// step 9.
func CrossMatchCull(matches []Match, p CullParams) []Match {
	filtered := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.FilterEValue <= p.MaxEValue {
			filtered = append(filtered, m)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if a.FilterEValue != b.FilterEValue {
			return a.FilterEValue < b.FilterEValue
		}
		if a.FilterScore != b.FilterScore {
			return a.FilterScore > b.FilterScore
		}
		return a.TargetBlockID < b.TargetBlockID
	})

	if len(filtered) == 0 {
		return filtered
	}

	if p.TopPercent < 100 {
		best := filtered[0].FilterScore
		gate := float64(best) * p.TopPercent / 100
		var gated []Match
		for _, m := range filtered {
			if float64(m.FilterScore) >= gate {
				gated = append(gated, m)
			}
		}
		filtered = gated
	}

	if p.TopK > 0 && len(filtered) > p.TopK {
		filtered = filtered[:p.TopK]
	}
	return filtered
}
