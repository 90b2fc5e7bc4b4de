package align

import "github.com/kshedden/prosearch/internal/scoring"

const numFrames = 6 // 3 forward + 3 reverse translated frames; protein mode uses frame 0 only

// Target is a per-target container of Hsps grouped by frame, used
// mid-pipeline (spec §3). Rather than a linked-list-spliced ownership
// graph, each frame owns its own small slice (REDESIGN FLAGS "Array-of-
// pointers ownership graphs... replace with index-based ownership").
type Target struct {
	BlockID       uint32
	FramesHsps    [numFrames][]Hsp
	FilterScore   int32
	FilterEValue  float64
	UngappedScore int32
	any           bool
}

// AddHsp appends an Hsp to its frame's list and keeps FilterScore/
// FilterEValue in sync with spec §8 invariant 3.
func (t *Target) AddHsp(h Hsp) {
	t.FramesHsps[h.Frame] = append(t.FramesHsps[h.Frame], h)
	if !t.any || h.Score > t.FilterScore {
		t.FilterScore = h.Score
	}
	if !t.any || h.EValue < t.FilterEValue {
		t.FilterEValue = h.EValue
	}
	t.any = true
}

// AllHsps returns every Hsp across all frames.
func (t *Target) AllHsps() []Hsp {
	var out []Hsp
	for _, f := range t.FramesHsps {
		out = append(out, f...)
	}
	return out
}

// Recompute restores FilterScore/FilterEValue from scratch; callers use
// this after mutating FramesHsps directly (culling, alt-HSP splicing).
func (t *Target) Recompute() {
	t.FilterScore = 0
	t.FilterEValue = posInf
	t.any = false
	for _, f := range t.FramesHsps {
		for _, h := range f {
			if !t.any || h.Score > t.FilterScore {
				t.FilterScore = h.Score
			}
			if !t.any || h.EValue < t.FilterEValue {
				t.FilterEValue = h.EValue
			}
			t.any = true
		}
	}
}

const posInf = 1e308

// Match is the post-traceback output carrying the block-local target id
// and, if composition-adjusted, its bespoke TargetMatrix (spec §3, §6).
type Match struct {
	TargetBlockID uint32
	FilterScore   int32
	FilterEValue  float64
	UngappedScore int32
	Hsps          []Hsp
	Matrix        *scoring.TargetMatrix
}

// NewMatch converts a Target into its output Match, flattening and sorting
// the per-frame Hsp lists.
func NewMatch(t *Target, matrix *scoring.TargetMatrix) Match {
	hsps := t.AllHsps()
	SortHsps(hsps)
	return Match{
		TargetBlockID: t.BlockID,
		FilterScore:   t.FilterScore,
		FilterEValue:  t.FilterEValue,
		UngappedScore: t.UngappedScore,
		Hsps:          hsps,
		Matrix:        matrix,
	}
}

// NewSingleHspMatch is the legacy single-Hsp fast path for
// Match::Match(..., hsps&&) from spec §9's Open Question: it builds a Match
// from exactly one Hsp. RunQuery does not call it (every Match it returns
// is built by NewMatch), and no single-Hsp invariant is enforced elsewhere.
func NewSingleHspMatch(targetBlockID uint32, h Hsp) Match {
	return Match{
		TargetBlockID: targetBlockID,
		FilterScore:   h.Score,
		FilterEValue:  h.EValue,
		Hsps:          []Hsp{h},
	}
}
