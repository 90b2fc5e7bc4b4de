// Package chain implements colinear chaining of ungapped DiagonalSegments
// into ApproxHsp runs (spec §4.3), grounded on the merge algorithm in
// src/chaining/smith_waterman.cpp and chaining.h (original_source).
package chain

import (
	"sort"

	"github.com/kshedden/prosearch/internal/ungapped"
)

// ApproxHsp is a chained HSP approximation, the band definition the banded
// DP step consumes (spec §3).
type ApproxHsp struct {
	DMin, DMax         int32
	Score              int32
	QueryBegin, QueryEnd     int32
	SubjectBegin, SubjectEnd int32
	MaxDiag            ungapped.DiagonalSegment
	Frame              uint8
}

func diag(s ungapped.DiagonalSegment) int32 { return s.I - s.J }

// MinBandOverlap is the default fraction of either interval's length that
// two segments' band-projected intervals must overlap to be merged.
const MinBandOverlap = 0.5

// Chain merges colinear neighbours in a frame's DiagonalSegments (already
// grouped by frame by the caller) into ApproxHsp runs, taking segments in
// diagonal order. A segment whose diagonal lies within 4 of the current
// run's diagonal range joins the run if its query interval overlaps the
// run's by at least minBandOverlap of the shorter interval or, when the
// two are disjoint, if the gap between them is at most minBandOverlap of
// the shorter interval; otherwise the current run is emitted and a new
// run starts.
func Chain(segments []ungapped.DiagonalSegment, frame uint8, minBandOverlap float64) []ApproxHsp {
	if len(segments) == 0 {
		return nil
	}
	sorted := make([]ungapped.DiagonalSegment, len(segments))
	copy(sorted, segments)
	sort.Slice(sorted, func(i, j int) bool { return diag(sorted[i]) < diag(sorted[j]) })

	var runs []ApproxHsp
	cur := newRun(sorted[0], frame)
	for _, s := range sorted[1:] {
		if overlaps(cur, s, minBandOverlap) {
			cur = extend(cur, s)
		} else {
			runs = append(runs, cur)
			cur = newRun(s, frame)
		}
	}
	runs = append(runs, cur)
	return runs
}

func newRun(s ungapped.DiagonalSegment, frame uint8) ApproxHsp {
	d := diag(s)
	return ApproxHsp{
		DMin: d, DMax: d,
		Score:        s.Score,
		QueryBegin:   s.I,
		QueryEnd:     s.I + s.Len,
		SubjectBegin: s.J,
		SubjectEnd:   s.J + s.Len,
		MaxDiag:      s,
		Frame:        frame,
	}
}

func overlaps(run ApproxHsp, s ungapped.DiagonalSegment, minBandOverlap float64) bool {
	d := diag(s)
	if d < run.DMin-1 || d > run.DMax+1 {
		// Diagonals too far apart to plausibly be colinear; still allow
		// the band-projection test to decide for near neighbours.
		if d < run.DMin-4 || d > run.DMax+4 {
			return false
		}
	}
	aBegin, aEnd := run.QueryBegin, run.QueryEnd
	bBegin, bEnd := s.I, s.I+s.Len
	lo := maxI(aBegin, bBegin)
	hi := minI(aEnd, bEnd)
	overlap := hi - lo
	if overlap <= 0 {
		// Disjoint on query: still mergeable if close on the
		// projected band (gap no larger than the shorter interval).
		gap := lo - hi
		shorter := minI(aEnd-aBegin, bEnd-bBegin)
		return shorter > 0 && float64(gap) <= minBandOverlap*float64(shorter)
	}
	shorter := minI(aEnd-aBegin, bEnd-bBegin)
	if shorter <= 0 {
		return false
	}
	return float64(overlap) >= minBandOverlap*float64(shorter)
}

func extend(run ApproxHsp, s ungapped.DiagonalSegment) ApproxHsp {
	d := diag(s)
	if d < run.DMin {
		run.DMin = d
	}
	if d > run.DMax {
		run.DMax = d
	}
	run.QueryBegin = minI(run.QueryBegin, s.I)
	run.QueryEnd = maxI(run.QueryEnd, s.I+s.Len)
	run.SubjectBegin = minI(run.SubjectBegin, s.J)
	run.SubjectEnd = maxI(run.SubjectEnd, s.J+s.Len)
	run.Score += s.Score
	if s.Score > run.MaxDiag.Score {
		run.MaxDiag = s
	}
	return run
}

func minI(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxI(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
