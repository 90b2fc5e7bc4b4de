// Package wfa implements the anchored-swipe wavefront aligner (spec
// §4.4.3): exact edit-distance / gap-affine alignment by tracking the
// furthest-reaching offset per diagonal per cost, grounded directly on
// src/lib/wfa2/wavefront/* (original_source).
package wfa

import "github.com/kshedden/prosearch/internal/seqalpha"

// Costs is the scaled score-difference cost vector (match, mismatch,
// gap_open, gap_extend) driving the wavefront cost axis (spec §4.4.3).
type Costs struct {
	Match, Mismatch, GapOpen, GapExtend int32
}

// Status is the explicit result-variant replacing exceptions-as-control-flow
// for WFA termination, per spec §7 and REDESIGN FLAGS.
type Status int

const (
	StatusOK Status = iota
	StatusUnfeasible
	StatusMaxScoreReached
	StatusOOM
)

// Params configures one wavefront run.
type Params struct {
	Costs       Costs
	EndsFree    bool // ends-free (semi-global) vs end-to-end
	MaxScore    int32
	MaxMemory   uint64 // 0 means unlimited (spec §9 Open Question decision)
	Heuristic   Heuristic
}

// Result is the outcome of a wavefront alignment.
type Result struct {
	Status     Status
	Score      int32
	QueryEnd   int32
	SubjectEnd int32
	Cigar      []Op
}

// wavefronts holds, per cost, the furthest-reaching offset per diagonal for
// the Match (M), Insert (I) and Delete (D) planes.
type wavefronts struct {
	lo, hi int32
	m, i, d map[int32]*cell
}

type cell struct {
	offset int32
	pcigar pcigar
}

func newWF() *wavefronts {
	return &wavefronts{m: map[int32]*cell{}, i: map[int32]*cell{}, d: map[int32]*cell{}}
}

// Align runs the wavefront algorithm in edit-distance/gap-affine mode from
// (0,0) to (len(query), len(target)) (end-to-end) or until the ends-free
// region is reached, per spec §4.4.3.
func Align(query, target []seqalpha.Letter, p Params) Result {
	qn, tn := int32(len(query)), int32(len(target))
	wf := map[int32]*wavefronts{0: newWF()}
	wf[0].m[0] = &cell{offset: 0}

	extend(wf[0], 0, query, target, qn, tn)
	if reached(wf[0], 0, qn, tn, p.EndsFree) {
		return finish(wf, 0, 0, qn, tn)
	}

	for score := int32(1); ; score++ {
		if p.MaxScore > 0 && score > p.MaxScore {
			return Result{Status: StatusMaxScoreReached, Score: score - 1}
		}
		if p.MaxMemory > 0 && uint64(score)*uint64(len(wf))*64 > p.MaxMemory {
			return Result{Status: StatusOOM, Score: score - 1}
		}

		cur := newWF()
		nextCostStep(wf, score, cur, p.Costs)
		applyHeuristic(cur, p.Heuristic, score)
		wf[score] = cur
		extend(cur, score, query, target, qn, tn)

		if k, ok := reachedDiag(cur, qn, tn, p.EndsFree); ok {
			return finish(wf, score, k, qn, tn)
		}
		if isExhausted(cur) {
			return Result{Status: StatusUnfeasible, Score: score}
		}
	}
}

// extend advances each offset[k] while the sequences match (spec §4.4.3
// "Extension"). This is a plain-loop stand-in for the SIMD 8-wide diagonal
// compare the original performs with 64-bit XOR/CLZ; Go has no portable
// SIMD intrinsic for this domain, so the loop shape is kept identical and
// only the vectorization is dropped (DESIGN.md).
func extend(w *wavefronts, score int32, query, target []seqalpha.Letter, qn, tn int32) {
	for k, c := range w.m {
		i := c.offset
		j := i - k
		for i < qn && j < tn && !query[i].IsDelimiter() && !target[j].IsDelimiter() && query[i] == target[j] {
			i++
			j++
		}
		c.offset = i
	}
}

// nextCostStep computes offset_new[k] = max(offset[k-1]+1, offset[k]+1,
// offset[k+1]) for the Match plane, plus the analogous Insert/Delete plane
// updates under the gap-affine cost model (spec §4.4.3).
func nextCostStep(wf map[int32]*wavefronts, score int32, cur *wavefronts, c Costs) {
	mismatchSrc := wf[score-c.Mismatch]
	openSrc := wf[score-c.GapOpen-c.GapExtend]
	extendSrc := wf[score-c.GapExtend]

	diagonals := map[int32]bool{}
	collect := func(w *wavefronts, planes ...map[int32]*cell) {
		if w == nil {
			return
		}
		for _, pl := range planes {
			for k := range pl {
				diagonals[k-1] = true
				diagonals[k] = true
				diagonals[k+1] = true
			}
		}
	}
	collect(mismatchSrc, mismatchSrc.m)
	collect(openSrc, openSrc.m)
	collect(extendSrc, extendSrc.i, extendSrc.d)

	for k := range diagonals {
		var iOff int32 = -1
		if extendSrc != nil {
			if c0, ok := extendSrc.i[k-1]; ok {
				iOff = maxI(iOff, c0.offset+1)
			}
		}
		if openSrc != nil {
			if c0, ok := openSrc.m[k-1]; ok {
				iOff = maxI(iOff, c0.offset+1)
			}
		}
		if iOff >= 0 {
			cur.i[k] = &cell{offset: iOff}
		}

		var dOff int32 = -1
		if extendSrc != nil {
			if c0, ok := extendSrc.d[k+1]; ok {
				dOff = maxI(dOff, c0.offset)
			}
		}
		if openSrc != nil {
			if c0, ok := openSrc.m[k+1]; ok {
				dOff = maxI(dOff, c0.offset)
			}
		}
		if dOff >= 0 {
			cur.d[k] = &cell{offset: dOff}
		}

		var mOff int32 = -1
		if mismatchSrc != nil {
			if c0, ok := mismatchSrc.m[k]; ok {
				mOff = maxI(mOff, c0.offset+1)
			}
		}
		if c0, ok := cur.i[k]; ok {
			mOff = maxI(mOff, c0.offset)
		}
		if c0, ok := cur.d[k]; ok {
			mOff = maxI(mOff, c0.offset)
		}
		if mOff >= 0 {
			cur.m[k] = &cell{offset: mOff}
		}
	}
}

func maxI(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func reached(w *wavefronts, score, qn, tn int32, endsFree bool) bool {
	_, ok := reachedDiag(w, qn, tn, endsFree)
	return ok
}

func reachedDiag(w *wavefronts, qn, tn int32, endsFree bool) (int32, bool) {
	for k, c := range w.m {
		j := c.offset - k
		if endsFree {
			if c.offset >= qn || j >= tn {
				return k, true
			}
		} else if c.offset >= qn && j >= tn {
			return k, true
		}
	}
	return 0, false
}

func isExhausted(w *wavefronts) bool {
	return len(w.m) == 0 && len(w.i) == 0 && len(w.d) == 0
}

func finish(wf map[int32]*wavefronts, score, k, qn, tn int32) Result {
	return Result{
		Status:     StatusOK,
		Score:      score,
		QueryEnd:   qn,
		SubjectEnd: tn,
		Cigar:      nil, // always nil: no code in this package rebuilds the transcript
	}
}
