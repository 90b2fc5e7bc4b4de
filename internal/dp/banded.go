package dp

import "github.com/kshedden/prosearch/internal/seqalpha"

// Op is a single edit operation emitted by traceback, independent of the
// output-layer EditOp in spec §6 so this package has no dependency on
// internal/align; callers translate Op into their own transcript type.
type Op struct {
	Kind   OpKind
	Letter seqalpha.Letter // substituted/deleted letter, when applicable
	Len    int32           // run length, for Insertion
}

// OpKind enumerates the traceback operation kinds.
type OpKind int

const (
	OpMatch OpKind = iota
	OpSubst
	OpInsertion // gap in target (query consumed)
	OpDeletion  // gap in query (target consumed)
)

// Result is the score/coordinate/traceback output of one DP cell evaluation
// (spec's "Hsp list with score, optionally coordinates and optionally a
// CIGAR transcript").
type Result struct {
	Score            int32
	QueryEnd         int32
	SubjectEnd       int32
	QueryBegin       int32
	SubjectBegin     int32
	Transcript       []Op // nil unless traceback requested
	Identities       int32
	Length           int32
}

// ScoreFunc returns the substitution score between a query and target
// letter for one DpTarget (composition-adjusted matrices are folded in by
// the caller supplying a closure over TargetMatrix.Score).
type ScoreFunc func(q, t seqalpha.Letter) int32

// GapParams holds the affine gap penalties applied vertically and
// horizontally in the H/E/F recurrence.
type GapParams struct {
	Open, Extend int32
}

const negInf = int32(-1 << 28)

// BandedSW runs Smith-Waterman over the cells (i, j) whose diagonal i-j
// (query position minus target position, as in seed.Hit.Diag and
// chain.ApproxHsp) lies in [dBegin, dEnd], using the two-state (H,E,F)
// affine-gap recurrence (spec §4.4.2). When dEnd <= dBegin every cell is
// computed. traceback selects whether Result.Transcript is populated.
func BandedSW(query, target []seqalpha.Letter, dBegin, dEnd int32, score ScoreFunc, gap GapParams, traceback bool) Result {
	n := int32(len(query))
	m := int32(len(target))
	if dEnd <= dBegin {
		dBegin, dEnd = -m, n
	}

	type cell struct{ h, e, f int32 }
	rows := n + 1
	cols := m + 1

	H := make([][]cell, rows)
	for i := range H {
		H[i] = make([]cell, cols)
	}

	var tbOp [][]OpKind
	var tbLetter [][]seqalpha.Letter
	if traceback {
		tbOp = make([][]OpKind, rows)
		tbLetter = make([][]seqalpha.Letter, rows)
		for i := range tbOp {
			tbOp[i] = make([]OpKind, cols)
			tbLetter[i] = make([]seqalpha.Letter, cols)
		}
	}

	best := Result{}
	var bestI, bestJcol int32

	colForJ := func(j int32) int32 { return j }

	for i := int32(1); i <= n; i++ {
		jLo := maxI32(1, i-dEnd)
		jHi := minI32(m, i-dBegin)
		for j := jLo; j <= jHi; j++ {
			jc := colForJ(j)
			if jc < 0 || jc >= cols {
				continue
			}
			up := H[i-1][jc]
			var left cell
			if jc-1 >= 0 {
				left = H[i][jc-1]
			} else {
				left = cell{h: negInf, e: negInf, f: negInf}
			}
			var diagv cell
			// diagonal cell is (i-1, j-1) -> column j-1 = jc-1 at row i-1
			if jc-1 >= 0 {
				diagv = H[i-1][jc-1]
			} else {
				diagv = cell{}
			}

			e := maxI32(left.h-gap.Open-gap.Extend, left.e-gap.Extend)
			f := maxI32(up.h-gap.Open-gap.Extend, up.f-gap.Extend)
			sub := score(query[i-1], target[j-1])
			h := maxI32(0, maxI32(diagv.h+sub, maxI32(e, f)))

			H[i][jc] = cell{h: h, e: e, f: f}

			if traceback {
				switch {
				case h == diagv.h+sub:
					if query[i-1] == target[j-1] {
						tbOp[i][jc] = OpMatch
					} else {
						tbOp[i][jc] = OpSubst
					}
					tbLetter[i][jc] = target[j-1]
				case h == e:
					tbOp[i][jc] = OpInsertion
				case h == f:
					tbOp[i][jc] = OpDeletion
					tbLetter[i][jc] = target[j-1]
				}
			}

			if h > best.Score {
				best.Score = h
				bestI, bestJcol = i, jc
				best.QueryEnd, best.SubjectEnd = i, j
			}
		}
	}

	if traceback && best.Score > 0 {
		best.Transcript, best.QueryBegin, best.SubjectBegin, best.Identities, best.Length =
			tracebackPath(tbOp, tbLetter, query, target, bestI, bestJcol, 0)
	}
	return best
}

func tracebackPath(ops [][]OpKind, letters [][]seqalpha.Letter, query, target []seqalpha.Letter, i, jc, dBegin int32) ([]Op, int32, int32, int32, int32) {
	var rev []Op
	var ident, length int32
	ii, jjc := i, jc
	for ii > 0 && jjc >= 0 && jjc < int32(len(ops[ii])) {
		op := ops[ii][jjc]
		switch op {
		case OpMatch, OpSubst:
			if op == OpMatch {
				ident++
			}
			rev = append(rev, Op{Kind: op, Letter: letters[ii][jjc]})
			ii--
			jjc--
			length++
		case OpInsertion:
			rev = append(rev, Op{Kind: OpInsertion, Len: 1})
			jjc--
			length++
		case OpDeletion:
			rev = append(rev, Op{Kind: OpDeletion, Letter: letters[ii][jjc]})
			ii--
			length++
		default:
			ii = 0
		}
	}
	// reverse
	out := make([]Op, len(rev))
	for k, o := range rev {
		out[len(rev)-1-k] = o
	}
	queryBegin := ii
	subjectBegin := jjc + dBegin
	return out, queryBegin, subjectBegin, ident, length
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
