// Package align implements the per-query extension orchestrator: Target
// and Match containers, HSP culling, alt-HSP recomputation, and the
// top-level state machine driving seed hits through ungapped extension,
// chaining, and DP (spec §4.5). Grounded on muscato_confirm's breader
// merge-join and heap-based top-K (qinsert) for the culling shape, and on
// src/align/extend.cpp / alt_hsp.cpp (original_source) for the state
// machine.
package align

import (
	"sort"

	"github.com/kshedden/prosearch/internal/dp"
	"github.com/kshedden/prosearch/internal/scoring"
)

// EditOp is the output-contract edit operation (spec §6).
type EditOp struct {
	Kind EditKind
	// Letter is populated for Substitution/Deletion.
	Letter byte
	// Len is populated for Insertion.
	Len int32
}

type EditKind int

const (
	EditMatch EditKind = iota
	EditSubstitution
	EditInsertion
	EditDeletion
	EditFrameshiftFwd
	EditFrameshiftRev
)

// Interval is an inclusive-exclusive [Begin, End) range.
type Interval struct{ Begin, End int32 }

// Hsp is a fully realised local alignment (spec §3). Hsps are totally
// ordered by (evalue asc, score desc, query_range.begin asc).
type Hsp struct {
	Score            int32
	BitScore         float64
	EValue           float64
	Frame            uint8
	Length           int32
	Identities       int32
	QueryRange       Interval
	QuerySourceRange Interval
	SubjectRange     Interval
	Transcript       []EditOp // nil unless requested
}

// Less implements the Hsp total order from spec §3.
func Less(a, b Hsp) bool {
	if a.EValue != b.EValue {
		return a.EValue < b.EValue
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.QueryRange.Begin < b.QueryRange.Begin
}

// SortHsps sorts in place by the spec's total order.
func SortHsps(hsps []Hsp) {
	sort.Slice(hsps, func(i, j int) bool { return Less(hsps[i], hsps[j]) })
}

// FromDPResult builds an Hsp from a dp.Result plus the statistical context
// needed for E-value/bit-score conversion (spec §4.4, §4 "Scoring kernels").
func FromDPResult(r dp.Result, frame uint8, m *scoring.Matrix, searchSpace float64, gapped bool) Hsp {
	bit := scoring.BitScore(m, r.Score, gapped)
	ev := scoring.EValue(bit, searchSpace)
	h := Hsp{
		Score:      r.Score,
		BitScore:   bit,
		EValue:     ev,
		Frame:      frame,
		Length:     r.Length,
		Identities: r.Identities,
		QueryRange: Interval{r.QueryBegin, r.QueryEnd},
		SubjectRange: Interval{r.SubjectBegin, r.SubjectEnd},
	}
	h.QuerySourceRange = h.QueryRange
	if r.Transcript != nil {
		h.Transcript = translateTranscript(r.Transcript)
	}
	return h
}

func translateTranscript(ops []dp.Op) []EditOp {
	out := make([]EditOp, 0, len(ops))
	for _, o := range ops {
		switch o.Kind {
		case dp.OpMatch:
			out = append(out, EditOp{Kind: EditMatch})
		case dp.OpSubst:
			out = append(out, EditOp{Kind: EditSubstitution, Letter: byte(o.Letter)})
		case dp.OpInsertion:
			out = append(out, EditOp{Kind: EditInsertion, Len: 1})
		case dp.OpDeletion:
			out = append(out, EditOp{Kind: EditDeletion, Letter: byte(o.Letter)})
		}
	}
	return compactTranscript(out)
}

// compactTranscript merges consecutive identical-kind ops (matches and
// insertions) into run lengths, matching conventional CIGAR compaction.
func compactTranscript(in []EditOp) []EditOp {
	var out []EditOp
	for _, op := range in {
		if n := len(out); n > 0 && out[n-1].Kind == op.Kind && (op.Kind == EditMatch || op.Kind == EditInsertion) {
			out[n-1].Len++
			continue
		}
		if op.Len == 0 {
			op.Len = 1
		}
		out = append(out, op)
	}
	return out
}
