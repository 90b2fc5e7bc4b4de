package cluster

import (
	"github.com/kshedden/prosearch/internal/align"
	"github.com/kshedden/prosearch/internal/dp"
	"github.com/kshedden/prosearch/internal/scoring"
	"github.com/kshedden/prosearch/internal/seqalpha"
)

// ChunkMember is one (rep, member) pair local to a single chunk, paired
// with the member's residue letters.
type ChunkMember struct {
	RepOId    OId
	MemberOId OId
	Member    []seqalpha.Letter
}

// AlignChunk runs spec §4.6(f): for each rep, align every member
// sequence with a (rep, member) pair against it via full-matrix banded
// swipe, and emit an Edge for every alignment passing the identity and
// coverage thresholds. It feeds back into the extension core's
// dp.FullMatrix rather than re-deriving alignment from scratch,
// the way the spec's "feeds back in here" phrasing requires.
func AlignChunk(repSeqs map[OId][]seqalpha.Letter, members []ChunkMember, p Params, matrix *scoring.Matrix, gap dp.GapParams, searchSpace float64) []Edge {
	scoreFn := func(a, b seqalpha.Letter) int32 { return matrix.Score(a, b) }
	var edges []Edge
	for _, m := range members {
		rep, ok := repSeqs[m.RepOId]
		if !ok {
			continue
		}
		res := dp.FullMatrix(rep, m.Member, scoreFn, gap, true)
		if res.Score <= 0 {
			continue
		}
		h := align.FromDPResult(res, 0, matrix, searchSpace, true)
		if !passesThresholds(h, len(rep), len(m.Member), p) {
			continue
		}
		edges = append(edges, Edge{
			RepOId:    m.RepOId,
			MemberOId: m.MemberOId,
			RepLen:    int32(len(rep)),
			MemberLen: int32(len(m.Member)),
		})
	}
	return edges
}

// passesThresholds implements the identity/coverage gate spec §4.6(f)
// requires before an alignment becomes an Edge.
func passesThresholds(h align.Hsp, repLen, memberLen int, p Params) bool {
	if h.Length == 0 {
		return false
	}
	pctId := 100 * float64(h.Identities) / float64(h.Length)
	if pctId < p.MinPctId {
		return false
	}
	memberCov := float64(h.SubjectRange.End-h.SubjectRange.Begin) / float64(memberLen)
	if memberCov < p.MemberCoverage {
		return false
	}
	centerCov := float64(h.QueryRange.End-h.QueryRange.Begin) / float64(repLen)
	if centerCov < p.CenterCoverage {
		return false
	}
	return true
}
