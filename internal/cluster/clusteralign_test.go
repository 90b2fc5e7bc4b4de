package cluster

import (
	"testing"

	"github.com/kshedden/prosearch/internal/align"
	"github.com/kshedden/prosearch/internal/dp"
	"github.com/kshedden/prosearch/internal/scoring"
	"github.com/kshedden/prosearch/internal/seqalpha"
)

func encCA(s string) []seqalpha.Letter {
	out := make([]seqalpha.Letter, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = seqalpha.Encode(s[i])
	}
	return out
}

func TestAlignChunkEmitsEdgeForIdenticalPair(t *testing.T) {
	rep := encCA("MKVLATGHIKLMNPQRSTVWY")
	repSeqs := map[OId][]seqalpha.Letter{1: rep}
	members := []ChunkMember{{RepOId: 1, MemberOId: 2, Member: rep}}

	p := Params{MinPctId: 90, MemberCoverage: 0.9, CenterCoverage: 0.9}
	edges := AlignChunk(repSeqs, members, p, scoring.Blosum62(), dp.GapParams{Open: 11, Extend: 1}, 1e6)
	if len(edges) != 1 {
		t.Fatalf("AlignChunk returned %d edges, want 1", len(edges))
	}
	if edges[0].RepOId != 1 || edges[0].MemberOId != 2 {
		t.Errorf("edge = %+v, unexpected ids", edges[0])
	}
}

func TestAlignChunkSkipsMissingRep(t *testing.T) {
	members := []ChunkMember{{RepOId: 99, MemberOId: 2, Member: encCA("ACDEFGH")}}
	edges := AlignChunk(nil, members, Params{}, scoring.Blosum62(), dp.GapParams{Open: 11, Extend: 1}, 1e6)
	if len(edges) != 0 {
		t.Errorf("AlignChunk with no matching rep returned %d edges, want 0", len(edges))
	}
}

func TestAlignChunkRejectsDissimilarPair(t *testing.T) {
	rep := encCA("MKVLATGHIKLMNPQRSTVWY")
	member := encCA("AAAAAAAAAAAAAAAAAAAAA") // shares only rep's single A: a one-residue alignment fails the coverage gates
	repSeqs := map[OId][]seqalpha.Letter{1: rep}
	members := []ChunkMember{{RepOId: 1, MemberOId: 2, Member: member}}

	p := Params{MinPctId: 90, MemberCoverage: 0.9, CenterCoverage: 0.9}
	edges := AlignChunk(repSeqs, members, p, scoring.Blosum62(), dp.GapParams{Open: 11, Extend: 1}, 1e6)
	if len(edges) != 0 {
		t.Errorf("AlignChunk should reject a dissimilar pair, got %d edges", len(edges))
	}
}

func TestPassesThresholdsZeroLengthRejected(t *testing.T) {
	h := align.Hsp{Length: 0}
	if passesThresholds(h, 10, 10, Params{}) {
		t.Error("zero-length Hsp should never pass thresholds")
	}
}

func TestPassesThresholdsCoverageGates(t *testing.T) {
	h := align.Hsp{
		Length:       100,
		Identities:   95,
		QueryRange:   align.Interval{Begin: 0, End: 50},
		SubjectRange: align.Interval{Begin: 0, End: 50},
	}
	p := Params{MinPctId: 90, MemberCoverage: 0.9, CenterCoverage: 0.9}
	// 50/100 repLen and 50/100 memberLen is below the 0.9 coverage gate.
	if passesThresholds(h, 100, 100, p) {
		t.Error("expected low coverage to fail the gate")
	}
	if !passesThresholds(h, 50, 50, p) {
		t.Error("expected full coverage and high identity to pass the gate")
	}
}
