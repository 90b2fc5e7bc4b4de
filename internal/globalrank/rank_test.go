package globalrank

import (
	"reflect"
	"testing"
)

func TestByScoreOrdersDescending(t *testing.T) {
	hits := []Hit{
		{TargetOId: 1, Score: 10},
		{TargetOId: 2, Score: 30},
		{TargetOId: 3, Score: 20},
	}
	ByScore(hits)
	want := []int32{30, 20, 10}
	for i, h := range hits {
		if h.Score != want[i] {
			t.Errorf("hits[%d].Score = %d, want %d", i, h.Score, want[i])
		}
	}
}

func TestByScoreTieBreaksByTarget(t *testing.T) {
	hits := []Hit{
		{TargetOId: 5, Score: 10},
		{TargetOId: 1, Score: 10},
	}
	ByScore(hits)
	if hits[0].TargetOId != 1 {
		t.Errorf("expected target 1 first on tied score, got %d", hits[0].TargetOId)
	}
}

func TestByTargetOrdersAscending(t *testing.T) {
	hits := []Hit{{TargetOId: 9}, {TargetOId: 2}, {TargetOId: 5}}
	ByTarget(hits)
	if !reflect.DeepEqual([]uint64{2, 5, 9}, []uint64{hits[0].TargetOId, hits[1].TargetOId, hits[2].TargetOId}) {
		t.Errorf("ByTarget did not sort ascending: %v", hits)
	}
}

func TestGroupByQuery(t *testing.T) {
	hits := []Hit{
		{QueryBlockID: 0, TargetOId: 1},
		{QueryBlockID: 1, TargetOId: 2},
		{QueryBlockID: 0, TargetOId: 3},
	}
	grouped := GroupByQuery(hits)
	if len(grouped[0]) != 2 {
		t.Errorf("len(grouped[0]) = %d, want 2", len(grouped[0]))
	}
	if len(grouped[1]) != 1 {
		t.Errorf("len(grouped[1]) = %d, want 1", len(grouped[1]))
	}
}

func TestTopKTruncates(t *testing.T) {
	hits := []Hit{{Score: 1}, {Score: 5}, {Score: 3}, {Score: 9}}
	top := TopK(hits, 2)
	if len(top) != 2 {
		t.Fatalf("len(TopK) = %d, want 2", len(top))
	}
	if top[0].Score != 9 || top[1].Score != 5 {
		t.Errorf("TopK(2) = %v, want scores [9 5]", top)
	}
}

func TestTopKZeroMeansUnbounded(t *testing.T) {
	hits := []Hit{{Score: 1}, {Score: 2}}
	if got := TopK(hits, 0); len(got) != 2 {
		t.Errorf("TopK(hits, 0) returned %d hits, want all 2", len(got))
	}
}
