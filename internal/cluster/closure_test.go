package cluster

import "testing"

func TestClusterUniDirectionalPicksBestRepByLenThenOid(t *testing.T) {
	edges := []Edge{
		{RepOId: 10, MemberOId: 1, RepLen: 50},
		{RepOId: 20, MemberOId: 1, RepLen: 80},
		{RepOId: 30, MemberOId: 1, RepLen: 80}, // tie on len, higher oid loses
	}
	out := Cluster(edges, UniDirectional)
	if len(out) != 1 {
		t.Fatalf("Cluster returned %d assignments, want 1", len(out))
	}
	if out[0].RepOId != 20 {
		t.Errorf("RepOId = %d, want 20 (longer rep, tie broken by smallest oid)", out[0].RepOId)
	}
}

func TestClusterUniDirectionalGroupsByMember(t *testing.T) {
	edges := []Edge{
		{RepOId: 1, MemberOId: 2, RepLen: 10},
		{RepOId: 1, MemberOId: 3, RepLen: 10},
	}
	out := Cluster(edges, UniDirectional)
	if len(out) != 2 {
		t.Fatalf("Cluster returned %d assignments, want 2", len(out))
	}
}

func TestClusterMutualPicksHighestDegreeNeighbour(t *testing.T) {
	// node 1 has degree 3 (edges to 2, 3, 4); node 2 only has degree 1.
	edges := []Edge{
		{RepOId: 1, MemberOId: 2},
		{RepOId: 1, MemberOId: 3},
		{RepOId: 1, MemberOId: 4},
	}
	out := Cluster(edges, Mutual)
	reps := map[OId]OId{}
	for _, a := range out {
		reps[a.MemberOId] = a.RepOId
	}
	if reps[2] != 1 {
		t.Errorf("node 2's rep = %d, want 1 (highest degree neighbour)", reps[2])
	}
	if reps[1] == 1 {
		t.Errorf("node 1 should not be its own rep: %d", reps[1])
	}
}

func TestUnionFindFlattensToRoot(t *testing.T) {
	uf := NewUnionFind(5)
	uf.Fold(Assignment{MemberOId: 1, RepOId: 0})
	uf.Fold(Assignment{MemberOId: 2, RepOId: 1})
	uf.Fold(Assignment{MemberOId: 3, RepOId: 2})

	rep := uf.Flatten()
	for _, i := range []OId{1, 2, 3} {
		if rep[i] != 0 {
			t.Errorf("rep[%d] = %d, want 0", i, rep[i])
		}
	}
}

func TestUnionFindIgnoresOutOfRangeMember(t *testing.T) {
	uf := NewUnionFind(3)
	uf.Fold(Assignment{MemberOId: 99, RepOId: 0}) // out of range, must not panic or corrupt state
	rep := uf.Flatten()
	if len(rep) != 3 {
		t.Errorf("len(rep) = %d, want 3", len(rep))
	}
}

func TestRepresentativesReturnsFixedPoints(t *testing.T) {
	rep := []OId{0, 0, 0, 3}
	reps := Representatives(rep)
	if len(reps) != 2 {
		t.Fatalf("Representatives = %v, want 2 entries", reps)
	}
	found := map[OId]bool{}
	for _, r := range reps {
		found[r] = true
	}
	if !found[0] || !found[3] {
		t.Errorf("Representatives = %v, want {0, 3}", reps)
	}
}
