package cluster

import "sort"

// Cluster implements spec §4.6(g): aggregate Edges into Assignments.
//
// Uni-directional: sort by member; for each member pick the best edge
// (rep_len desc, rep_oid asc) as its rep.
//
// Mutual: track each node's degree; for each edge, if the candidate's
// (degree, oid) beats the current rep of either endpoint, update.
func Cluster(edges []Edge, mode Mode) []Assignment {
	if mode == Mutual {
		return clusterMutual(edges)
	}
	return clusterUniDirectional(edges)
}

func clusterUniDirectional(edges []Edge) []Assignment {
	sort.Slice(edges, func(i, j int) bool { return edges[i].MemberOId < edges[j].MemberOId })

	var out []Assignment
	i := 0
	for i < len(edges) {
		j := i + 1
		for j < len(edges) && edges[j].MemberOId == edges[i].MemberOId {
			j++
		}
		best := edges[i]
		for _, e := range edges[i+1 : j] {
			if e.RepLen > best.RepLen || (e.RepLen == best.RepLen && e.RepOId < best.RepOId) {
				best = e
			}
		}
		out = append(out, Assignment{MemberOId: best.MemberOId, RepOId: best.RepOId})
		i = j
	}
	return out
}

// clusterMutual picks, for every node touched by an edge, the best rep
// by (degree desc, oid asc) among its neighbours, computed over the full
// edge set (spec §4.6(g) "Mutual").
func clusterMutual(edges []Edge) []Assignment {
	degree := map[OId]int{}
	for _, e := range edges {
		degree[e.RepOId]++
		degree[e.MemberOId]++
	}

	better := func(candidate, current OId) bool {
		dc, dd := degree[candidate], degree[current]
		if dc != dd {
			return dc > dd
		}
		return candidate < current
	}

	rep := map[OId]OId{}
	consider := func(node, candidate OId) {
		cur, ok := rep[node]
		if !ok || better(candidate, cur) {
			rep[node] = candidate
		}
	}
	for _, e := range edges {
		consider(e.MemberOId, e.RepOId)
		consider(e.RepOId, e.MemberOId)
	}

	out := make([]Assignment, 0, len(rep))
	for node, r := range rep {
		out = append(out, Assignment{MemberOId: node, RepOId: r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberOId < out[j].MemberOId })
	return out
}

// UnionFind is a parallel-flattening union-find over a dense oid range
// (spec §4.6(h)): rep[i] starts as i, each Assignment folds rep[member] =
// rep, and a final pass repeatedly collapses rep[i] = rep[rep[i]] until
// fixed. No generic union-find exists anywhere in the pack, so this is
// hand-rolled, per DESIGN.md's grounding-ledger entry for this file.
type UnionFind struct {
	rep []OId
}

// NewUnionFind returns a UnionFind over oids [0, n).
func NewUnionFind(n int) *UnionFind {
	rep := make([]OId, n)
	for i := range rep {
		rep[i] = OId(i)
	}
	return &UnionFind{rep: rep}
}

// Fold applies one Assignment: rep[member] = rep.
func (u *UnionFind) Fold(a Assignment) {
	if int(a.MemberOId) < len(u.rep) {
		u.rep[a.MemberOId] = a.RepOId
	}
}

// Flatten repeatedly applies rep[i] = rep[rep[i]] until every entry is a
// fixed point, then returns the finished rep table.
func (u *UnionFind) Flatten() []OId {
	for {
		changed := false
		for i, r := range u.rep {
			if pr := u.rep[r]; pr != r {
				u.rep[i] = pr
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return u.rep
}

// Representatives returns every oid i with rep[i] == i, the final
// cluster representative set (spec §4.6(h)).
func Representatives(rep []OId) []OId {
	var out []OId
	for i, r := range rep {
		if OId(i) == r {
			out = append(out, r)
		}
	}
	return out
}
