// Package globalrank holds the hit ordering, grouping and top-K helpers of
// the global-ranking front-end to the extension orchestrator (spec §4.5a),
// grounded on src/align/global_ranking/*.cpp (original_source). It does no
// I/O and runs neither ranking pass: it does not write or read an on-disk
// merged query list, and nothing outside its tests calls it.
package globalrank

import "sort"

// Hit is the single projection named in spec §9's Open Question ("Two
// Hit(ptrdiff_t target_id) shapes... appear to exist only to provide a
// target projection for sort"): normalised here to one struct that
// ByScore and ByTarget sort, rather than two constructor shapes.
type Hit struct {
	QueryBlockID uint32
	TargetOId    uint64
	Score        int32
	Context      uint8
}

// ByScore orders Hits by score desc, target asc — the ranking order used
// to select the top-K hits fed into the extension orchestrator.
func ByScore(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].TargetOId < hits[j].TargetOId
	})
}

// ByTarget orders Hits by target id — the projection used when merging the
// first pass's per-worker streams into the on-disk merged query list.
func ByTarget(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool { return hits[i].TargetOId < hits[j].TargetOId })
}

// GroupByQuery partitions a (target-sorted or arbitrary) hit stream into
// per-query slices, preserving each query's hits in their original order.
func GroupByQuery(hits []Hit) map[uint32][]Hit {
	out := map[uint32][]Hit{}
	for _, h := range hits {
		out[h.QueryBlockID] = append(out[h.QueryBlockID], h)
	}
	return out
}

// TopK returns the best k hits for one query by score, per spec §4.5a
// "feeds the top-K into the extension orchestrator".
func TopK(hits []Hit, k int) []Hit {
	cp := make([]Hit, len(hits))
	copy(cp, hits)
	ByScore(cp)
	if k > 0 && len(cp) > k {
		cp = cp[:k]
	}
	return cp
}
