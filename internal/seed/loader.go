package seed

import (
	"math"
	"sort"
)

// Load decodes a raw, unsorted range of seed hits into a FlatArray grouped
// by in-block target id, a parallel target_block_ids slice, and a
// per-target TargetScore slice, per spec §4.1.
//
// limits is the target SequenceSet's cumulative offset table (one entry
// per target boundary plus a trailing sentinel, see seqset.SequenceSet.Limits).
// queryContexts is the number of translated frames per query (1 for
// straight protein search); frame = query % queryContexts.
func Load(raw []RawHit, limits []int, queryContexts uint32) (*FlatArray, []uint32, []TargetScore) {
	sorted := make([]RawHit, len(raw))
	copy(sorted, raw)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SubjectOffset < sorted[j].SubjectOffset })

	locator := newLocator(limits, len(sorted))

	var flat FlatArray
	flat.Limits = append(flat.Limits, 0)
	var blockIDs []uint32
	var scores []TargetScore

	var curTarget = -1
	for _, h := range sorted {
		if h.SubjectOffset < uint64(limits[0]) || h.SubjectOffset >= uint64(limits[len(limits)-1]) {
			panic("seed: subject offset out of range")
		}
		t := locator.locate(int(h.SubjectOffset))
		if t != curTarget {
			if curTarget >= 0 {
				flat.Limits = append(flat.Limits, len(flat.Data))
				blockIDs = append(blockIDs, uint32(curTarget))
			}
			curTarget = t
		}
		hit := Hit{
			QueryPos:  h.SeedOffset,
			TargetPos: int32(int(h.SubjectOffset) - limits[t]),
			Score:     int16(h.Score),
			Frame:     uint8(h.Query % queryContexts),
		}
		flat.Data = append(flat.Data, hit)

		if len(scores) == 0 || scores[len(scores)-1].Target != uint32(t) {
			scores = append(scores, TargetScore{Target: uint32(t), Score: scoreOf(h.Score)})
		} else {
			last := &scores[len(scores)-1]
			if s := scoreOf(h.Score); s > last.Score || last.Score == ScoreOverflow16 {
				last.Score = maxScore(last.Score, s)
			}
		}
	}
	if curTarget >= 0 {
		flat.Limits = append(flat.Limits, len(flat.Data))
		blockIDs = append(blockIDs, uint32(curTarget))
	}

	return &flat, blockIDs, scores
}

func scoreOf(raw uint8) uint16 {
	if raw == ScoreOverflow {
		return ScoreOverflow16
	}
	return uint16(raw)
}

func maxScore(a, b uint16) uint16 {
	if a == ScoreOverflow16 || b == ScoreOverflow16 {
		return ScoreOverflow16
	}
	if a > b {
		return a
	}
	return b
}

// locator implements the cost-switched lookup described in spec §4.1:
// binary search over limits when the hit count is low relative to
// log2(total_subjects)*hits, otherwise a shared linearly advancing
// iterator over limits (hits are already sorted by subject offset, so a
// single forward pass over limits suffices).
type locator struct {
	limits []int
	linear bool
	cursor int
}

func newLocator(limits []int, numHits int) *locator {
	totalSubjects := len(limits) - 1
	logCost := math.Log2(float64(totalSubjects)+1) * float64(numHits)
	linearCost := float64(totalSubjects)
	return &locator{limits: limits, linear: logCost >= linearCost}
}

func (l *locator) locate(offset int) int {
	if !l.linear {
		return binarySearch(l.limits, offset)
	}
	for l.cursor+1 < len(l.limits)-1 && l.limits[l.cursor+1] <= offset {
		l.cursor++
	}
	return l.cursor
}

func binarySearch(limits []int, offset int) int {
	lo, hi := 0, len(limits)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if limits[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
