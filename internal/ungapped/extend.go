// Package ungapped implements X-drop extension of a seed into a maximal
// ungapped diagonal segment (spec §4.2), the cheapest of the pipeline's
// filtering stages.
package ungapped

import "github.com/kshedden/prosearch/internal/seqalpha"

// ScoreFunc returns the substitution score between a query and target
// letter; it is the caller's job to fold in composition bias, if any,
// before handing the closure down (spec §4.2 "with optional composition
// bias").
type ScoreFunc func(q, t seqalpha.Letter) int32

// DiagonalSegment is the result of one ungapped extension: the leftmost
// (i, j) of the surviving segment, its length, score, and (if requested)
// identity count, per spec §3.
type DiagonalSegment struct {
	I, J, Len int32
	Score     int32
	Ident     int32 // undefined (0) unless countIdentity was requested
}

// Extend walks left and right from (queryPos, targetPos), accumulating
// substitution scores and tracking the running maximum. It stops on a
// DELIMITER or when the running score drops more than xdrop below the
// running maximum, per spec §4.2.
func Extend(query, target []seqalpha.Letter, queryPos, targetPos int32, score ScoreFunc, xdrop int32, countIdentity bool) DiagonalSegment {
	bestScore, bestI := int32(0), queryPos
	var ident, bestIdent int32

	// Walk right (forward).
	cur := int32(0)
	i, j := queryPos, targetPos
	for int(i) < len(query) && int(j) < len(target) {
		ql, tl := query[i], target[j]
		if ql.IsDelimiter() || tl.IsDelimiter() {
			break
		}
		cur += score(ql, tl)
		if countIdentity && ql == tl {
			ident++
		}
		if cur > bestScore {
			bestScore, bestI, bestIdent = cur, i, ident
		} else if cur < bestScore-xdrop {
			break
		}
		i++
		j++
	}
	rightEnd, rightScore, rightIdent := bestI+1, bestScore, bestIdent

	// Walk left (backward) from the seed origin, using a fresh running
	// max/score so the two passes combine additively at the seed point.
	bestScore, bestI = 0, queryPos-1
	bestIdent, ident = 0, 0
	cur = 0
	i, j = queryPos-1, targetPos-1
	for i >= 0 && j >= 0 {
		ql, tl := query[i], target[j]
		if ql.IsDelimiter() || tl.IsDelimiter() {
			break
		}
		cur += score(ql, tl)
		if countIdentity && ql == tl {
			ident++
		}
		if cur > bestScore {
			bestScore, bestI, bestIdent = cur, i, ident
		} else if cur < bestScore-xdrop {
			break
		}
		i--
		j--
	}
	leftBegin := bestI
	if bestScore == 0 {
		leftBegin = queryPos
	}

	totalScore := rightScore + bestScore
	length := rightEnd - leftBegin
	var totalIdent int32
	if countIdentity {
		totalIdent = rightIdent + bestIdent
	}
	return DiagonalSegment{
		I:     leftBegin,
		J:     leftBegin - (queryPos - targetPos),
		Len:   length,
		Score: totalScore,
		Ident: totalIdent,
	}
}

// ExtendAnchored is the xdrop-anchored variant used by WFA prep (spec
// §4.2): it extends from a precomputed anchor both directions and sums
// into a single segment located at (anchor.I - leftExtent, anchor.J -
// leftExtent, totalLen, totalScore).
func ExtendAnchored(query, target []seqalpha.Letter, anchor DiagonalSegment, score ScoreFunc, xdrop int32) DiagonalSegment {
	seg := Extend(query, target, anchor.I, anchor.J, score, xdrop, false)
	return DiagonalSegment{
		I:     seg.I,
		J:     seg.J,
		Len:   seg.Len,
		Score: seg.Score + anchor.Score,
	}
}
