package chain

import (
	"github.com/kshedden/prosearch/internal/seqalpha"
	"github.com/kshedden/prosearch/internal/ungapped"
)

// HammingExt is the "hamming_ext" fast path (spec §4.3): for query/target
// pairs of near-equal length it estimates the Hamming-like score along a
// single diagonal and short-circuits full chaining. lengthTolerance bounds
// how close |len(query)-len(target)| must be for the fast path to apply.
func HammingExt(query, target []seqalpha.Letter, score func(a, b seqalpha.Letter) int32, lengthTolerance int) (ApproxHsp, bool) {
	if abs(len(query)-len(target)) > lengthTolerance {
		return ApproxHsp{}, false
	}
	n := len(query)
	if len(target) < n {
		n = len(target)
	}
	var total int32
	var matched int32
	for i := 0; i < n; i++ {
		q, t := query[i], target[i]
		if q.IsDelimiter() || t.IsDelimiter() {
			n = i
			break
		}
		total += score(q, t)
		if q == t {
			matched++
		}
	}
	return ApproxHsp{
		DMin: 0, DMax: 0,
		Score:        total,
		QueryBegin:   0,
		QueryEnd:     int32(n),
		SubjectBegin: 0,
		SubjectEnd:   int32(n),
		MaxDiag:      ungapped.DiagonalSegment{I: 0, J: 0, Len: int32(n), Score: total},
	}, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
