package align

import "github.com/kshedden/prosearch/internal/seqalpha"

// TrivialLengthTolerance is the length-difference cutoff at which §4.5
// step 1's "trivial alignments" shortcut applies: query and target differ
// in length by at most this many residues, so a direct banded scan
// (rather than the full seed/chain/DP pipeline) suffices. Grounded on
// src/align/kmer_filter.cpp (original_source).
const TrivialLengthTolerance = 3

// TrivialScan runs a direct banded ungapped scan over the small set of
// diagonals implied by a length difference within TrivialLengthTolerance,
// short-circuiting full chaining for near-identical-length pairs.
func TrivialScan(query, target []seqalpha.Letter, score func(a, b seqalpha.Letter) int32) (bestScore int32, bestOffset int32) {
	diff := len(query) - len(target)
	if diff < -TrivialLengthTolerance || diff > TrivialLengthTolerance {
		return 0, 0
	}
	best := int32(-1 << 30)
	var bestOff int32
	for d := -TrivialLengthTolerance; d <= TrivialLengthTolerance; d++ {
		var s int32
		for i := 0; i < len(query); i++ {
			j := i - d
			if j < 0 || j >= len(target) {
				continue
			}
			ql, tl := query[i], target[j]
			if ql.IsDelimiter() || tl.IsDelimiter() {
				continue
			}
			s += score(ql, tl)
		}
		if s > best {
			best, bestOff = s, int32(d)
		}
	}
	return best, bestOff
}
