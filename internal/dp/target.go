// Package dp implements the banded and full-matrix Smith-Waterman lanes
// (spec §4.4.1, §4.4.2, §4.4.4), grounded on src/dp/banded_sw.cpp and
// padded_banded_sw.cpp (original_source) for the H/E/F recurrence, and on
// github.com/biogo/biogo/align's Smith-Waterman shape (kortschak-loopy)
// for the two-state DP table layout.
package dp

import (
	"github.com/kshedden/prosearch/internal/scoring"
	"github.com/kshedden/prosearch/internal/seqalpha"
)

// Target is one entry in a DP batch (spec §3 DpTarget): the target
// sequence, band bounds, an optional composition-adjusted matrix, and the
// target's position in the batch it came from.
type Target struct {
	Target       []seqalpha.Letter
	DBegin, DEnd int32 // band bounds (diagonal range); DBegin==DEnd==0 means full matrix
	Cols         int32
	TargetRangeHint [2]int32
	Anchor       [2]int32 // (i, j) anchor used by anchored swipe, if any
	Matrix       *scoring.TargetMatrix
	BatchIndex   int
}

// BandWidth is DEnd - DBegin, or 0 if this target uses the full matrix.
func (t *Target) BandWidth() int32 {
	if t.DEnd == 0 && t.DBegin == 0 {
		return 0
	}
	return t.DEnd - t.DBegin
}

// bandBin, colBin quantize band width/column count for bin-packing two
// DpTargets for SIMD lane comparability (spec §3 "comparable for bin
// packing by (band/band_bin, cols/col_bin, left_query_anchor)").
const bandBinSize = 32
const colBinSize = 64

// PackKey returns the tuple DpTargets are bin-packed by.
func (t *Target) PackKey() (bandBin, colBin, leftAnchor int32) {
	return t.BandWidth() / bandBinSize, t.Cols / colBinSize, t.Anchor[0]
}
