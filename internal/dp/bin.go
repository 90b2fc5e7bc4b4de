package dp

// Bin identifies one of the 6 (data-width, score-mode, algorithm)
// combinations DpTargets are routed to before DP (spec §4.4.1). All
// DpTargets assigned the same Bin are processed together so that SIMD-style
// lanes are filled; an unfilled lane is represented by a nil target
// (spec's BLANK sentinel) inside Run.
type Bin int

const (
	// BinByteScoreOnly: 8-bit lane, score only, no traceback.
	BinByteScoreOnly Bin = iota
	// BinShortScoreOnly: 16-bit lane, score only.
	BinShortScoreOnly
	// BinByteTraceback: 8-bit lane with packed per-cell traceback.
	BinByteTraceback
	// BinShortTraceback: 16-bit lane, short (run-length) traceback.
	BinShortTraceback
	// BinFullMatrixByte: explicit full-matrix mode, byte scores.
	BinFullMatrixByte
	// BinFullMatrixShort: explicit full-matrix mode, short scores.
	BinFullMatrixShort
)

// MaxSwipeDPCells is the `max_swipe_dp` cutoff from spec §4.4.1: bands with
// at most this many cells use the byte lane absent traceback.
const MaxSwipeDPCells = 1 << 20

// SelectBinParams carries the bin-selection inputs named in spec §4.4.1.
type SelectBinParams struct {
	Band            int32 // 0 means full matrix (band covers whole matrix)
	QueryLen        int32
	ScoreHint       int32
	UngappedScore   int32
	DPCells         int64
	MatrixWidth     int // forced width from CBS, 0 if none
	MismatchEstimate int32
	WantTraceback   bool
	ForceFull       bool
}

// SelectBin implements spec §4.4.1's design rules:
//   - dp_cells <= max_swipe_dp AND no traceback -> 8-bit lane; else 16-bit.
//   - Matrix width (CBS) forces at least matching width.
//   - If transcript requested and band <= 256 and scores fit byte ->
//     byte-traceback bin; otherwise short-traceback bin; otherwise full-matrix.
func SelectBin(p SelectBinParams) Bin {
	if p.ForceFull || p.Band == 0 {
		if fitsByte(p) {
			return BinFullMatrixByte
		}
		return BinFullMatrixShort
	}

	if p.WantTraceback {
		if p.Band <= 256 && fitsByte(p) {
			return BinByteTraceback
		}
		return BinShortTraceback
	}

	if p.DPCells <= MaxSwipeDPCells && fitsByte(p) {
		return BinByteScoreOnly
	}
	return BinShortScoreOnly
}

func fitsByte(p SelectBinParams) bool {
	if p.MatrixWidth == 16 {
		return false
	}
	return p.ScoreHint <= 127 && p.ScoreHint >= -128 && p.UngappedScore <= 127
}

// LaneWidth reports the SIMD-style lane count for a given bin: 8 lanes for
// byte-wide bins, 4 for short-wide bins, matching spec §4.4.1's "4 or 8
// wide depending on element size".
func LaneWidth(b Bin) int {
	switch b {
	case BinByteScoreOnly, BinByteTraceback, BinFullMatrixByte:
		return 8
	default:
		return 4
	}
}
