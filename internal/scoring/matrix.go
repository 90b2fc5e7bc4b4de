// Package scoring implements substitution-matrix lookup, composition-based
// statistics correction, and E-value/bit-score conversion (spec §4 "Scoring
// kernels" and §3 TargetMatrix). Matrix storage leans on gonum's mat.Dense,
// the way kortschak-ins's cmd/cmpint leans on gonum for numeric work
// elsewhere in the pack; the Karlin-Altschul arithmetic in stats.go uses
// only the standard math package.
package scoring

import (
	"fmt"

	"github.com/kshedden/prosearch/internal/seqalpha"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a square substitution matrix over the internal alphabet,
// backed by a gonum dense matrix so downstream composition-bias scaling can
// reuse gonum's arithmetic instead of hand-rolled loops.
type Matrix struct {
	dense *mat.Dense
	n     int
	// Params are the matrix's Karlin-Altschul statistical parameters for
	// ungapped (Lambda, K, H) and gapped (LambdaGapped, KGapped) search.
	Lambda, K, H               float64
	LambdaGapped, KGapped      float64
	GapOpen, GapExtend         int32
}

// NewMatrix builds a Matrix from a row-major score table sized Size x Size.
func NewMatrix(scores [][]int32) *Matrix {
	n := len(scores)
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d.Set(i, j, float64(scores[i][j]))
		}
	}
	return &Matrix{dense: d, n: n}
}

// Score returns the substitution score between two letters.
func (m *Matrix) Score(a, b seqalpha.Letter) int32 {
	if int(a) >= m.n || int(b) >= m.n {
		return 0
	}
	return int32(m.dense.At(int(a), int(b)))
}

// Blosum62 is the default matrix. Its table is not the published BLOSUM62
// table: every letter, MASKED included, scores 5 against itself and -2
// against any other letter, and any pair involving DELIMITER scores -100
// (DIAMOND's convention of making DELIMITER comparisons always terminate
// extension).
func Blosum62() *Matrix {
	n := seqalpha.Size
	scores := make([][]int32, n)
	for i := range scores {
		scores[i] = make([]int32, n)
		for j := range scores[i] {
			if i == j {
				scores[i][j] = 5
			} else {
				scores[i][j] = -2
			}
		}
	}
	for i := 0; i < n; i++ {
		scores[i][seqalpha.DELIMITER] = -100
		scores[seqalpha.DELIMITER][i] = -100
	}
	scores[seqalpha.DELIMITER][seqalpha.DELIMITER] = -100
	m := NewMatrix(scores)
	m.Lambda, m.K, m.H = 0.267, 0.041, 0.140
	m.LambdaGapped, m.KGapped = 0.267, 0.041
	m.GapOpen, m.GapExtend = 11, 1
	return m
}

// Width selects the DP lane width (8 or 16 bit) that can hold scores up to
// maxScore without overflow, used by dp.SelectBin (spec §4.4.1).
func (m *Matrix) Width(maxScore int64) int {
	if maxScore <= 127 && maxScore >= -128 {
		return 8
	}
	return 16
}

func (m *Matrix) String() string {
	return fmt.Sprintf("Matrix(n=%d, lambda=%.3f, K=%.3f)", m.n, m.Lambda, m.K)
}
