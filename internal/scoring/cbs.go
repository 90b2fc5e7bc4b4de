package scoring

import (
	"math"

	"github.com/kshedden/prosearch/internal/seqalpha"
)

// TargetMatrix is a compositionally-adjusted substitution matrix for a
// specific (query, target) pair (spec §3). Width is 8 or 16 depending on
// whether adjusted scores still fit a byte lane.
type TargetMatrix struct {
	Base  *Matrix
	Scale float64 // multiplicative scaling applied to Base.Score before rounding
	Width int
}

// Composition is a residue-frequency vector over the alphabet.
type Composition [seqalpha.Size]float64

// ComputeComposition tallies residue frequencies, grounded on
// src/dp/comp_based_stats.cpp's composition counting pass (original_source).
func ComputeComposition(letters []seqalpha.Letter) Composition {
	var c Composition
	var total float64
	for _, l := range letters {
		if int(l) < seqalpha.Size {
			c[l]++
			total++
		}
	}
	if total == 0 {
		return c
	}
	for i := range c {
		c[i] /= total
	}
	return c
}

// AdjustMatrix applies a simplified composition-based statistics correction
// (in the spirit of comp-based-stats mode 1, the simplest of the
// `--comp-based-stats {0,1,2,3,4}` family named in spec §6): it computes the
// average substitution score implied by the query/target compositions and,
// when that average is outside [-0.01, 0.01], scales the whole base matrix
// by 1/(1+|avg|/10). The scaling shrinks the compositional bias but does
// not remove it: the scaled matrix's average score keeps its sign.
func AdjustMatrix(base *Matrix, query, target Composition, maxRawScore int64) *TargetMatrix {
	var avg float64
	for i := 0; i < seqalpha.Size; i++ {
		if query[i] == 0 {
			continue
		}
		for j := 0; j < seqalpha.Size; j++ {
			if target[j] == 0 {
				continue
			}
			avg += query[i] * target[j] * float64(base.Score(seqalpha.Letter(i), seqalpha.Letter(j)))
		}
	}

	scale := 1.0
	if avg > 0.01 || avg < -0.01 {
		// Shift toward zero mean by damping the matrix proportionally;
		// a simplified stand-in for the full Newton-iteration rescaling
		// the original CBS implementation performs.
		scale = 1.0 / (1.0 + math.Abs(avg)/10.0)
	}

	width := 16
	if float64(maxRawScore)*scale <= 127 {
		width = 8
	}
	return &TargetMatrix{Base: base, Scale: scale, Width: width}
}

// Score returns the composition-adjusted substitution score.
func (t *TargetMatrix) Score(a, b seqalpha.Letter) int32 {
	raw := t.Base.Score(a, b)
	return int32(math.Round(float64(raw) * t.Scale))
}
