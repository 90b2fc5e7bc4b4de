package scoring

import (
	"math"
	"testing"

	"github.com/kshedden/prosearch/internal/seqalpha"
)

func TestBlosum62Diagonal(t *testing.T) {
	m := Blosum62()
	for l := seqalpha.Letter(0); l < seqalpha.DELIMITER; l++ {
		if got := m.Score(l, l); got != 5 {
			t.Errorf("Score(%d,%d) = %d, want 5 (self-match)", l, l, got)
		}
	}
}

func TestBlosum62DelimiterAlwaysUnfavourable(t *testing.T) {
	m := Blosum62()
	for l := seqalpha.Letter(0); l < seqalpha.Letter(seqalpha.Size); l++ {
		if got := m.Score(seqalpha.DELIMITER, l); got >= 0 {
			t.Errorf("Score(DELIMITER, %d) = %d, want strongly negative", l, got)
		}
	}
}

func TestScoreOutOfRange(t *testing.T) {
	m := Blosum62()
	if got := m.Score(seqalpha.Letter(200), 0); got != 0 {
		t.Errorf("Score(200, 0) = %d, want 0", got)
	}
}

func TestBitScoreGappedVsUngapped(t *testing.T) {
	m := Blosum62()
	ungapped := BitScore(m, 100, false)
	gapped := BitScore(m, 100, true)
	if math.IsNaN(ungapped) || math.IsNaN(gapped) {
		t.Fatalf("BitScore produced NaN")
	}
}

func TestEValueMonotonicInBitScore(t *testing.T) {
	lo := EValue(10, 1e6)
	hi := EValue(50, 1e6)
	if hi >= lo {
		t.Errorf("EValue(50,...) = %g should be less than EValue(10,...) = %g", hi, lo)
	}
}

func TestEValueNonPositiveSearchSpace(t *testing.T) {
	if got := EValue(10, 0); !math.IsInf(got, 1) {
		t.Errorf("EValue with zero search space = %g, want +Inf", got)
	}
}

func TestWidthSelection(t *testing.T) {
	m := Blosum62()
	if got := m.Width(100); got != 8 {
		t.Errorf("Width(100) = %d, want 8", got)
	}
	if got := m.Width(1000); got != 16 {
		t.Errorf("Width(1000) = %d, want 16", got)
	}
}
