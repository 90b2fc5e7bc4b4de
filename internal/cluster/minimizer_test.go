package cluster

import (
	"testing"

	"github.com/kshedden/prosearch/internal/seqalpha"
)

func encMin(s string) []seqalpha.Letter {
	out := make([]seqalpha.Letter, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = seqalpha.Encode(s[i])
	}
	return out
}

func TestSketchIteratorShorterThanKReturnsNil(t *testing.T) {
	si := NewSketchIterator(8, 4)
	seq := encMin("ACDE")
	if got := si.Sketch(seq); got != nil {
		t.Errorf("Sketch of a sequence shorter than k = %v, want nil", got)
	}
}

func TestSketchIteratorKeepsBottomS(t *testing.T) {
	si := NewSketchIterator(3, 2)
	seq := encMin("ACDEFGHIKLMN")
	hashes := si.Sketch(seq)
	if len(hashes) != 2 {
		t.Fatalf("len(Sketch) = %d, want 2", len(hashes))
	}
	if hashes[0].Hash > hashes[1].Hash {
		t.Errorf("Sketch not sorted ascending by hash: %v", hashes)
	}
}

func TestSketchIteratorCoversAllKmersWhenSUnbounded(t *testing.T) {
	si := NewSketchIterator(3, 0)
	seq := encMin("ACDEFGHIK")
	hashes := si.Sketch(seq)
	if got, want := len(hashes), len(seq)-3+1; got != want {
		t.Errorf("len(Sketch) = %d, want %d", got, want)
	}
}

func TestIsComplexThreshold(t *testing.T) {
	// A high entropy (4 bits/residue, near the log2(25) maximum) should clear any reasonable cutoff.
	if !IsComplex(4.0, 1, 0.1) {
		t.Error("high-entropy seed should be classified complex")
	}
	if IsComplex(0.0, 1, 0.5) {
		t.Error("zero-entropy (homopolymer) seed should not be classified complex")
	}
}
