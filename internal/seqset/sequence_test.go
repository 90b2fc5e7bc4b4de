package seqset

import (
	"testing"

	"github.com/kshedden/prosearch/internal/seqalpha"
)

func TestSequenceSetAppendAndGet(t *testing.T) {
	ss := NewSequenceSet()
	i0 := ss.Append([]byte("ACDE"))
	i1 := ss.Append([]byte("FGHIK"))
	ss.Finalize()

	if i0 != 0 || i1 != 1 {
		t.Fatalf("indices = %d, %d, want 0, 1", i0, i1)
	}
	if ss.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ss.Len())
	}
	s0 := ss.Get(0)
	if s0.Len() != 4 {
		t.Errorf("Get(0).Len() = %d, want 4", s0.Len())
	}
	if got := seqalpha.Decode(s0.At(0)); got != 'A' {
		t.Errorf("Get(0).At(0) decodes to %q, want 'A'", got)
	}
}

func TestSequenceSetDelimiterBracketing(t *testing.T) {
	ss := NewSequenceSet()
	ss.Append([]byte("AC"))
	ss.Finalize()
	s := ss.Get(0)
	// One past the sequence end must land on a delimiter.
	limits := ss.Limits()
	if got := ss.RawAt(limits[1]); !got.IsDelimiter() {
		t.Errorf("RawAt(limits[1]) = %v, want DELIMITER", got)
	}
	_ = s
}

func TestSequenceSetLocate(t *testing.T) {
	ss := NewSequenceSet()
	ss.Append([]byte("ACDE"))
	ss.Append([]byte("FGHIK"))
	ss.Finalize()

	limits := ss.Limits()
	mid := limits[1] + 1 // first residue of sequence 1
	if got := ss.Locate(mid); got != 1 {
		t.Errorf("Locate(%d) = %d, want 1", mid, got)
	}
}

func TestSequenceSetLocateOutOfRangePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Locate did not panic on an out-of-range offset")
		}
	}()
	ss := NewSequenceSet()
	ss.Append([]byte("AC"))
	ss.Finalize()
	ss.Locate(1 << 20)
}
