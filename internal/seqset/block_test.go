package seqset

import (
	"bufio"
	"io"
	"strings"
	"testing"
)

func TestBlockAddSequenceAndOIdOf(t *testing.T) {
	b := NewBlock()
	id0 := b.AddSequence("seq0", 100, []byte("ACDE"), nil)
	id1 := b.AddSequence("seq1", 101, []byte("FGHIK"), nil)
	b.Finalize()

	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	if b.OIdOf(id0) != 100 {
		t.Errorf("OIdOf(id0) = %d, want 100", b.OIdOf(id0))
	}
	if b.OIdOf(id1) != 101 {
		t.Errorf("OIdOf(id1) = %d, want 101", b.OIdOf(id1))
	}
	if b.Titles[0] != "seq0" {
		t.Errorf("Titles[0] = %q, want \"seq0\"", b.Titles[0])
	}
}

func TestBlockOIdOfOutOfRangePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("OIdOf did not panic for an out-of-range BlockId")
		}
	}()
	b := NewBlock()
	b.OIdOf(5)
}

func TestBlockUnmaskedLockstep(t *testing.T) {
	b := NewBlock()
	b.AddSequence("s", 1, []byte("ACDE"), []byte("ACDX"))
	if b.Unmasked == nil {
		t.Fatal("Unmasked set should be created once an unmasked sequence is added")
	}
	if b.Unmasked.Len() != 1 {
		t.Errorf("Unmasked.Len() = %d, want 1", b.Unmasked.Len())
	}
}

func TestScanFasta(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(">seq1\nACDE\nFGH\n>seq2\nIKLM\n"))
	rec1, err := ScanFasta(r)
	if err != nil {
		t.Fatalf("ScanFasta(rec1) error: %v", err)
	}
	if rec1.Title != "seq1" {
		t.Errorf("rec1.Title = %q, want \"seq1\"", rec1.Title)
	}
	if string(rec1.Seq) != "ACDEFGH" {
		t.Errorf("rec1.Seq = %q, want \"ACDEFGH\"", rec1.Seq)
	}

	rec2, err := ScanFasta(r)
	if err != nil {
		t.Fatalf("ScanFasta(rec2) error: %v", err)
	}
	if rec2.Title != "seq2" || string(rec2.Seq) != "IKLM" {
		t.Errorf("rec2 = %+v, want title seq2 seq IKLM", rec2)
	}

	if _, err := ScanFasta(r); err != io.EOF {
		t.Errorf("ScanFasta at end of input returned %v, want io.EOF", err)
	}
}
