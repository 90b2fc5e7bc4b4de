package fsx

import (
	"path/filepath"
	"testing"
)

func TestAtomicCounterStartsAtZero(t *testing.T) {
	c, err := OpenAtomicCounter(filepath.Join(t.TempDir(), "counter"))
	if err != nil {
		t.Fatalf("OpenAtomicCounter error: %v", err)
	}
	got, err := c.Next(5)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if got != 0 {
		t.Errorf("first Next(5) returned %d, want 0 (pre-increment value)", got)
	}
}

func TestAtomicCounterAccumulatesAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter")
	c, err := OpenAtomicCounter(path)
	if err != nil {
		t.Fatalf("OpenAtomicCounter error: %v", err)
	}
	if _, err := c.Next(10); err != nil {
		t.Fatalf("Next error: %v", err)
	}
	got, err := c.Next(3)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if got != 10 {
		t.Errorf("second Next(3) returned %d, want 10", got)
	}
}

func TestAtomicCounterPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter")
	c1, err := OpenAtomicCounter(path)
	if err != nil {
		t.Fatalf("OpenAtomicCounter error: %v", err)
	}
	if _, err := c1.Next(7); err != nil {
		t.Fatalf("Next error: %v", err)
	}

	c2, err := OpenAtomicCounter(path)
	if err != nil {
		t.Fatalf("OpenAtomicCounter (reopen) error: %v", err)
	}
	got, err := c2.Next(0)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if got != 7 {
		t.Errorf("counter value after reopen = %d, want 7", got)
	}
}
