package cluster

import "testing"

func TestHyperLogLogEstimateNearActualCount(t *testing.T) {
	h := NewHyperLogLog()
	const n = 5000
	for i := uint64(0); i < n; i++ {
		h.Add(i)
	}
	est := h.Estimate()
	// HyperLogLog at hllPrecision=12 has ~1.6% standard error; allow generous slack.
	lo, hi := uint64(n*80/100), uint64(n*120/100)
	if est < lo || est > hi {
		t.Errorf("Estimate() = %d, want within [%d, %d] of actual %d", est, lo, hi, n)
	}
}

func TestHyperLogLogResetClearsRegisters(t *testing.T) {
	h := NewHyperLogLog()
	for i := uint64(0); i < 1000; i++ {
		h.Add(i)
	}
	h.Reset()
	for _, r := range h.registers {
		if r != 0 {
			t.Fatal("Reset did not clear all registers")
		}
	}
	if est := h.Estimate(); est > 10 {
		t.Errorf("Estimate() after Reset = %d, want near 0", est)
	}
}

func TestHyperLogLogAddWeightedIncreasesEstimate(t *testing.T) {
	h := NewHyperLogLog()
	h.AddWeighted(1, 64*10)
	if h.Estimate() == 0 {
		t.Error("AddWeighted should register at least one observation")
	}
}
