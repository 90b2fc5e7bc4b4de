package cluster

import (
	"testing"

	"github.com/kshedden/prosearch/internal/fsx"
)

func readAllPairs(t *testing.T, fa *fsx.FileArray) []PairEntry {
	t.Helper()
	var out []PairEntry
	for b := 0; b < fa.NumBuckets(); b++ {
		rr, f, err := fsx.OpenBucketReader(fa.BucketPath(b))
		if err != nil {
			t.Fatalf("OpenBucketReader: %v", err)
		}
		for {
			raw, err := rr.Next()
			if err != nil {
				break
			}
			pe, err := DecodePairEntry(raw)
			if err != nil {
				t.Fatalf("DecodePairEntry: %v", err)
			}
			out = append(out, pe)
		}
		f.Close()
	}
	return out
}

func TestBuildPairsUniDirectionalPicksLongestAsRep(t *testing.T) {
	fa, err := fsx.NewFileArray(t.TempDir(), "pairs", 4)
	if err != nil {
		t.Fatalf("NewFileArray: %v", err)
	}
	entries := []SeedEntry{
		{Seed: 1, OId: 10, Len: 50},
		{Seed: 1, OId: 20, Len: 90},
		{Seed: 1, OId: 30, Len: 60},
	}
	if err := BuildPairs(entries, Params{Mode: UniDirectional}, fa); err != nil {
		t.Fatalf("BuildPairs: %v", err)
	}
	if err := fa.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	pairs := readAllPairs(t, fa)
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	for _, p := range pairs {
		if p.RepOId != 20 {
			t.Errorf("pair %+v should have rep oid 20 (longest record)", p)
		}
	}
}

func TestBuildPairsSkipsSingletonGroups(t *testing.T) {
	fa, err := fsx.NewFileArray(t.TempDir(), "pairs", 4)
	if err != nil {
		t.Fatalf("NewFileArray: %v", err)
	}
	entries := []SeedEntry{{Seed: 5, OId: 1, Len: 10}}
	if err := BuildPairs(entries, Params{Mode: UniDirectional}, fa); err != nil {
		t.Fatalf("BuildPairs: %v", err)
	}
	if err := fa.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if pairs := readAllPairs(t, fa); len(pairs) != 0 {
		t.Errorf("BuildPairs emitted %d pairs for a singleton seed group, want 0", len(pairs))
	}
}

func TestBuildPairsMutualRespectsLengthRatio(t *testing.T) {
	fa, err := fsx.NewFileArray(t.TempDir(), "pairs", 4)
	if err != nil {
		t.Fatalf("NewFileArray: %v", err)
	}
	entries := []SeedEntry{
		{Seed: 1, OId: 1, Len: 100},
		{Seed: 1, OId: 2, Len: 95},
		{Seed: 1, OId: 3, Len: 10}, // far too short to pair with the others
	}
	p := Params{Mode: Mutual, MinLengthRatio: 0.9}
	if err := BuildPairs(entries, p, fa); err != nil {
		t.Fatalf("BuildPairs: %v", err)
	}
	if err := fa.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	pairs := readAllPairs(t, fa)
	for _, pe := range pairs {
		if pe.RepOId == 3 || pe.MemberOId == 3 {
			t.Errorf("oid 3 should be excluded by the length ratio gate, got pair %+v", pe)
		}
	}
	if len(pairs) == 0 {
		t.Error("expected at least one pair between oids 1 and 2")
	}
}

func TestEncodeDecodePairEntryRoundTrip(t *testing.T) {
	pe := PairEntry{RepOId: 7, MemberOId: 99, RepLen: 120, MemberLen: 45}
	got, err := DecodePairEntry(EncodePairEntry(pe))
	if err != nil {
		t.Fatalf("DecodePairEntry error: %v", err)
	}
	if got != pe {
		t.Errorf("round trip = %+v, want %+v", got, pe)
	}
}

func TestDecodePairEntryMalformed(t *testing.T) {
	if _, err := DecodePairEntry([]byte{1, 2, 3}); err == nil {
		t.Error("expected an error decoding a short buffer")
	}
}
