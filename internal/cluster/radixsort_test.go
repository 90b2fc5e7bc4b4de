package cluster

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/kshedden/prosearch/internal/fsx"
)

func encodeSeedEntry(e SeedEntry) []byte {
	var b [20]byte
	binary.LittleEndian.PutUint64(b[0:8], e.Seed)
	binary.LittleEndian.PutUint64(b[8:16], e.OId)
	binary.LittleEndian.PutUint32(b[16:20], uint32(e.Len))
	return b[:]
}

func decodeSeedEntry(b []byte) (SeedEntry, error) {
	if len(b) != 20 {
		return SeedEntry{}, errMalformedRecord("SeedEntry", len(b), 20)
	}
	return SeedEntry{
		Seed: binary.LittleEndian.Uint64(b[0:8]),
		OId:  binary.LittleEndian.Uint64(b[8:16]),
		Len:  int32(binary.LittleEndian.Uint32(b[16:20])),
	}, nil
}

func writeSeedFile(t *testing.T, path string, entries []SeedEntry) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("os.Create: %v", err)
	}
	w := fsx.NewRecordWriter(f)
	for _, e := range entries {
		if err := w.Write(encodeSeedEntry(e)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	f.Close()
}

func readSortedSeedEntries(t *testing.T, vf fsx.VolumedFile) []SeedEntry {
	t.Helper()
	var out []SeedEntry
	for _, v := range vf.Volumes {
		rr, f, err := fsx.OpenBucketReader(v.Path)
		if err != nil {
			t.Fatalf("OpenBucketReader: %v", err)
		}
		for {
			raw, err := rr.Next()
			if err != nil {
				break
			}
			e, err := decodeSeedEntry(raw)
			if err != nil {
				t.Fatalf("decodeSeedEntry: %v", err)
			}
			out = append(out, e)
		}
		f.Close()
	}
	return out
}

func TestRadixSortInMemoryBranchSortsAscending(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seeds.sz")
	writeSeedFile(t, path, []SeedEntry{
		{Seed: 30, OId: 1, Len: 5},
		{Seed: 10, OId: 2, Len: 6},
		{Seed: 20, OId: 3, Len: 7},
	})

	vf, err := RadixSort(path, 0, encodeSeedEntry, decodeSeedEntry, dir, "bucket")
	if err != nil {
		t.Fatalf("RadixSort error: %v", err)
	}
	got := readSortedSeedEntries(t, vf)
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Seed > got[i].Seed {
			t.Errorf("entries not sorted ascending by seed: %+v", got)
		}
	}
}

func TestRadixSortEmptyInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.sz")
	writeSeedFile(t, path, nil)

	vf, err := RadixSort(path, 0, encodeSeedEntry, decodeSeedEntry, dir, "bucket")
	if err != nil {
		t.Fatalf("RadixSort error: %v", err)
	}
	if got := readSortedSeedEntries(t, vf); len(got) != 0 {
		t.Errorf("got %d entries, want 0", len(got))
	}
}
