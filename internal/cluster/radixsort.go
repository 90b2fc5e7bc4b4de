package cluster

import (
	"os"
	"sort"

	"github.com/kshedden/prosearch/internal/fsx"
)

// RadixBits is the number of high bits of a seed/oid hash used to select
// a bucket at each partitioning level (spec §8 "radix bucket invariant").
const RadixBits = 8

// InMemorySortLimit bounds how many SeedEntry records a bucket may hold
// before RadixSort recurses into a finer partition instead of sorting in
// place (spec §4.6(b)).
const InMemorySortLimit = 1 << 20

// RadixSort externally sorts one bucket's worth of SeedEntry records by
// Seed: if the bucket fits in memory, it is decoded, sorted, and
// rewritten; otherwise it is re-partitioned on the next lower RadixBits
// and each sub-bucket is sorted recursively (spec §4.6(b)).
func RadixSort(path string, shift uint, encode func(SeedEntry) []byte, decode func([]byte) (SeedEntry, error), dir, prefix string) (fsx.VolumedFile, error) {
	entries, err := readSeedEntries(path, decode)
	if err != nil {
		return fsx.VolumedFile{}, err
	}

	if len(entries) <= InMemorySortLimit || shift == 0 {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Seed < entries[j].Seed })
		out := path + ".sorted"
		if err := writeSeedEntries(out, entries, encode); err != nil {
			return fsx.VolumedFile{}, err
		}
		return fsx.VolumedFile{Volumes: []fsx.Volume{{Path: out, RecordCount: int64(len(entries))}}}, nil
	}

	nextShift := shift - RadixBits
	if shift < RadixBits {
		nextShift = 0
	}
	fa, err := fsx.NewFileArray(dir, prefix, 1<<RadixBits)
	if err != nil {
		return fsx.VolumedFile{}, err
	}
	for _, e := range entries {
		key := (e.Seed >> nextShift) & ((1 << RadixBits) - 1)
		if err := fa.Put(key, encode(e)); err != nil {
			fa.Close()
			return fsx.VolumedFile{}, err
		}
	}
	if err := fa.Close(); err != nil {
		return fsx.VolumedFile{}, err
	}

	var out fsx.VolumedFile
	for b := 0; b < fa.NumBuckets(); b++ {
		sub, err := RadixSort(fa.BucketPath(b), nextShift, encode, decode, dir, prefix)
		if err != nil {
			return fsx.VolumedFile{}, err
		}
		out.Volumes = append(out.Volumes, sub.Volumes...)
	}
	return out, nil
}

func readSeedEntries(path string, decode func([]byte) (SeedEntry, error)) ([]SeedEntry, error) {
	rr, f, err := fsx.OpenBucketReader(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []SeedEntry
	for {
		raw, err := rr.Next()
		if err != nil {
			break
		}
		e, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func writeSeedEntries(path string, entries []SeedEntry, encode func(SeedEntry) []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := fsx.NewRecordWriter(f)
	for _, e := range entries {
		if err := w.Write(encode(e)); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}
