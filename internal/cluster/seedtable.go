package cluster

import (
	"encoding/binary"
	"math"

	"github.com/golang-collections/go-datastructures/bitarray"
	"github.com/kshedden/prosearch/internal/fsx"
	"github.com/kshedden/prosearch/internal/seqalpha"
	"github.com/willf/bloom"
)

// SeedTableBuilder runs spec §4.6(a): stream sequences, enumerate seeds
// via SketchIterator, drop low-complexity or already-seen seeds, and emit
// SeedEntry records into a radix-partitioned FileArray keyed by the
// seed's high bits. Grounded on the Bloom-filter pre-screen in
// muscato_screen.go (bloom.NewWithEstimates sized by NumHash/BloomSize)
// used here to suppress duplicate (seed, oid) pairs within one sequence
// rather than duplicate reads.
type SeedTableBuilder struct {
	sketch SketchIterator
	params Params
	fa     *fsx.FileArray

	seen     *bloom.BloomFilter
	mask     bitarray.BitArray // memoizes seed_is_complex verdicts per k-mer hash bucket
	maskSize uint64
}

// NewSeedTableBuilder returns a builder writing into dir/prefix.*.sz,
// radix-partitioned over numBuckets.
func NewSeedTableBuilder(k, s int, p Params, dir, prefix string) (*SeedTableBuilder, error) {
	fa, err := fsx.NewFileArray(dir, prefix, p.NumBuckets)
	if err != nil {
		return nil, err
	}
	const maskSize = 1 << 24
	return &SeedTableBuilder{
		sketch:   NewSketchIterator(k, s),
		params:   p,
		fa:       fa,
		seen:     bloom.NewWithEstimates(1<<20, 0.001),
		mask:     bitarray.NewBitArray(maskSize),
		maskSize: maskSize,
	}, nil
}

// AddSequence enumerates oid's bottom-s sketch, drops low-complexity or
// within-sequence duplicate seeds, and emits the survivors.
func (b *SeedTableBuilder) AddSequence(oid OId, seq []seqalpha.Letter) error {
	for _, sh := range b.sketch.Sketch(seq) {
		bit := sh.Hash % b.maskSize
		known, _ := b.mask.GetBit(bit)
		if !known {
			window := windowAt(seq, sh.Pos, b.sketch.k)
			if !IsComplex(entropyOf(window), b.params.ShapeWeight, b.params.SeedCut) {
				continue
			}
			b.mask.SetBit(bit)
		}
		key := seedKey(oid, sh.Hash)
		if b.seen.Test(key) {
			continue
		}
		b.seen.Add(key)

		e := SeedEntry{Seed: sh.Hash, OId: oid, Len: int32(len(seq))}
		if err := b.fa.Put(sh.Hash, EncodeSeedEntry(e)); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes the underlying FileArray.
func (b *SeedTableBuilder) Close() error {
	return b.fa.Close()
}

func windowAt(seq []seqalpha.Letter, pos int32, k int) []seqalpha.Letter {
	end := int(pos) + k
	if end > len(seq) {
		end = len(seq)
	}
	return seq[pos:end]
}

func entropyOf(window []seqalpha.Letter) float64 {
	var counts [seqalpha.Size]int
	for _, l := range window {
		counts[l]++
	}
	n := float64(len(window))
	if n == 0 {
		return 0
	}
	var h float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}

func seedKey(oid OId, hash uint64) []byte {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], oid)
	binary.LittleEndian.PutUint64(b[8:], hash)
	return b[:]
}

// EncodeSeedEntry serializes a SeedEntry to its fixed-width wire form.
func EncodeSeedEntry(e SeedEntry) []byte {
	var b [20]byte
	binary.LittleEndian.PutUint64(b[0:8], e.Seed)
	binary.LittleEndian.PutUint64(b[8:16], e.OId)
	binary.LittleEndian.PutUint32(b[16:20], uint32(e.Len))
	return b[:]
}

// DecodeSeedEntry parses the wire form EncodeSeedEntry produces.
func DecodeSeedEntry(b []byte) (SeedEntry, error) {
	if len(b) != 20 {
		return SeedEntry{}, errMalformedRecord("SeedEntry", len(b), 20)
	}
	return SeedEntry{
		Seed: binary.LittleEndian.Uint64(b[0:8]),
		OId:  binary.LittleEndian.Uint64(b[8:16]),
		Len:  int32(binary.LittleEndian.Uint32(b[16:20])),
	}, nil
}
