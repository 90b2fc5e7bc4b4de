package cluster

import (
	"math"
	"sort"

	"github.com/chmduquesne/rollinghash/buzhash32"
	"github.com/kshedden/prosearch/internal/seqalpha"
	"github.com/spaolacci/murmur3"
)

// SketchIterator enumerates the bottom-s MurmurHash sketch of a
// sequence's k-mers (spec §4.6(a)), grounded on the rolling buzhash32
// window scan in muscato_screen.go's readScan — generalized from "32-bit
// rolling hash feeds a Bloom-filter membership test" to "32-bit rolling
// hash seeds the window, murmur3 of the window ranks it for the
// bottom-s selection".
type SketchIterator struct {
	k int
	s int
}

// NewSketchIterator returns a SketchIterator over k-mers, keeping the s
// lowest-hashed per sequence.
func NewSketchIterator(k, s int) SketchIterator {
	return SketchIterator{k: k, s: s}
}

// Sketch returns the bottom-s murmur3 hashes of every k-mer of seq,
// paired with the k-mer's starting offset.
func (si SketchIterator) Sketch(seq []seqalpha.Letter) []SeedHash {
	if len(seq) < si.k {
		return nil
	}
	bh := buzhash32.New()
	buf := make([]byte, si.k)
	for i := 0; i < si.k; i++ {
		buf[i] = byte(seq[i])
	}
	bh.Write(buf)

	hashes := make([]SeedHash, 0, len(seq)-si.k+1)
	hashes = append(hashes, SeedHash{Hash: murmur3.Sum64(buf), Pos: 0})

	for i := si.k; i < len(seq); i++ {
		bh.Roll(byte(seq[i]))
		w := make([]byte, si.k)
		for j := 0; j < si.k; j++ {
			w[j] = byte(seq[i-si.k+1+j])
		}
		hashes = append(hashes, SeedHash{Hash: murmur3.Sum64(w), Pos: int32(i - si.k + 1)})
	}

	sort.Slice(hashes, func(i, j int) bool { return hashes[i].Hash < hashes[j].Hash })
	if si.s > 0 && len(hashes) > si.s {
		hashes = hashes[:si.s]
	}
	return hashes
}

// SeedHash is one ranked k-mer hash with its offset in the source
// sequence.
type SeedHash struct {
	Hash uint64
	Pos  int32
}

// IsComplex reports whether a seed passes the low-complexity filter
// threshold approximately ln(2)*shape_weight*seed_cut (spec §4.6(a)).
// entropy is the Shannon entropy (bits/residue) of the seed window,
// computed by the caller from its residue composition.
func IsComplex(entropy float64, shapeWeight int, seedCut float64) bool {
	threshold := math.Ln2 * float64(shapeWeight) * seedCut
	return entropy*float64(shapeWeight) >= threshold
}
