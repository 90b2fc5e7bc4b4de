// Package seqset implements the borrowed-span Sequence and the append-only
// SequenceSet arena that owns its backing Letter bytes, per spec §3.
package seqset

import (
	"sort"

	"github.com/kshedden/prosearch/internal/seqalpha"
)

// Sequence is a borrowed span of Letters in an immutable arena. It never
// owns its buffer — the owning arena is always a *SequenceSet.
type Sequence struct {
	data []seqalpha.Letter
}

// Len returns the number of letters, excluding the bracketing delimiters.
func (s Sequence) Len() int { return len(s.data) }

// At returns the i'th letter of the sequence.
func (s Sequence) At(i int) seqalpha.Letter { return s.data[i] }

// Slice returns the raw backing letters (read-only).
func (s Sequence) Slice() []seqalpha.Letter { return s.data }

// SequenceSet is an append-only contiguous arena of Letter bytes plus a
// limits array of cumulative offsets, mirroring spec §3. Sequences are
// packed back-to-back, each bracketed by a single DELIMITER byte shared
// with its neighbour, so reading one byte past any sequence's end always
// lands on a DELIMITER. A further 8-byte DELIMITER pad trails the whole
// arena so extension kernels may overread the final sequence without a
// length check.
type SequenceSet struct {
	data   []seqalpha.Letter
	limits []int // limits[i], limits[i+1] bracket sequence i's letters (delimiters excluded)
}

// NewSequenceSet returns an empty arena ready for Append calls, already
// seeded with the opening DELIMITER.
func NewSequenceSet() *SequenceSet {
	return &SequenceSet{data: []seqalpha.Letter{seqalpha.DELIMITER}, limits: []int{0}}
}

// Append adds a new sequence built from raw residue bytes and returns its
// index.
func (s *SequenceSet) Append(raw []byte) int {
	for _, b := range raw {
		s.data = append(s.data, seqalpha.Encode(b))
	}
	s.data = append(s.data, seqalpha.DELIMITER)
	s.limits = append(s.limits, len(s.data)-1)
	return len(s.limits) - 2
}

// Finalize pads the arena with 8 trailing DELIMITER bytes. Call once after
// the last Append.
func (s *SequenceSet) Finalize() {
	for i := 0; i < 8; i++ {
		s.data = append(s.data, seqalpha.DELIMITER)
	}
}

// Len is the number of sequences stored.
func (s *SequenceSet) Len() int { return len(s.limits) - 1 }

// Get returns the Sequence at index i.
func (s *SequenceSet) Get(i int) Sequence {
	begin, end := s.limits[i]+1, s.limits[i+1]
	return Sequence{data: s.data[begin:end]}
}

// RawAt returns the letter at absolute arena offset o, including the
// delimiter/pad bytes outside any registered sequence span.
func (s *SequenceSet) RawAt(o int) seqalpha.Letter { return s.data[o] }

// Limits exposes the cumulative offset table for callers that need to
// locate an owning sequence from a raw global offset, per §4.1's seed-hit
// loader contract. limits[i] is the offset of the DELIMITER immediately
// preceding sequence i; limits[i+1] is the offset of the DELIMITER
// immediately following it.
func (s *SequenceSet) Limits() []int { return s.limits }

// Locate performs a binary search over limits to find the sequence index
// owning raw offset o. o must lie within [limits[0], limits[len-1]).
func (s *SequenceSet) Locate(o int) int {
	i := sort.Search(len(s.limits), func(i int) bool { return s.limits[i] > o })
	if i == 0 || i >= len(s.limits) {
		panic("seqset: offset out of range")
	}
	return i - 1
}
