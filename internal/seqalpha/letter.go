// Package seqalpha defines the internal residue alphabet shared by every
// stage of the pipeline: a fixed small integer encoding of the 20 standard
// amino acids plus ambiguity, masked, and delimiter codes.
package seqalpha

import "github.com/biogo/biogo/alphabet"

// Letter is one residue in the reduced internal alphabet.
type Letter byte

// Size is the number of Letter codes, DELIMITER (23) and MASKED (24)
// included.
const Size = 25

const (
	// DELIMITER sentinels the start and end of every stored sequence so
	// extension kernels can read up to 8 trailing bytes without a length
	// check (§3 SequenceSet invariant).
	DELIMITER Letter = 23

	// MASKED marks a low-complexity or soft-masked residue.
	MASKED Letter = 24

	// invalid is returned by encode for bytes outside the alphabet.
	invalid Letter = 0xff
)

// std is the biogo protein alphabet used to translate raw FASTA bytes into
// the internal Letter encoding. Reusing biogo's alphabet table keeps the
// amino-acid ordering consistent with the rest of the pack (kortschak-ins,
// kortschak-loopy both build on biogo/biogo/alphabet).
var std = alphabet.Protein

var encodeTable [256]Letter
var decodeTable [Size]byte

func init() {
	for i := range encodeTable {
		encodeTable[i] = invalid
	}
	letters := std.Letters()
	for i := 0; i < len(letters) && i < int(DELIMITER); i++ {
		b := letters[i]
		encodeTable[b] = Letter(i)
		encodeTable[lower(b)] = Letter(i)
		decodeTable[i] = b
	}
	decodeTable[DELIMITER] = '*'
	decodeTable[MASKED] = 'X'
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// Encode maps a raw FASTA byte to its internal Letter. Unknown residues map
// to MASKED rather than failing, matching the teacher's `subx` convention of
// substituting an ambiguity code for anything outside the known alphabet
// (muscato_prep_targets/main.go replaces non-ATGC with 'X').
func Encode(b byte) Letter {
	l := encodeTable[b]
	if l == invalid {
		return MASKED
	}
	return l
}

// Decode maps a Letter back to its printable byte.
func Decode(l Letter) byte {
	if int(l) >= Size {
		return '?'
	}
	return decodeTable[l]
}

// IsDelimiter reports whether l terminates a sequence.
func (l Letter) IsDelimiter() bool { return l == DELIMITER }
