// Package seed implements the SeedHit data model, the FlatArray grouping
// container, and the seed-hit loader (spec §3, §4.1).
package seed

import (
	"encoding/binary"
	"fmt"
)

// RawHitSize is the little-endian wire size of one RawHit record
// (spec §6): u32 query + u64 subject_offset + i32 seed_offset + u8 score.
const RawHitSize = 4 + 8 + 4 + 1

// Hit is one seed hit: a (query, target) position pair where a short
// k-mer matched, per spec §3 SeedHit.
type Hit struct {
	QueryPos  int32
	TargetPos int32
	Score     int16
	Frame     uint8
}

// Diag returns the anti-diagonal of the DP matrix this hit lies on.
func (h Hit) Diag() int32 { return h.QueryPos - h.TargetPos }

// RawHit is the wire shape produced by the external seed indexer (spec §6):
// query/subject are global offsets into the shared SequenceSet arenas, and
// Score == 0xFF signals overflow (resolved later by a windowed rescan).
type RawHit struct {
	Query         uint32
	SubjectOffset uint64
	SeedOffset    int32
	Score         uint8
}

// ScoreOverflow is the sentinel raw hit score meaning "recompute by
// ungapped windowed scan before using" (spec §3 TargetScore).
const ScoreOverflow uint8 = 0xFF

// EncodeRawHit serializes h to the spec §6 wire layout.
func EncodeRawHit(h RawHit) []byte {
	var b [RawHitSize]byte
	binary.LittleEndian.PutUint32(b[0:4], h.Query)
	binary.LittleEndian.PutUint64(b[4:12], h.SubjectOffset)
	binary.LittleEndian.PutUint32(b[12:16], uint32(h.SeedOffset))
	b[16] = h.Score
	return b[:]
}

// DecodeRawHit parses one spec §6 wire-format RawHit record.
func DecodeRawHit(b []byte) (RawHit, error) {
	if len(b) != RawHitSize {
		return RawHit{}, fmt.Errorf("seed: malformed RawHit record: got %d bytes, want %d", len(b), RawHitSize)
	}
	return RawHit{
		Query:         binary.LittleEndian.Uint32(b[0:4]),
		SubjectOffset: binary.LittleEndian.Uint64(b[4:12]),
		SeedOffset:    int32(binary.LittleEndian.Uint32(b[12:16])),
		Score:         b[16],
	}, nil
}

// FlatArray groups a flat value stream by target: Data holds every Hit
// contiguously, and Limits holds cumulative group boundaries so
// [Limits[t], Limits[t+1]) yields target t's hits in O(1).
type FlatArray struct {
	Data   []Hit
	Limits []int
}

// Begin and End return the half-open slice bounds for target t.
func (f *FlatArray) Begin(t int) int { return f.Limits[t] }
func (f *FlatArray) End(t int) int   { return f.Limits[t+1] }

// Group returns the hit slice belonging to target t.
func (f *FlatArray) Group(t int) []Hit { return f.Data[f.Limits[t]:f.Limits[t+1]] }

// NumTargets is the number of distinct target groups.
func (f *FlatArray) NumTargets() int { return len(f.Limits) - 1 }

// TargetScore is a cheap top-N ranking key: the max ungapped seed score
// seen for a target (spec §3). Overflow (Score == math.MaxUint16) means
// "recompute by ungapped windowed scan" before using the value.
type TargetScore struct {
	Target uint32
	Score  uint16
}

// ScoreOverflow16 mirrors ScoreOverflow at TargetScore's width.
const ScoreOverflow16 uint16 = 0xFFFF

// Less orders TargetScores by score descending, then target ascending, the
// total order spec §3 requires for cheap top-N ranking.
func Less(a, b TargetScore) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Target < b.Target
}
