package cluster

import (
	"encoding/binary"
	"sort"

	"github.com/kshedden/prosearch/internal/fsx"
	"github.com/spaolacci/murmur3"
)

// BuildPairs implements spec §4.6(c): group records from a sorted seed
// bucket by Seed, and for each group emit PairEntry rows per the
// configured Mode.
func BuildPairs(entries []SeedEntry, p Params, fa *fsx.FileArray) error {
	i := 0
	for i < len(entries) {
		j := i + 1
		for j < len(entries) && entries[j].Seed == entries[i].Seed {
			j++
		}
		group := entries[i:j]
		if len(group) > 1 {
			if err := emitGroup(group, p, fa); err != nil {
				return err
			}
		}
		i = j
	}
	return nil
}

func emitGroup(group []SeedEntry, p Params, fa *fsx.FileArray) error {
	if p.Mode == Mutual {
		return emitMutual(group, p, fa)
	}
	return emitUniDirectional(group, fa)
}

// emitUniDirectional picks the longest record (ties by smallest oid) as
// rep and emits (rep, member) for every other member, keyed by
// hash(rep_oid).
func emitUniDirectional(group []SeedEntry, fa *fsx.FileArray) error {
	rep := group[0]
	for _, e := range group[1:] {
		if e.Len > rep.Len || (e.Len == rep.Len && e.OId < rep.OId) {
			rep = e
		}
	}
	key := murmur3.Sum64(oidBytes(rep.OId))
	for _, e := range group {
		if e.OId == rep.OId {
			continue
		}
		pe := PairEntry{RepOId: rep.OId, MemberOId: e.OId, RepLen: rep.Len, MemberLen: e.Len}
		if err := fa.Put(key, EncodePairEntry(pe)); err != nil {
			return err
		}
	}
	return nil
}

// emitMutual sorts the group by descending length and sweeps a moving
// window [i, j) where every pair respects len_min/len_max >=
// min_length_ratio; the median-length record in each window is rep
// (spec §4.6(c)).
func emitMutual(group []SeedEntry, p Params, fa *fsx.FileArray) error {
	sorted := make([]SeedEntry, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Len > sorted[b].Len })

	ratio := p.MinLengthRatio
	if ratio <= 0 {
		ratio = 1
	}

	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) {
			lenMin := float64(sorted[j].Len)
			lenMax := float64(sorted[i].Len)
			if lenMin/lenMax < ratio {
				break
			}
			j++
		}
		window := sorted[i:j]
		rep := window[len(window)/2]
		for _, e := range window {
			if e.OId == rep.OId {
				continue
			}
			lo, hi := minMaxOId(rep.OId, e.OId)
			key := murmur3.Sum64(oidBytes(lo))
			pe := PairEntry{RepOId: lo, MemberOId: hi, RepLen: rep.Len, MemberLen: e.Len}
			if lo != rep.OId {
				pe = PairEntry{RepOId: lo, MemberOId: hi, RepLen: e.Len, MemberLen: rep.Len}
			}
			if err := fa.Put(key, EncodePairEntry(pe)); err != nil {
				return err
			}
		}
		i = j
	}
	return nil
}

func minMaxOId(a, b OId) (lo, hi OId) {
	if a < b {
		return a, b
	}
	return b, a
}

func oidBytes(oid OId) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], oid)
	return b[:]
}

// EncodePairEntry serializes a PairEntry to its fixed-width wire form.
func EncodePairEntry(e PairEntry) []byte {
	var b [24]byte
	binary.LittleEndian.PutUint64(b[0:8], e.RepOId)
	binary.LittleEndian.PutUint64(b[8:16], e.MemberOId)
	binary.LittleEndian.PutUint32(b[16:20], uint32(e.RepLen))
	binary.LittleEndian.PutUint32(b[20:24], uint32(e.MemberLen))
	return b[:]
}

// DecodePairEntry parses the wire form EncodePairEntry produces.
func DecodePairEntry(b []byte) (PairEntry, error) {
	if len(b) != 24 {
		return PairEntry{}, errMalformedRecord("PairEntry", len(b), 24)
	}
	return PairEntry{
		RepOId:    binary.LittleEndian.Uint64(b[0:8]),
		MemberOId: binary.LittleEndian.Uint64(b[8:16]),
		RepLen:    int32(binary.LittleEndian.Uint32(b[16:20])),
		MemberLen: int32(binary.LittleEndian.Uint32(b[20:24])),
	}, nil
}
