package cluster

import (
	"encoding/binary"

	"github.com/kshedden/prosearch/internal/fsx"
)

// ChunkEntry is one (oid, chunk_id) pair recorded by stage (d) (spec
// §4.6(d)); an oid referenced by pairs spanning multiple chunks gets one
// ChunkEntry per chunk.
type ChunkEntry struct {
	OId     OId
	ChunkId uint32
}

// ChunkTableBuilder assigns pairs to size-bounded chunks: a HyperLogLog
// sketch tracks the expected total letters contributed to the current
// chunk, and once the estimate crosses linclust_chunk_size/64 a new chunk
// opens (spec §4.6(d)).
type ChunkTableBuilder struct {
	budget   uint64
	sketch   *HyperLogLog
	chunkId  uint32
	assigned map[OId]map[uint32]bool
}

// NewChunkTableBuilder returns a builder bounding each chunk's estimated
// letter volume to linclustChunkSize/64.
func NewChunkTableBuilder(linclustChunkSize uint64) *ChunkTableBuilder {
	budget := linclustChunkSize / 64
	if budget == 0 {
		budget = 1
	}
	return &ChunkTableBuilder{
		budget:   budget,
		sketch:   NewHyperLogLog(),
		assigned: map[OId]map[uint32]bool{},
	}
}

// AddPair records rep and member as needed by the current chunk,
// rolling over to a new chunk once the HyperLogLog estimate for the
// current chunk exceeds budget, then emits (oid, chunk_id) ChunkEntry
// rows for every oid newly assigned to a chunk it had not yet appeared
// in (spec §4.6(d) "every member referenced ... must be emitted ... even
// if it straddles multiple chunks").
func (b *ChunkTableBuilder) AddPair(p PairEntry) []ChunkEntry {
	b.sketch.AddWeighted(p.RepOId, int(p.RepLen))
	b.sketch.AddWeighted(p.MemberOId, int(p.MemberLen))

	var out []ChunkEntry
	out = append(out, b.assign(p.RepOId)...)
	out = append(out, b.assign(p.MemberOId)...)

	if b.sketch.Estimate() >= b.budget {
		b.chunkId++
		b.sketch.Reset()
	}
	return out
}

func (b *ChunkTableBuilder) assign(oid OId) []ChunkEntry {
	seen, ok := b.assigned[oid]
	if !ok {
		seen = map[uint32]bool{}
		b.assigned[oid] = seen
	}
	if seen[b.chunkId] {
		return nil
	}
	seen[b.chunkId] = true
	return []ChunkEntry{{OId: oid, ChunkId: b.chunkId}}
}

// NumChunks reports how many chunks have been opened so far.
func (b *ChunkTableBuilder) NumChunks() uint32 {
	return b.chunkId + 1
}

// EncodeChunkEntry serializes a ChunkEntry to its fixed-width wire form.
func EncodeChunkEntry(e ChunkEntry) []byte {
	var b [12]byte
	binary.LittleEndian.PutUint64(b[0:8], e.OId)
	binary.LittleEndian.PutUint32(b[8:12], e.ChunkId)
	return b[:]
}

// DecodeChunkEntry parses the wire form EncodeChunkEntry produces.
func DecodeChunkEntry(b []byte) (ChunkEntry, error) {
	if len(b) != 12 {
		return ChunkEntry{}, errMalformedRecord("ChunkEntry", len(b), 12)
	}
	return ChunkEntry{
		OId:     binary.LittleEndian.Uint64(b[0:8]),
		ChunkId: binary.LittleEndian.Uint32(b[8:12]),
	}, nil
}

// WriteChunkTable writes entries through a RecordWriter keyed by
// ChunkId, one FileArray bucket per chunk.
func WriteChunkTable(fa *fsx.FileArray, entries []ChunkEntry) error {
	for _, e := range entries {
		if err := fa.Put(uint64(e.ChunkId), EncodeChunkEntry(e)); err != nil {
			return err
		}
	}
	return nil
}
