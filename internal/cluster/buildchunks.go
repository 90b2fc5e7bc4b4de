package cluster

import (
	"fmt"
	"io"
	"sort"

	"github.com/kshedden/prosearch/internal/seqalpha"
)

// SequenceProvider resolves a global oid to its residue letters, reading
// from whichever Volume currently owns that oid (spec §4.6(e)
// "partition each VolumedFile by oid range").
type SequenceProvider func(oid OId) ([]seqalpha.Letter, error)

// BuildChunk writes, for every (oid, chunkId) entry matching chunkId,
// the sequence in FASTA with a numeric id equal to oid, into w (spec
// §4.6(e)). Entries may belong to any chunk and need not be sorted:
// entries of other chunks are skipped, and the rest are written in
// ascending oid order.
func BuildChunk(w io.Writer, entries []ChunkEntry, chunkId uint32, provider SequenceProvider) error {
	oids := make([]OId, 0, len(entries))
	for _, e := range entries {
		if e.ChunkId == chunkId {
			oids = append(oids, e.OId)
		}
	}
	sort.Slice(oids, func(i, j int) bool { return oids[i] < oids[j] })

	for _, oid := range oids {
		seq, err := provider(oid)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, ">%d\n", oid); err != nil {
			return err
		}
		if err := writeFastaBody(w, seq, 60); err != nil {
			return err
		}
	}
	return nil
}

func writeFastaBody(w io.Writer, seq []seqalpha.Letter, lineWidth int) error {
	buf := make([]byte, lineWidth+1)
	for i := 0; i < len(seq); i += lineWidth {
		end := i + lineWidth
		if end > len(seq) {
			end = len(seq)
		}
		n := end - i
		for k := 0; k < n; k++ {
			buf[k] = seqalpha.Decode(seq[i+k])
		}
		buf[n] = '\n'
		if _, err := w.Write(buf[:n+1]); err != nil {
			return err
		}
	}
	return nil
}
