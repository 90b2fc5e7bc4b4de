// prosearch-buildchunks is stage (e) of the external clustering engine
// (spec §4.6(e)): partitions each input VolumedFile by oid range and, for
// every (oid, chunk_id) pair recorded by the chunk table, writes the
// sequence in FASTA with a numeric id equal to oid into the per-chunk
// output bucket.
//
// Usage: prosearch-buildchunks <config.json> <workdir>
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/kshedden/prosearch/internal/cluster"
	"github.com/kshedden/prosearch/internal/config"
	"github.com/kshedden/prosearch/internal/fsx"
	"github.com/kshedden/prosearch/internal/logx"
	"github.com/kshedden/prosearch/internal/seqalpha"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "%s: wrong number of arguments\n", os.Args[0])
		os.Exit(1)
	}
	cfg := config.ReadConfig(os.Args[1])
	workdir := os.Args[2]

	logger, logf, err := logx.New(cfg.LogDir, "prosearch-buildchunks")
	if err != nil {
		log.Fatal(err)
	}
	defer logf.Close()

	vf, err := fsx.ReadBucketTSV(path.Join(workdir, "volumes.tsv"))
	if err != nil {
		log.Fatal(err)
	}

	entries, err := readChunkTable(path.Join(workdir, "chunktable"))
	if err != nil {
		log.Fatal(err)
	}
	logger.Printf("buildchunks: %d (oid, chunk) entries across %d volumes", len(entries), len(vf.Volumes))

	provider, err := sequenceProviderFor(vf)
	if err != nil {
		log.Fatal(err)
	}

	var maxChunk uint32
	for _, e := range entries {
		if e.ChunkId > maxChunk {
			maxChunk = e.ChunkId
		}
	}

	outDir := path.Join(workdir, "chunks")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatal(err)
	}
	for c := uint32(0); c <= maxChunk; c++ {
		f, err := os.Create(path.Join(outDir, fmt.Sprintf("chunk_%d.fasta", c)))
		if err != nil {
			log.Fatal(err)
		}
		w := bufio.NewWriter(f)
		if err := cluster.BuildChunk(w, entries, c, provider); err != nil {
			log.Fatal(err)
		}
		if err := w.Flush(); err != nil {
			log.Fatal(err)
		}
		f.Close()
		if c%100 == 0 {
			logger.Printf("wrote chunk %d/%d", c, maxChunk)
		}
	}
	logger.Printf("buildchunks complete: %d chunks", maxChunk+1)
}

func readChunkTable(dir string) ([]cluster.ChunkEntry, error) {
	matches, err := filepath.Glob(path.Join(dir, "chunks.*.sz"))
	if err != nil {
		return nil, err
	}
	var out []cluster.ChunkEntry
	for _, m := range matches {
		rr, f, err := fsx.OpenBucketReader(m)
		if err != nil {
			return nil, err
		}
		for {
			raw, err := rr.Next()
			if err != nil {
				break
			}
			e, err := cluster.DecodeChunkEntry(raw)
			if err != nil {
				f.Close()
				return nil, err
			}
			out = append(out, e)
		}
		f.Close()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OId < out[j].OId })
	return out, nil
}

// sequenceProviderFor builds a SequenceProvider that maps a global oid to
// its residue letters by scanning the owning volume's FASTA file
// (spec §4.6(e) "partition each VolumedFile by oid range").
func sequenceProviderFor(vf fsx.VolumedFile) (cluster.SequenceProvider, error) {
	type loaded struct {
		begin, end int64
		seqs       [][]seqalpha.Letter
	}
	var vols []loaded
	for _, v := range vf.Volumes {
		seqs, err := readFastaLetters(v.Path)
		if err != nil {
			return nil, err
		}
		end := v.OIdEnd
		if end < 0 {
			end = v.OIdBegin + int64(len(seqs)) - 1
		}
		vols = append(vols, loaded{begin: v.OIdBegin, end: end, seqs: seqs})
	}
	return func(oid cluster.OId) ([]seqalpha.Letter, error) {
		for _, v := range vols {
			if int64(oid) >= v.begin && int64(oid) <= v.end {
				idx := int64(oid) - v.begin
				if idx >= 0 && int(idx) < len(v.seqs) {
					return v.seqs[idx], nil
				}
			}
		}
		return nil, fmt.Errorf("buildchunks: oid %d not found in any volume", oid)
	}, nil
}

func readFastaLetters(path string) ([][]seqalpha.Letter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1<<20), 1<<20)

	var out [][]seqalpha.Letter
	var cur []seqalpha.Letter
	flush := func() {
		if cur != nil {
			out = append(out, cur)
		}
	}
	for sc.Scan() {
		l := sc.Text()
		if len(l) == 0 {
			continue
		}
		if l[0] == '>' {
			flush()
			cur = []seqalpha.Letter{}
			continue
		}
		for i := 0; i < len(l); i++ {
			cur = append(cur, seqalpha.Encode(l[i]))
		}
	}
	flush()
	return out, sc.Err()
}
