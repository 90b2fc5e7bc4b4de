// prosearch-chunktable is stage (d) of the external clustering engine
// (spec §4.6(d)): reads the pair table and emits (oid, chunk_id) entries,
// opening a new chunk whenever the HyperLogLog-estimated letter volume
// of the current chunk crosses linclust_chunk_size/64.
//
// Usage: prosearch-chunktable <config.json> <workdir>
package main

import (
	"fmt"
	"log"
	"os"
	"path"

	"github.com/kshedden/prosearch/internal/cluster"
	"github.com/kshedden/prosearch/internal/config"
	"github.com/kshedden/prosearch/internal/fsx"
	"github.com/kshedden/prosearch/internal/logx"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "%s: wrong number of arguments\n", os.Args[0])
		os.Exit(1)
	}
	cfg := config.ReadConfig(os.Args[1])
	workdir := os.Args[2]

	logger, logf, err := logx.New(cfg.LogDir, "prosearch-chunktable")
	if err != nil {
		log.Fatal(err)
	}
	defer logf.Close()

	pairDir := path.Join(workdir, "pairtable")
	chunkDir := path.Join(workdir, "chunktable")

	linclustChunkSize := cfg.ApproxSize
	if linclustChunkSize == 0 {
		linclustChunkSize = 1 << 30
	}
	builder := cluster.NewChunkTableBuilder(linclustChunkSize)

	numBuckets := 1 << cluster.RadixBits
	fa, err := fsx.NewFileArray(chunkDir, "chunks", numBuckets)
	if err != nil {
		log.Fatal(err)
	}

	total := 0
	for b := 0; b < numBuckets; b++ {
		bucketPath := path.Join(pairDir, fmt.Sprintf("pairs.%d.sz", b))
		if _, err := os.Stat(bucketPath); err != nil {
			continue
		}
		rr, f, err := fsx.OpenBucketReader(bucketPath)
		if err != nil {
			log.Fatal(err)
		}
		for {
			raw, err := rr.Next()
			if err != nil {
				break
			}
			pe, err := cluster.DecodePairEntry(raw)
			if err != nil {
				log.Fatal(err)
			}
			for _, e := range builder.AddPair(pe) {
				if err := fa.Put(uint64(e.ChunkId), cluster.EncodeChunkEntry(e)); err != nil {
					log.Fatal(err)
				}
			}
			total++
		}
		f.Close()
	}

	if err := fa.Close(); err != nil {
		log.Fatal(err)
	}
	logger.Printf("chunk table complete: %d pairs, %d chunks", total, builder.NumChunks())
}
