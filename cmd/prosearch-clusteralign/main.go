// prosearch-clusteralign is stage (f) of the external clustering engine
// (spec §4.6(f)): within each chunk, aligns every member sequence
// against its rep via full-matrix banded swipe and emits an Edge for
// every alignment passing the identity/coverage thresholds.
//
// Usage: prosearch-clusteralign <config.json> <workdir>
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/kshedden/prosearch/internal/cluster"
	"github.com/kshedden/prosearch/internal/config"
	"github.com/kshedden/prosearch/internal/dp"
	"github.com/kshedden/prosearch/internal/fsx"
	"github.com/kshedden/prosearch/internal/logx"
	"github.com/kshedden/prosearch/internal/scoring"
	"github.com/kshedden/prosearch/internal/seqalpha"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "%s: wrong number of arguments\n", os.Args[0])
		os.Exit(1)
	}
	cfg := config.ReadConfig(os.Args[1])
	workdir := os.Args[2]

	logger, logf, err := logx.New(cfg.LogDir, "prosearch-clusteralign")
	if err != nil {
		log.Fatal(err)
	}
	defer logf.Close()

	matrix := scoring.Blosum62()
	gap := dp.GapParams{Open: matrix.GapOpen, Extend: matrix.GapExtend}
	mode := cluster.UniDirectional
	if cfg.MutualCoverage {
		mode = cluster.Mutual
	}
	p := cluster.Params{
		Mode:           mode,
		MinPctId:       cfg.MinPctId,
		MemberCoverage: cfg.MemberCoverage,
		CenterCoverage: cfg.CenterCoverage,
		NumBuckets:     1 << cluster.RadixBits,
	}

	chunkFiles, err := filepath.Glob(path.Join(workdir, "chunks", "chunk_*.fasta"))
	if err != nil {
		log.Fatal(err)
	}

	edgeDir := path.Join(workdir, "edges")
	fa, err := fsx.NewFileArray(edgeDir, "edges", p.NumBuckets)
	if err != nil {
		log.Fatal(err)
	}

	pairsByChunk, err := loadPairAssignments(path.Join(workdir, "pairtable"))
	if err != nil {
		log.Fatal(err)
	}

	total := 0
	for _, cf := range chunkFiles {
		seqs, err := readFastaByOid(cf)
		if err != nil {
			log.Fatal(err)
		}
		edges := cluster.AlignChunk(seqs, chunkMembers(seqs, pairsByChunk), p, matrix, gap, float64(len(seqs))*1e9)
		for _, e := range edges {
			key := uint64(e.MemberOId)
			if p.Mode == cluster.Mutual {
				if e.RepOId < e.MemberOId {
					key = uint64(e.RepOId)
				}
			}
			if err := fa.Put(key, cluster.EncodePairEntry(cluster.PairEntry(e))); err != nil {
				log.Fatal(err)
			}
		}
		total += len(edges)
	}

	if err := fa.Close(); err != nil {
		log.Fatal(err)
	}
	logger.Printf("clusteralign complete: %d edges across %d chunks", total, len(chunkFiles))
}

func readFastaByOid(path string) (map[cluster.OId][]seqalpha.Letter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1<<20), 1<<20)

	out := map[cluster.OId][]seqalpha.Letter{}
	var cur []seqalpha.Letter
	var curOid cluster.OId
	have := false
	flush := func() {
		if have {
			out[curOid] = cur
		}
	}
	for sc.Scan() {
		l := sc.Text()
		if len(l) == 0 {
			continue
		}
		if l[0] == '>' {
			flush()
			var oid uint64
			fmt.Sscanf(l[1:], "%d", &oid)
			curOid = cluster.OId(oid)
			cur = []seqalpha.Letter{}
			have = true
			continue
		}
		for i := 0; i < len(l); i++ {
			cur = append(cur, seqalpha.Encode(l[i]))
		}
	}
	flush()
	return out, sc.Err()
}

// loadPairAssignments reads every radix bucket of the pair table so
// clusteralign can find each chunk's (rep, member) pairs by oid
// membership rather than re-deriving them.
func loadPairAssignments(pairDir string) ([]cluster.PairEntry, error) {
	matches, err := filepath.Glob(path.Join(pairDir, "pairs.*.sz"))
	if err != nil {
		return nil, err
	}
	var out []cluster.PairEntry
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
			pe, err := cluster.DecodePairEntry(raw)
			if err != nil {
				f.Close()
				return nil, err
			}
			out = append(out, pe)
		}
		f.Close()
	}
	return out, nil
}

// chunkMembers filters the full pair set down to members present in
// this chunk's sequence map.
func chunkMembers(seqs map[cluster.OId][]seqalpha.Letter, pairs []cluster.PairEntry) []cluster.ChunkMember {
	var out []cluster.ChunkMember
	for _, pe := range pairs {
		member, ok := seqs[pe.MemberOId]
		if !ok {
			continue
		}
		if _, ok := seqs[pe.RepOId]; !ok {
			continue
		}
		out = append(out, cluster.ChunkMember{RepOId: pe.RepOId, MemberOId: pe.MemberOId, Member: member})
	}
	return out
}
