// prosearch-align is the extension-orchestrator binary (spec §4.5): for
// each query block's seed-hit stream, it runs the full state machine —
// chunked scan over ranked targets, ungapped extension, chaining,
// banded/full DP, culling, and alt-HSP recomputation — and writes the
// surviving Matches to the results file.
//
// Usage: prosearch-align <config.json> <workdir>
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path"

	"github.com/kshedden/prosearch/internal/align"
	"github.com/kshedden/prosearch/internal/config"
	"github.com/kshedden/prosearch/internal/dp"
	"github.com/kshedden/prosearch/internal/logx"
	"github.com/kshedden/prosearch/internal/matchio"
	"github.com/kshedden/prosearch/internal/scoring"
	"github.com/kshedden/prosearch/internal/seed"
	"github.com/kshedden/prosearch/internal/seqalpha"
	"github.com/kshedden/prosearch/internal/seqset"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "%s: wrong number of arguments\n", os.Args[0])
		os.Exit(1)
	}
	cfg := config.ReadConfig(os.Args[1])
	workdir := os.Args[2]

	logger, logf, err := logx.New(cfg.LogDir, "prosearch-align")
	if err != nil {
		log.Fatal(err)
	}
	defer logf.Close()

	queries, err := loadBlock(cfg.QueryFileName)
	if err != nil {
		log.Fatal(err)
	}
	targets, err := loadBlock(cfg.TargetFileName)
	if err != nil {
		log.Fatal(err)
	}
	logger.Printf("align: %d queries, %d targets", queries.Len(), targets.Len())

	rawHits, err := loadRawHits(path.Join(workdir, "seedhits.bin"), queries.Len())
	if err != nil {
		log.Fatal(err)
	}
	limits := targets.Limits()

	matrix := scoring.Blosum62()
	gap := dp.GapParams{Open: matrix.GapOpen, Extend: matrix.GapExtend}
	acfg := align.Config{
		Matrix:                 matrix,
		Gap:                    gap,
		RankingEnabled:         cfg.RankingEnabled,
		ChunkSize:              cfg.ChunkSize,
		MaxTargetSeqs:          cfg.MaxTargetSeqs,
		DefaultLetterBudget:    cfg.DefaultLetterBudget,
		TargetHardCap:          cfg.TargetHardCap,
		RankingScoreDropFactor: cfg.RankingScoreDropFactor,
		RankingCutoffBitscore:  cfg.RankingCutoffBitscore,
		MapAny:                 cfg.MapAny,
		XDrop:                  cfg.XDrop,
		MinBandOverlap:         0.5,
		MaxHsps:                cfg.MaxHsps,
		MaxEValue:              cfg.MaxEValue,
		Cull:                   align.CullParams{TopK: cfg.CullTopK, TopPercent: cfg.CullTopPercent, MaxEValue: cfg.MaxEValue},
		SearchSpace:            float64(queries.Len()) * float64(targets.Len()),
		QueryContexts:          1,
	}

	provider := func(blockID uint32) ([]seqalpha.Letter, []seqalpha.Letter) {
		s := targets.Get(int(blockID))
		letters := s.Slice()
		return letters, letters
	}

	out, err := os.Create(cfg.ResultsFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()
	w := matchio.NewWriter(out)

	for q := 0; q < queries.Len(); q++ {
		hits, blockIds, scores := seed.Load(rawHits[q], limits, acfg.QueryContexts)
		matches := align.RunQuery(queries.Get(q).Slice(), hits, blockIds, scores, provider, acfg)
		for _, m := range matches {
			if err := w.WriteMatch(uint64(q), uint64(m.TargetBlockID), m); err != nil {
				log.Fatal(err)
			}
		}
		if q%1000 == 0 {
			logger.Printf("aligned %d/%d queries", q, queries.Len())
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}
	logger.Printf("align complete")
}

func loadBlock(fname string) (*seqset.SequenceSet, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1<<20), 1<<20)

	ss := seqset.NewSequenceSet()
	var cur []byte
	flush := func() {
		if cur != nil {
			ss.Append(cur)
			cur = nil
		}
	}
	for sc.Scan() {
		l := sc.Bytes()
		if len(l) == 0 {
			continue
		}
		if l[0] == '>' {
			flush()
			cur = []byte{}
			continue
		}
		cur = append(cur, l...)
	}
	flush()
	ss.Finalize()
	return ss, sc.Err()
}

// loadRawHits decodes the spec §6 little-endian RawHit stream the
// upstream seed-index stage writes (seed-index construction itself is
// out of scope, spec §1), bucketing each record by its Query field into
// a per-query slice. A missing file means no seed hits were produced
// for this block; every bucket comes back empty rather than an error.
func loadRawHits(fname string, numQueries int) ([][]seed.RawHit, error) {
	buckets := make([][]seed.RawHit, numQueries)

	f, err := os.Open(fname)
	if err != nil {
		if os.IsNotExist(err) {
			return buckets, nil
		}
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)
	buf := make([]byte, seed.RawHitSize)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		h, err := seed.DecodeRawHit(buf)
		if err != nil {
			return nil, err
		}
		if int(h.Query) >= numQueries {
			return nil, fmt.Errorf("prosearch-align: raw hit query %d out of range (have %d queries)", h.Query, numQueries)
		}
		buckets[h.Query] = append(buckets[h.Query], h)
	}
	return buckets, nil
}
