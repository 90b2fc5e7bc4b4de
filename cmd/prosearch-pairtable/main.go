// prosearch-pairtable is stage (c) of the external clustering engine
// (spec §4.6(c)): for each sorted, radix-partitioned seed bucket, merge
// by seed and emit PairEntry rows per the configured coverage mode.
//
// Usage: prosearch-pairtable <config.json> <workdir>
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

	logger, logf, err := logx.New(cfg.LogDir, "prosearch-pairtable")
	if err != nil {
		log.Fatal(err)
	}
	defer logf.Close()

	seedDir := path.Join(workdir, "seedtable")
	pairDir := path.Join(workdir, "pairtable")

	p := cluster.Params{
		Mode:           modeFromString(cfg.ClusterMode),
		MinLengthRatio: cfg.MemberCoverage,
		NumBuckets:     1 << cluster.RadixBits,
	}

	fa, err := fsx.NewFileArray(pairDir, "pairs", p.NumBuckets)
	if err != nil {
		log.Fatal(err)
	}

	for b := 0; b < 1<<cluster.RadixBits; b++ {
		bucketPath := path.Join(seedDir, fmt.Sprintf("seeds.%d.sz", b))
		if _, err := os.Stat(bucketPath); err != nil {
			continue
		}
		sorted, err := cluster.RadixSort(bucketPath, 56, cluster.EncodeSeedEntry, cluster.DecodeSeedEntry, seedDir, fmt.Sprintf("sort-%d", b))
		if err != nil {
			log.Fatal(err)
		}
		for _, v := range sorted.Volumes {
			entries, err := readAllSeedEntries(v.Path)
			if err != nil {
				log.Fatal(err)
			}
			if err := cluster.BuildPairs(entries, p, fa); err != nil {
				log.Fatal(err)
			}
		}
		if b%16 == 0 {
			logger.Printf("pair table: processed bucket %d", b)
		}
	}

	if err := fa.Close(); err != nil {
		log.Fatal(err)
	}
	logger.Printf("pair table complete")
}

func modeFromString(s string) cluster.Mode {
	if s == "mutual" {
		return cluster.Mutual
	}
	return cluster.UniDirectional
}

func readAllSeedEntries(path string) ([]cluster.SeedEntry, error) {
	rr, f, err := fsx.OpenBucketReader(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []cluster.SeedEntry
	for {
		raw, err := rr.Next()
		if err != nil {
			break
		}
		e, err := cluster.DecodeSeedEntry(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
