// prosearch-seedtable is the per-shape seed-table stage of the external
// clustering engine (spec §4.6(a)): it streams sequences from all
// volumes of a round's input VolumedFile, enumerates seeds via the
// bottom-s MurmurHash sketch, drops low-complexity seeds, and emits
// SeedEntry records into a radix-partitioned FileArray.
//
// Usage: prosearch-seedtable <config.json> <workdir>
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path"

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

	logger, logf, err := logx.New(cfg.LogDir, "prosearch-seedtable")
	if err != nil {
		log.Fatal(err)
	}
	defer logf.Close()

	vf, err := fsx.ReadBucketTSV(path.Join(workdir, "volumes.tsv"))
	if err != nil {
		log.Fatal(err)
	}
	logger.Printf("seed table: %d input volumes", len(vf.Volumes))

	stageDir := path.Join(workdir, "seedtable")
	p := cluster.Params{
		Mode:              modeFromString(cfg.ClusterMode),
		MinPctId:          cfg.MinPctId,
		MemberCoverage:    cfg.MemberCoverage,
		CenterCoverage:    cfg.CenterCoverage,
		ShapeWeight:       12,
		SeedCut:           cfg.MinPctId / 100,
		LinclustChunkSize: cfg.ApproxSize,
		NumBuckets:        1 << cluster.RadixBits,
	}

	builder, err := cluster.NewSeedTableBuilder(12, 20, p, stageDir, "seeds")
	if err != nil {
		log.Fatal(err)
	}

	n := 0
	for _, v := range vf.Volumes {
		if err := streamVolume(v, builder); err != nil {
			log.Fatal(err)
		}
		n++
		if n%10 == 0 {
			logger.Printf("processed %d/%d volumes", n, len(vf.Volumes))
		}
	}

	if err := builder.Close(); err != nil {
		log.Fatal(err)
	}
	logger.Printf("seed table complete")
}

func modeFromString(s string) cluster.Mode {
	if s == "mutual" {
		return cluster.Mutual
	}
	return cluster.UniDirectional
}

// streamVolume reads the FASTA-framed sequences in v.Path (see
// cluster.BuildChunk for the inverse writer) and feeds each one to the
// seed-table builder keyed by its position in the volume's OId range.
func streamVolume(v fsx.Volume, builder *cluster.SeedTableBuilder) error {
	f, err := os.Open(v.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	oid := cluster.OId(v.OIdBegin)
	var cur []seqalpha.Letter
	flush := func() error {
		if len(cur) == 0 {
			return nil
		}
		err := builder.AddSequence(oid, cur)
		oid++
		cur = cur[:0]
		return err
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	for sc.Scan() {
		l := sc.Text()
		if len(l) == 0 {
			continue
		}
		if l[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		for i := 0; i < len(l); i++ {
			cur = append(cur, seqalpha.Encode(l[i]))
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return flush()
}
