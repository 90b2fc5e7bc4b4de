// prosearch-closure runs the last two stages of one clustering round
// (spec §4.6(g)/(h)): aggregate Edges into Assignments, then compute the
// transitive closure via parallel union-find flattening, emitting the
// representative FASTA file and OId map that feed the next round.
//
// Usage: prosearch-closure <config.json> <workdir>
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

	logger, logf, err := logx.New(cfg.LogDir, "prosearch-closure")
	if err != nil {
		log.Fatal(err)
	}
	defer logf.Close()

	mode := cluster.UniDirectional
	if cfg.MutualCoverage {
		mode = cluster.Mutual
	}

	edges, err := loadEdges(path.Join(workdir, "edges"))
	if err != nil {
		log.Fatal(err)
	}
	logger.Printf("closure: %d edges loaded", len(edges))

	assignments := cluster.Cluster(edges, mode)
	logger.Printf("closure: %d assignments", len(assignments))

	maxOid := cluster.OId(0)
	for _, a := range assignments {
		if a.MemberOId > maxOid {
			maxOid = a.MemberOId
		}
		if a.RepOId > maxOid {
			maxOid = a.RepOId
		}
	}

	uf := cluster.NewUnionFind(int(maxOid) + 1)
	for _, a := range assignments {
		uf.Fold(a)
	}
	rep := uf.Flatten()
	reps := cluster.Representatives(rep)
	logger.Printf("closure: %d cluster representatives", len(reps))

	if err := writeAssignments(path.Join(workdir, "assignments.tsv"), rep); err != nil {
		log.Fatal(err)
	}

	vf, err := fsx.ReadBucketTSV(path.Join(workdir, "volumes.tsv"))
	if err != nil {
		log.Fatal(err)
	}
	provider, err := sequenceProviderFor(vf)
	if err != nil {
		log.Fatal(err)
	}
	if err := writeRepFasta(workdir, reps, provider); err != nil {
		log.Fatal(err)
	}
	if err := writeOIdMap(path.Join(workdir, "oidmap.tsv"), reps); err != nil {
		log.Fatal(err)
	}
	logger.Printf("closure complete")
}

func loadEdges(edgeDir string) ([]cluster.Edge, error) {
	matches, err := filepath.Glob(path.Join(edgeDir, "edges.*.sz"))
	if err != nil {
		return nil, err
	}
	var out []cluster.Edge
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
			out = append(out, cluster.Edge(pe))
		}
		f.Close()
	}
	return out, nil
}

func writeAssignments(path string, rep []cluster.OId) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for i, r := range rep {
		if _, err := fmt.Fprintf(w, "%d\t%d\n", i, r); err != nil {
			return err
		}
	}
	return w.Flush()
}

// writeRepFasta writes the next round's input volume: one record per
// surviving representative, keyed by a fresh inner oid (its position in
// this file) with the actual residue letters resolved through provider,
// so the next round's seed-table stage has real sequence data to work
// from rather than a bare oid placeholder.
func writeRepFasta(workdir string, reps []cluster.OId, provider func(cluster.OId) ([]seqalpha.Letter, error)) error {
	f, err := os.Create(path.Join(workdir, "representatives.fasta"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for i, r := range reps {
		letters, err := provider(r)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, ">%d\n", i); err != nil {
			return err
		}
		buf := make([]byte, len(letters))
		for k, l := range letters {
			buf[k] = seqalpha.Decode(l)
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	return w.Flush()
}

// writeOIdMap records this round's OIdMap (spec §4.6 "Round schedule"):
// line i holds the OId, expressed in this round's own numbering, that
// the next round's inner oid i refers to. It's the InnerToPrev array
// the next round needs to walk back through once clustering finishes.
func writeOIdMap(path string, reps []cluster.OId) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for i, r := range reps {
		if _, err := fmt.Fprintf(w, "%d\t%d\n", i, r); err != nil {
			return err
		}
	}
	return w.Flush()
}

// sequenceProviderFor builds a lookup from this round's own oid space to
// residue letters by scanning each input volume's FASTA file, the same
// approach cmd/prosearch-buildchunks uses to resolve oids within a round.
func sequenceProviderFor(vf fsx.VolumedFile) (func(cluster.OId) ([]seqalpha.Letter, error), error) {
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
		return nil, fmt.Errorf("closure: oid %d not found in any volume", oid)
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
