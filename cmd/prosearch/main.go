// prosearch (Protein Search) is the entry point for the similarity
// search and clustering engine. It reads a JSON configuration file,
// prepares a scratch work directory, and drives the pipeline's mini
// binaries as a scipipe DAG the way cmd/muscato/muscato.go drives
// muscato_screen/muscato_confirm through shared snappy files rather than
// in-process calls.
//
// Usage: prosearch -mode={blastp,blastx,cluster,linclust,realign,deepclust} -config=config.json
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/kshedden/prosearch/internal/cluster"
	"github.com/kshedden/prosearch/internal/config"
	"github.com/kshedden/prosearch/internal/fsx"
	"github.com/kshedden/prosearch/internal/logx"
	"github.com/pkg/profile"
	"github.com/scipipe/scipipe"
)

var (
	mode       string
	configPath string
	workdir    string
)

func handleArgs() {
	flag.StringVar(&mode, "mode", "", "blastp, blastx, cluster, linclust, realign, or deepclust")
	flag.StringVar(&configPath, "config", "", "path to JSON configuration file")
	flag.Parse()

	if configPath == "" {
		os.Stderr.WriteString("-config is required, run 'prosearch --help' for more information.\n")
		os.Exit(1)
	}
	switch mode {
	case "blastp", "blastx", "cluster", "linclust", "realign", "deepclust":
	default:
		os.Stderr.WriteString("-mode must be one of: blastp, blastx, cluster, linclust, realign, deepclust\n")
		os.Exit(1)
	}
}

func main() {
	handleArgs()
	cfg := config.ReadConfig(configPath)

	base := cfg.WorkDir
	if base == "" {
		base = "prosearch-work"
	}
	wd, err := fsx.NewWorkDir(base)
	if err != nil {
		log.Fatal(err)
	}
	workdir = wd.Root
	if !cfg.NoCleanTmp {
		defer wd.Remove()
	}

	logger, logf, err := logx.New(cfg.LogDir, "prosearch")
	if err != nil {
		log.Fatal(err)
	}
	defer logf.Close()
	logger.Printf("run id %s, workdir %s, mode %s", uuid.NewString(), workdir, mode)

	if os.Getenv("PROSEARCH_PROFILE") != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.LogDir)).Stop()
	}

	switch mode {
	case "blastp", "blastx":
		runSearch(logger, cfg)
	case "cluster", "linclust", "realign", "deepclust":
		runCluster(logger, wd, cfg, mode)
	}

	logger.Printf("all done")
}

// runSearch drives the alignment extension core end to end: the
// upstream seed-index stage (out of scope, spec §1) is expected to have
// already written workdir/seedhits.bin before prosearch-align runs.
func runSearch(logger *log.Logger, cfg *config.Config) {
	wf := scipipe.NewWorkflow("prosearch-search", 1)
	wf.NewProc("align", fmt.Sprintf("prosearch-align %s %s", configPath, workdir))
	wf.Run()
	logger.Printf("search complete, results in %s", cfg.ResultsFileName)
}

// runCluster drives one or more rounds of the external clustering
// engine (spec §4.6), each round a DAG of seedtable -> pairtable ->
// chunktable -> buildchunks -> clusteralign -> closure. Round r>0 runs
// against the renumbered representative set round r-1's closure stage
// emitted, not against the original database, so each round gets its
// own workdir subtree and its own config file carrying that round's
// thresholds. After the last round, every member's representative is
// walked back through the chain of round OId maps to the database's
// true global oid (spec §4.6 "Round schedule").
func runCluster(logger *log.Logger, wd *fsx.WorkDir, cfg *config.Config, mode string) {
	schedule := defaultScheduleFor(cfg, mode)

	prevFasta := cfg.TargetFileName
	prevCount := int64(-1)
	var chain []cluster.OIdMap

	for idx, round := range schedule.Rounds {
		logger.Printf("round %d %q: seed_length=%d min_pct_id=%.1f", idx, round.Name, round.SeedLength, round.MinPctId)

		roundDir, err := wd.RoundDir(idx)
		if err != nil {
			log.Fatal(err)
		}

		vol := fsx.Volume{Path: prevFasta, OIdBegin: 0, HasOIdRange: true}
		if idx == 0 {
			vol.OIdEnd = -1
		} else {
			vol.OIdEnd = prevCount - 1
		}
		if err := fsx.WriteBucketTSV(path.Join(roundDir, "volumes.tsv"), fsx.VolumedFile{Volumes: []fsx.Volume{vol}}); err != nil {
			log.Fatal(err)
		}

		roundCfgPath := path.Join(roundDir, "config.json")
		if err := writeRoundConfig(roundCfgPath, cfg, round); err != nil {
			log.Fatal(err)
		}

		runRound(logger, roundCfgPath, roundDir)

		if idx < len(schedule.Rounds)-1 {
			m, err := readOIdMap(path.Join(roundDir, "oidmap.tsv"))
			if err != nil {
				log.Fatal(err)
			}
			chain = append(chain, m)
			prevCount = int64(len(m.InnerToPrev))
		}
		prevFasta = path.Join(roundDir, "representatives.fasta")
	}

	final, err := resolveFinalAssignments(workdir, len(schedule.Rounds), chain)
	if err != nil {
		log.Fatal(err)
	}
	if err := writeClusterTable(cfg.ResultsFileName, final); err != nil {
		log.Fatal(err)
	}
	logger.Printf("cluster complete, %d rounds, results in %s", len(schedule.Rounds), cfg.ResultsFileName)
}

// runRound runs one round's six stages in sequence, each as its own
// single-process scipipe.Workflow the way cmd/muscato/muscato.go runs
// muscato_window_reads, muscato_screen, muscato_confirm, and
// muscato_combine_windows as successive wf.Run() calls rather than one
// workflow with every process wired together: each stage here reads the
// prior stage's output straight from the shared round directory, so
// there is no scipipe port to wire.
func runRound(logger *log.Logger, roundCfgPath, roundDir string) {
	stages := []string{"seedtable", "pairtable", "chunktable", "buildchunks", "clusteralign", "closure"}
	for _, s := range stages {
		wf := scipipe.NewWorkflow("prosearch-"+s, 1)
		wf.NewProc(s, fmt.Sprintf("prosearch-%s %s %s", s, roundCfgPath, roundDir))
		wf.Run()
		logger.Printf("stage %s complete", s)
	}
}

func defaultScheduleFor(cfg *config.Config, mode string) *config.RoundSchedule {
	if cfg.RoundScheduleFile != "" {
		rs, err := config.LoadRoundSchedule(cfg.RoundScheduleFile)
		if err != nil {
			log.Fatal(err)
		}
		return rs
	}
	if mode == "linclust" {
		return &config.RoundSchedule{Rounds: []config.Round{
			{Name: "lin-coarse", SeedLength: 10, MinPctId: cfg.MinPctId * 0.8, MemberCoverage: cfg.MemberCoverage, CenterCoverage: cfg.CenterCoverage},
			{Name: "lin-fine", SeedLength: 14, MinPctId: cfg.MinPctId, MemberCoverage: cfg.MemberCoverage, CenterCoverage: cfg.CenterCoverage},
		}}
	}
	return config.DefaultRoundSchedule(cfg.MinPctId, cfg.MemberCoverage, cfg.CenterCoverage)
}

// writeRoundConfig clones cfg with round's thresholds substituted in and
// writes it to path, so every stage binary — which only ever reads its
// clustering parameters out of the shared JSON config file — sees this
// round's own MinPctId/MemberCoverage/CenterCoverage instead of the
// top-level config's. round.SeedLength is not written: Config has no
// seed-length field, so every round's seed-table stage runs with the same
// fixed seed settings.
func writeRoundConfig(fname string, cfg *config.Config, round config.Round) error {
	rc := *cfg
	rc.MinPctId = round.MinPctId
	rc.MemberCoverage = round.MemberCoverage
	rc.CenterCoverage = round.CenterCoverage

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(&rc)
}

// readAssignments reads a round's assignments.tsv back into a dense
// rep[] array indexed by this round's own oid numbering.
func readAssignments(fname string) ([]cluster.OId, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rep []cluster.OId
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			return nil, fmt.Errorf("prosearch: malformed assignments line %q", line)
		}
		i, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, err
		}
		r, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, err
		}
		for uint64(len(rep)) <= i {
			rep = append(rep, 0)
		}
		rep[i] = cluster.OId(r)
	}
	return rep, sc.Err()
}

// readOIdMap reads a round's oidmap.tsv back into a cluster.OIdMap whose
// InnerToPrev[i] is the previous round's OId that this round's inner
// oid i was assigned under.
func readOIdMap(fname string) (cluster.OIdMap, error) {
	f, err := os.Open(fname)
	if err != nil {
		return cluster.OIdMap{}, err
	}
	defer f.Close()

	var m cluster.OIdMap
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			return cluster.OIdMap{}, fmt.Errorf("prosearch: malformed oidmap line %q", line)
		}
		prev, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return cluster.OIdMap{}, err
		}
		m.InnerToPrev = append(m.InnerToPrev, cluster.OId(prev))
	}
	return m, sc.Err()
}

// resolveFinalAssignments walks every database member's representative
// forward through each round's own clustering and back down through
// the chain of OId maps to round 0's true global oid (spec §4.6 "Round
// schedule"): "the representative list from the most recent round is
// walked back through all previous rounds' OID<->inner-oid maps to
// produce the final (member_global_oid, cluster_representative_global_oid)
// table."
func resolveFinalAssignments(workdir string, numRounds int, chain []cluster.OIdMap) ([]cluster.OId, error) {
	base, err := readAssignments(path.Join(workdir, "round0", "assignments.tsv"))
	if err != nil {
		return nil, err
	}
	current := make([]cluster.OId, len(base))
	copy(current, base)

	for r := 1; r < numRounds; r++ {
		m := chain[r-1]
		inv := m.Invert()
		repR, err := readAssignments(path.Join(workdir, fmt.Sprintf("round%d", r), "assignments.tsv"))
		if err != nil {
			return nil, err
		}
		for i, g := range current {
			inner, ok := inv[g]
			if !ok || int(inner) >= len(repR) {
				continue
			}
			current[i] = repR[inner]
		}
	}

	for i, g := range current {
		current[i] = cluster.WalkBack(chain, g)
	}
	return current, nil
}

// writeClusterTable writes the final (member_global_oid,
// cluster_representative_global_oid) table to fname.
func writeClusterTable(fname string, rep []cluster.OId) error {
	f, err := os.Create(fname)
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
