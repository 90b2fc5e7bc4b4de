// Package config loads the JSON configuration file each prosearch binary
// reads, the same way every muscato_* stage reads its Config via
// utils.ReadConfig(configFilePath) (cmd/muscato_screen/muscato_screen.go
// and peers): one struct, json.Decoder, panic on a malformed file since a
// bad config is a fatal startup error rather than a recoverable one
// (spec §6, AMBIENT STACK "error handling").
package config

import (
	"encoding/json"
	"os"
)

// Config is the CLI-surface configuration shared by every prosearch
// stage binary (spec §6).
type Config struct {
	// Inputs.
	QueryFileName  string
	TargetFileName string
	ResultsFileName string

	// Scoring.
	MatrixName string
	GapOpen    int32
	GapExtend  int32
	MaxEValue  float64
	XDrop      int32

	// Ranking / chunking (spec §4.5 step 2/6).
	RankingEnabled         bool
	ChunkSize              int
	MaxTargetSeqs          int
	DefaultLetterBudget    int64
	TargetHardCap          int
	RankingScoreDropFactor float64
	RankingCutoffBitscore  float64
	MapAny                 bool

	// Alt-HSP / culling.
	MaxHsps       int
	CullTopK      int
	CullTopPercent float64

	// Clustering (spec §4.6).
	ClusterMode       string // "mutual" selects mutual-coverage seed/pair tables; any other value selects uni-directional
	RoundScheduleFile string
	MinPctId          float64
	MemberCoverage    float64
	CenterCoverage    float64
	MutualCoverage    bool
	ApproxSize        uint64 // HyperLogLog-estimated chunk size budget

	// Concurrency / I/O.
	Threads    int
	WorkDir    string
	TempDir    string
	LogDir     string
	NoCleanTmp bool
}

// ReadConfig decodes a JSON config file, panicking on any read or decode
// failure exactly as utils.ReadConfig does for every muscato_* stage.
func ReadConfig(filename string) *Config {
	fid, err := os.Open(filename)
	if err != nil {
		panic(err)
	}
	defer fid.Close()

	dec := json.NewDecoder(fid)
	cfg := new(Config)
	if err := dec.Decode(cfg); err != nil {
		panic(err)
	}
	return cfg
}
