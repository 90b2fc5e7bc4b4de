package config

import "github.com/BurntSushi/toml"

// Round describes one clustering pass's parameters (spec §4.6 "Round
// schedule"): successive rounds progressively relax the seed/coverage
// thresholds so cheap, strict rounds run first and catch the bulk of
// cluster membership before expensive, permissive rounds run on the
// residual set.
type Round struct {
	Name           string
	SeedLength     int
	MinPctId       float64
	MemberCoverage float64
	CenterCoverage float64
}

// RoundSchedule is an ordered list of Rounds, loaded from a TOML file the
// way cmd/muscato/muscato.go loads its scipipe DAG's shared settings via
// BurntSushi/toml-style struct decode; the teacher itself reads its own
// Config as JSON, but the round schedule's nested, human-edited table
// structure fits TOML's syntax better and BurntSushi/toml is the pack's
// only TOML decoder.
type RoundSchedule struct {
	Rounds []Round `toml:"round"`
}

// LoadRoundSchedule decodes a round-schedule TOML file.
func LoadRoundSchedule(path string) (*RoundSchedule, error) {
	var rs RoundSchedule
	if _, err := toml.DecodeFile(path, &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// DefaultRoundSchedule is used when no schedule file is configured: a
// single round at the configured thresholds.
func DefaultRoundSchedule(minPctId, memberCoverage, centerCoverage float64) *RoundSchedule {
	return &RoundSchedule{Rounds: []Round{{
		Name:           "default",
		SeedLength:     12,
		MinPctId:       minPctId,
		MemberCoverage: memberCoverage,
		CenterCoverage: centerCoverage,
	}}}
}
