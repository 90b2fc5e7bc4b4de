// Package cluster implements the external-memory clustering engine of
// spec §4.6: seed table, radix sort, pair table, chunk table, build
// chunks, align, and closure. It feeds chunk-local alignment back through
// internal/align and persists intermediate tables through internal/fsx,
// the way cmd/muscato/muscato.go's scipipe DAG wires muscato_screen and
// muscato_confirm together over shared snappy files rather than passing
// Go values between stages.
package cluster

// OId is a global object id (the position of a sequence in its originating
// VolumedFile), matching seqset.OId's role one level up.
type OId = uint64

// PairEntry is a candidate (rep, member) coverage pair, spec §3.
// Uni-directional coverage picks rep as the longer record (ties by
// smallest oid); mutual coverage stores pairs with min(oid) < max(oid).
type PairEntry struct {
	RepOId    OId
	MemberOId OId
	RepLen    int32
	MemberLen int32
}

// Edge is a PairEntry that has been confirmed by alignment: member is
// covered by rep above the configured identity/coverage thresholds
// (spec §3 "Cluster Edge").
type Edge struct {
	RepOId    OId
	MemberOId OId
	RepLen    int32
	MemberLen int32
}

// Assignment is the decision that member belongs to rep's cluster
// (spec §3).
type Assignment struct {
	MemberOId OId
	RepOId    OId
}

// SeedEntry is one (seed, oid, len) triple emitted by the seed-table stage
// (spec §4.6(a)).
type SeedEntry struct {
	Seed uint64
	OId  OId
	Len  int32
}

// Mode selects uni-directional vs mutual coverage clustering (spec
// §4.6(c)/(g)).
type Mode int

const (
	UniDirectional Mode = iota
	Mutual
)

// Params bundles the thresholds a clustering round is run under.
type Params struct {
	Mode              Mode
	MinPctId          float64
	MemberCoverage    float64
	CenterCoverage    float64
	MinLengthRatio    float64
	SeedCut           float64
	ShapeWeight       int
	LinclustChunkSize uint64
	NumBuckets        int
}
