package dp

import "github.com/kshedden/prosearch/internal/seqalpha"

// FullMatrix runs the plain rectangular Smith-Waterman using the same
// H/E/F lane machinery as BandedSW, for the case where the band would
// cover the whole matrix anyway (very short queries, or explicit `full`
// mode), per spec §4.4.4. By default it emits scores only; pass
// traceback=true to also recover coordinates/transcript.
func FullMatrix(query, target []seqalpha.Letter, score ScoreFunc, gap GapParams, traceback bool) Result {
	return BandedSW(query, target, 0, 0, score, gap, traceback)
}
