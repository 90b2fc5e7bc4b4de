package align

import (
	"sort"

	"github.com/kshedden/prosearch/internal/chain"
	"github.com/kshedden/prosearch/internal/dp"
	"github.com/kshedden/prosearch/internal/scoring"
	"github.com/kshedden/prosearch/internal/seed"
	"github.com/kshedden/prosearch/internal/seqalpha"
	"github.com/kshedden/prosearch/internal/ungapped"
)

// TargetProvider resolves a block-local target id to its residue letters
// and, if the database carries unmasked sequences, the unmasked view.
// Extension and alt-HSP rescan both read only the first (masked) slice.
type TargetProvider func(blockID uint32) (masked []seqalpha.Letter, unmasked []seqalpha.Letter)

// Config bundles the tunables named throughout spec §4.5/§4.5a.
type Config struct {
	Matrix *scoring.Matrix
	Gap    dp.GapParams

	RankingEnabled         bool
	ChunkSize              int
	MaxTargetSeqs          int
	DefaultLetterBudget    int64
	TargetHardCap          int
	RankingScoreDropFactor float64
	RankingCutoffBitscore  float64
	MapAny                 bool

	XDrop          int32
	MinBandOverlap float64

	MaxHsps   int
	MaxEValue float64
	Cull      CullParams

	SearchSpace float64 // effective search space for E-value conversion
	QueryContexts uint32
}

// RunQuery drives one query through the full state machine of spec §4.5:
// load -> (rank+chunk) -> per-chunk(filter, ungapped, chain, DP) ->
// first-round cull -> termination loop -> traceback -> alt-HSP -> cull.
func RunQuery(query []seqalpha.Letter, hits *seed.FlatArray, targetBlockIDs []uint32, targetScores []seed.TargetScore, provider TargetProvider, cfg Config) []Match {
	order := rankTargets(targetScores, cfg.RankingEnabled)

	chunks := chunkTargets(order, cfg.ChunkSize, cfg.MaxTargetSeqs, cfg.DefaultLetterBudget, targetBlockIDs, provider)

	accum := map[uint32]*Target{}
	var lastTail int32 = -1
	processed := 0

	for _, chunk := range chunks {
		if cfg.TargetHardCap > 0 && processed >= cfg.TargetHardCap {
			break
		}
		for _, localT := range chunk {
			if cfg.TargetHardCap > 0 && processed >= cfg.TargetHardCap {
				break
			}
			groupIdx := indexOf(targetBlockIDs, localT)
			if groupIdx < 0 {
				continue
			}
			group := hits.Group(groupIdx)
			if len(group) == 0 {
				continue
			}
			targetSeq, _ := provider(localT)

			t := extendOneTarget(query, targetSeq, group, localT, cfg)
			if t == nil {
				continue
			}
			processed++

			if cfg.Cull.TopPercent < 100 || cfg.MaxEValue < posInf {
				if !passesFirstRoundGate(accum, t, cfg.Cull.TopPercent) {
					continue
				}
			}
			accum[localT] = t
		}

		tail := chunkTailScore(chunk, accum)
		if rankingTerminate(tail, lastTail, cfg) {
			break
		}
		lastTail = tail
	}

	matches := make([]Match, 0, len(accum))
	for _, t := range accum {
		t = alternativeHsps(query, t, provider, cfg)
		for f := range t.FramesHsps {
			t.FramesHsps[f] = InnerCull(t.FramesHsps[f])
		}
		t.Recompute()
		matches = append(matches, NewMatch(t, nil))
	}

	return CrossMatchCull(matches, cfg.Cull)
}

func indexOf(s []uint32, v uint32) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// rankTargets sorts TargetScores by the spec §3 total order when ranking
// mode is enabled; otherwise targets are processed in their natural order.
func rankTargets(scores []seed.TargetScore, ranking bool) []uint32 {
	order := make([]uint32, len(scores))
	idx := make([]int, len(scores))
	for i := range scores {
		idx[i] = i
	}
	if ranking {
		sort.Slice(idx, func(i, j int) bool { return seed.Less(scores[idx[i]], scores[idx[j]]) })
	}
	for i, k := range idx {
		order[i] = scores[k].Target
	}
	return order
}

// chunkTargets groups ranked targets into chunks bounded by chunk size,
// max_target_seqs, and a default-letter budget (spec §4.5 step 2).
func chunkTargets(order []uint32, chunkSize, maxTargetSeqs int, letterBudget int64, targetBlockIDs []uint32, provider TargetProvider) [][]uint32 {
	if chunkSize <= 0 {
		chunkSize = len(order)
		if chunkSize == 0 {
			chunkSize = 1
		}
	}
	var chunks [][]uint32
	var cur []uint32
	var lettersUsed int64
	total := 0
	for _, t := range order {
		if maxTargetSeqs > 0 && total >= maxTargetSeqs {
			break
		}
		if len(cur) >= chunkSize || (letterBudget > 0 && lettersUsed >= letterBudget) {
			chunks = append(chunks, cur)
			cur = nil
			lettersUsed = 0
		}
		cur = append(cur, t)
		total++
		if letterBudget > 0 {
			seq, _ := provider(t)
			lettersUsed += int64(len(seq))
		}
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

func chunkTailScore(chunk []uint32, accum map[uint32]*Target) int32 {
	var tail int32 = -1
	for _, t := range chunk {
		if target, ok := accum[t]; ok {
			if tail < 0 || target.FilterScore < tail {
				tail = target.FilterScore
			}
		}
	}
	return tail
}

// rankingTerminate implements the score-based exit tests of spec §4.5
// step 6: cutoff bitscore, score-drop factor, and MapAny when a chunk
// yields no target. It does not look at TargetHardCap; RunQuery checks the
// hard cap before every target and every chunk, so the cap takes effect
// ahead of all the tests here (the §9 Open Question decision).
func rankingTerminate(tail, lastTail int32, cfg Config) bool {
	if !cfg.RankingEnabled {
		return false
	}
	if tail < 0 {
		return cfg.MapAny
	}
	bit := scoring.BitScore(cfg.Matrix, tail, true)
	if bit < cfg.RankingCutoffBitscore {
		return true
	}
	if lastTail > 0 && cfg.RankingScoreDropFactor > 0 {
		if float64(tail)/float64(lastTail) <= cfg.RankingScoreDropFactor {
			return true
		}
	}
	return false
}

func passesFirstRoundGate(accum map[uint32]*Target, t *Target, topPercent float64) bool {
	if topPercent >= 100 || len(accum) == 0 {
		return true
	}
	var best int32
	first := true
	for _, v := range accum {
		if first || v.FilterScore > best {
			best = v.FilterScore
			first = false
		}
	}
	gate := float64(best) * topPercent / 100
	return float64(t.FilterScore) >= gate
}

// extendOneTarget runs ungapped extension + chaining + DP for a single
// target's seed-hit group, producing a Target with fully-scored Hsps
// (spec §4.5 steps 3-4).
func extendOneTarget(query, target []seqalpha.Letter, hits []seed.Hit, blockID uint32, cfg Config) *Target {
	scoreFn := func(a, b seqalpha.Letter) int32 { return cfg.Matrix.Score(a, b) }

	byFrame := map[uint8][]ungapped.DiagonalSegment{}
	var ungappedBest int32
	for _, h := range hits {
		seg := ungapped.Extend(query, target, h.QueryPos, h.TargetPos, scoreFn, cfg.XDrop, false)
		if seg.Score <= 0 {
			continue
		}
		byFrame[h.Frame] = append(byFrame[h.Frame], seg)
		if seg.Score > ungappedBest {
			ungappedBest = seg.Score
		}
	}
	if len(byFrame) == 0 {
		return nil
	}

	t := &Target{BlockID: blockID, UngappedScore: ungappedBest}
	for frame, segs := range byFrame {
		approx := chain.Chain(segs, frame, cfg.MinBandOverlap)
		for _, a := range approx {
			band := a.DMax - a.DMin + 4
			res := dp.BandedSW(query, target, a.DMin-2, a.DMax+2, scoreFn, cfg.Gap, false)
			if res.Score <= 0 {
				continue
			}
			h := FromDPResult(res, frame, cfg.Matrix, cfg.SearchSpace, true)
			if h.EValue > cfg.MaxEValue {
				continue
			}
			t.AddHsp(h)
			_ = band
		}
	}
	if t.totalHspCount() == 0 {
		return nil
	}
	return t
}

func (t *Target) totalHspCount() int {
	n := 0
	for _, f := range t.FramesHsps {
		n += len(f)
	}
	return n
}
