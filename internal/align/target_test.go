package align

import "testing"

func TestAddHspTracksBestScoreAndEValue(t *testing.T) {
	tgt := &Target{BlockID: 7}
	tgt.AddHsp(Hsp{Frame: 0, Score: 10, EValue: 1e-2})
	tgt.AddHsp(Hsp{Frame: 0, Score: 30, EValue: 1e-8})
	tgt.AddHsp(Hsp{Frame: 1, Score: 5, EValue: 1})

	if tgt.FilterScore != 30 {
		t.Errorf("FilterScore = %d, want 30", tgt.FilterScore)
	}
	if tgt.FilterEValue != 1e-8 {
		t.Errorf("FilterEValue = %v, want 1e-8", tgt.FilterEValue)
	}
	if len(tgt.FramesHsps[0]) != 2 || len(tgt.FramesHsps[1]) != 1 {
		t.Errorf("FramesHsps population = %+v", tgt.FramesHsps)
	}
}

func TestAllHspsFlattensFrames(t *testing.T) {
	tgt := &Target{BlockID: 1}
	tgt.AddHsp(Hsp{Frame: 0, Score: 1})
	tgt.AddHsp(Hsp{Frame: 2, Score: 2})
	if got := len(tgt.AllHsps()); got != 2 {
		t.Errorf("AllHsps() len = %d, want 2", got)
	}
}

func TestRecomputeRestoresBestAfterMutation(t *testing.T) {
	tgt := &Target{BlockID: 1}
	tgt.AddHsp(Hsp{Frame: 0, Score: 10, EValue: 1e-2})
	tgt.AddHsp(Hsp{Frame: 0, Score: 50, EValue: 1e-9})

	// simulate culling removing the best Hsp directly
	tgt.FramesHsps[0] = tgt.FramesHsps[0][:1]
	tgt.Recompute()

	if tgt.FilterScore != 10 {
		t.Errorf("FilterScore after Recompute = %d, want 10", tgt.FilterScore)
	}
	if tgt.FilterEValue != 1e-2 {
		t.Errorf("FilterEValue after Recompute = %v, want 1e-2", tgt.FilterEValue)
	}
}

func TestRecomputeEmptyTarget(t *testing.T) {
	tgt := &Target{BlockID: 1}
	tgt.Recompute()
	if tgt.FilterScore != 0 {
		t.Errorf("FilterScore = %d, want 0", tgt.FilterScore)
	}
	if tgt.FilterEValue != posInf {
		t.Errorf("FilterEValue = %v, want posInf", tgt.FilterEValue)
	}
}

func TestNewMatchSortsHsps(t *testing.T) {
	tgt := &Target{BlockID: 3}
	tgt.AddHsp(Hsp{Frame: 0, Score: 10, EValue: 1e-3})
	tgt.AddHsp(Hsp{Frame: 0, Score: 90, EValue: 1e-9})
	m := NewMatch(tgt, nil)
	if m.TargetBlockID != 3 {
		t.Errorf("TargetBlockID = %d, want 3", m.TargetBlockID)
	}
	if len(m.Hsps) != 2 || m.Hsps[0].EValue != 1e-9 {
		t.Errorf("NewMatch did not sort Hsps by evalue: %+v", m.Hsps)
	}
}

func TestNewSingleHspMatch(t *testing.T) {
	h := Hsp{Score: 42, EValue: 1e-4}
	m := NewSingleHspMatch(9, h)
	if m.TargetBlockID != 9 || m.FilterScore != 42 || m.FilterEValue != 1e-4 {
		t.Errorf("NewSingleHspMatch = %+v", m)
	}
	if len(m.Hsps) != 1 || m.Hsps[0].Score != 42 {
		t.Errorf("NewSingleHspMatch.Hsps = %+v", m.Hsps)
	}
}
