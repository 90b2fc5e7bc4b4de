package align

import (
	"testing"

	"github.com/kshedden/prosearch/internal/dp"
	"github.com/kshedden/prosearch/internal/scoring"
)

func TestLessOrdersByEValueThenScoreThenBegin(t *testing.T) {
	a := Hsp{EValue: 1e-10, Score: 50, QueryRange: Interval{0, 10}}
	b := Hsp{EValue: 1e-5, Score: 90, QueryRange: Interval{0, 10}}
	if !Less(a, b) {
		t.Error("lower evalue should sort first regardless of score")
	}

	c := Hsp{EValue: 1e-5, Score: 90, QueryRange: Interval{5, 10}}
	d := Hsp{EValue: 1e-5, Score: 60, QueryRange: Interval{0, 10}}
	if !Less(c, d) {
		t.Error("equal evalue, higher score should sort first")
	}

	e := Hsp{EValue: 1e-5, Score: 60, QueryRange: Interval{0, 10}}
	f := Hsp{EValue: 1e-5, Score: 60, QueryRange: Interval{3, 10}}
	if !Less(e, f) {
		t.Error("equal evalue and score, lower query begin should sort first")
	}
}

func TestSortHspsOrdersByEValue(t *testing.T) {
	hsps := []Hsp{
		{EValue: 1e-3, Score: 10},
		{EValue: 1e-9, Score: 80},
		{EValue: 1e-5, Score: 40},
	}
	SortHsps(hsps)
	if hsps[0].EValue != 1e-9 || hsps[1].EValue != 1e-5 || hsps[2].EValue != 1e-3 {
		t.Errorf("SortHsps order = %+v, want ascending evalue", hsps)
	}
}

func TestFromDPResultCarriesFields(t *testing.T) {
	m := scoring.Blosum62()
	r := dp.Result{
		Score:        30,
		QueryBegin:   2,
		QueryEnd:     10,
		SubjectBegin: 1,
		SubjectEnd:   9,
		Identities:   6,
		Length:       8,
	}
	h := FromDPResult(r, 1, m, 1e6, true)
	if h.Score != 30 || h.Frame != 1 || h.Length != 8 || h.Identities != 6 {
		t.Errorf("FromDPResult mismapped scalar fields: %+v", h)
	}
	if h.QueryRange != (Interval{2, 10}) {
		t.Errorf("QueryRange = %+v, want {2 10}", h.QueryRange)
	}
	if h.SubjectRange != (Interval{1, 9}) {
		t.Errorf("SubjectRange = %+v, want {1 9}", h.SubjectRange)
	}
	if h.QuerySourceRange != h.QueryRange {
		t.Errorf("QuerySourceRange = %+v, want equal to QueryRange", h.QuerySourceRange)
	}
	if h.BitScore <= 0 {
		t.Errorf("BitScore = %v, want positive", h.BitScore)
	}
}

func TestFromDPResultTranslatesAndCompactsTranscript(t *testing.T) {
	m := scoring.Blosum62()
	r := dp.Result{
		Score: 10,
		Transcript: []dp.Op{
			{Kind: dp.OpMatch}, {Kind: dp.OpMatch},
			{Kind: dp.OpSubst, Letter: 3},
			{Kind: dp.OpInsertion}, {Kind: dp.OpInsertion},
			{Kind: dp.OpDeletion, Letter: 5},
		},
	}
	h := FromDPResult(r, 0, m, 1e6, true)
	if len(h.Transcript) != 4 {
		t.Fatalf("Transcript = %+v, want 4 compacted ops", h.Transcript)
	}
	if h.Transcript[0].Kind != EditMatch || h.Transcript[0].Len != 2 {
		t.Errorf("Transcript[0] = %+v, want 2 compacted matches", h.Transcript[0])
	}
	if h.Transcript[1].Kind != EditSubstitution || h.Transcript[1].Letter != 3 {
		t.Errorf("Transcript[1] = %+v, want substitution letter 3", h.Transcript[1])
	}
	if h.Transcript[2].Kind != EditInsertion || h.Transcript[2].Len != 2 {
		t.Errorf("Transcript[2] = %+v, want 2 compacted insertions", h.Transcript[2])
	}
	if h.Transcript[3].Kind != EditDeletion || h.Transcript[3].Letter != 5 {
		t.Errorf("Transcript[3] = %+v, want deletion letter 5", h.Transcript[3])
	}
}

func TestFromDPResultNoTranscriptWhenTracebackOmitted(t *testing.T) {
	m := scoring.Blosum62()
	r := dp.Result{Score: 10}
	h := FromDPResult(r, 0, m, 1e6, true)
	if h.Transcript != nil {
		t.Errorf("Transcript = %+v, want nil", h.Transcript)
	}
}
