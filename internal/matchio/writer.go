// Package matchio writes the external-facing results table, one line per
// Hsp, the same tab-separated plain-text convention
// cmd/muscato/muscato.go's final merge stage writes to ResultsFileName
// (Fprintf("\t%d\t%d\t%s\n", ...)).
package matchio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/kshedden/prosearch/internal/align"
)

// Writer appends Match records to an underlying io.Writer as tab-
// separated lines: query_id, target_oid, frame, score, bit_score,
// evalue, q_begin, q_end, s_begin, s_end, identities, length.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w in a buffered matchio Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteMatch emits one line per Hsp in m, prefixed by queryID and the
// match's TargetOId.
func (wr *Writer) WriteMatch(queryID uint64, targetOId uint64, m align.Match) error {
	for _, h := range m.Hsps {
		_, err := fmt.Fprintf(wr.w, "%d\t%d\t%d\t%d\t%.1f\t%.3g\t%d\t%d\t%d\t%d\t%d\t%d\n",
			queryID, targetOId, h.Frame, h.Score, h.BitScore, h.EValue,
			h.QueryRange.Begin, h.QueryRange.End,
			h.SubjectRange.Begin, h.SubjectRange.End,
			h.Identities, h.Length)
		if err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying buffered writer.
func (wr *Writer) Flush() error {
	return wr.w.Flush()
}
