package fsx

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WorkDir is the per-run scratch directory layout (spec §6): a uniquely
// named root under the user-supplied base directory, mirroring the
// directory-per-scipipe.Process convention the teacher's cmd/muscato
// driver sets up in its "workdir" flag handling (cmd/muscato/muscato.go).
// A clustering run's rounds (spec §4.6 "Round schedule") each get their
// own subtree under Root so a later round's stages never read or
// overwrite an earlier round's files.
type WorkDir struct {
	Root string
}

// NewWorkDir creates base/run-<uuid> and returns its handle.
func NewWorkDir(base string) (*WorkDir, error) {
	root := filepath.Join(base, "run-"+uuid.NewString())
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &WorkDir{Root: root}, nil
}

// RoundDir returns (creating if needed) the subtree reserved for
// clustering round idx, e.g. round0, round1, ... one per entry in a
// RoundSchedule. Every stage of that round derives its own
// "seedtable"/"pairtable"/etc. subdirectories underneath it.
func (w *WorkDir) RoundDir(idx int) (string, error) {
	dir := filepath.Join(w.Root, fmt.Sprintf("round%d", idx))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Stage returns (creating if needed) a named stage subdirectory within
// round idx, e.g. "seedtable", "pairtable", "chunktable", "buildchunks",
// "clusteralign", "closure".
func (w *WorkDir) Stage(idx int, name string) (string, error) {
	round, err := w.RoundDir(idx)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(round, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Remove deletes the entire work directory tree.
func (w *WorkDir) Remove() error {
	return os.RemoveAll(w.Root)
}
