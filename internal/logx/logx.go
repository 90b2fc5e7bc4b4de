// Package logx sets up the per-stage *log.Logger every prosearch binary
// writes to, matching setupLogger() in cmd/muscato_screen/muscato_screen.go
// and its siblings: one file named after the stage, log.Ltime flags, no
// structured-logging framework. The pack's domain dependencies cover
// storage/transport/compute, not logging, so every teacher stage already
// uses stdlib log — there is no ecosystem logger to adopt here (see
// DESIGN.md ambient-stack entry).
package logx

import (
	"log"
	"os"
	"path/filepath"
)

// New creates (or truncates) "<dir>/<stage>.log" and returns a logger
// writing to it with log.Ltime flags, exactly as every muscato_* stage's
// setupLogger does.
func New(dir, stage string) (*log.Logger, *os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(filepath.Join(dir, stage+".log"))
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "", log.Ltime), f, nil
}
