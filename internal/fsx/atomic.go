package fsx

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// AtomicCounter is a file-backed monotonic counter shared across worker
// processes, used to hand out OId ranges and chunk indices during the
// external clustering passes (spec §4.6). Every Next() call flocks the
// backing file, so counters survive process restarts the same way
// muscato's scipipe DAG survives a re-run of any one stage.
type AtomicCounter struct {
	path string
}

// OpenAtomicCounter returns a counter backed by path, creating it with an
// initial value of 0 if it does not exist.
func OpenAtomicCounter(path string) (*AtomicCounter, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("0\n"), 0o644); err != nil {
			return nil, err
		}
	}
	return &AtomicCounter{path: path}, nil
}

// Next atomically reads the current value, adds delta, writes it back, and
// returns the pre-increment value.
func (c *AtomicCounter) Next(delta int64) (int64, error) {
	f, err := os.OpenFile(c.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return 0, err
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	buf := make([]byte, 32)
	n, err := f.ReadAt(buf, 0)
	if err != nil && n == 0 {
		return 0, err
	}
	var cur int64
	if n > 0 {
		cur, err = strconv.ParseInt(trimNewline(buf[:n]), 10, 64)
		if err != nil {
			return 0, err
		}
	}
	if err := f.Truncate(0); err != nil {
		return 0, err
	}
	if _, err := f.WriteAt([]byte(fmt.Sprintf("%d\n", cur+delta)), 0); err != nil {
		return 0, err
	}
	return cur, nil
}

func trimNewline(b []byte) string {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r' || b[len(b)-1] == ' ') {
		b = b[:len(b)-1]
	}
	return string(b)
}
