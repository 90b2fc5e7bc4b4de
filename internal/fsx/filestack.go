package fsx

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Filestack is an advisory-locked append log: concurrent workers claim the
// next slot by flock'ing the index file, matching spec §5's "filestack"
// primitive used to hand out chunk/bucket ids to worker processes without
// a central coordinator. Grounded on the lock discipline muscato_confirm
// and muscato_screen apply to their shared snappy outputs, generalized
// here with golang.org/x/sys/unix.Flock since the teacher never needed
// cross-process coordination beyond scipipe's pipe-based DAG.
type Filestack struct {
	f *os.File
}

// OpenFilestack opens (creating if absent) the index file backing a
// Filestack.
func OpenFilestack(path string) (*Filestack, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	return &Filestack{f: f}, nil
}

// Close releases the underlying file.
func (fs *Filestack) Close() error {
	return fs.f.Close()
}

// Lock acquires an exclusive advisory lock, blocking until available.
func (fs *Filestack) Lock() error {
	return unix.Flock(int(fs.f.Fd()), unix.LOCK_EX)
}

// Unlock releases the advisory lock.
func (fs *Filestack) Unlock() error {
	return unix.Flock(int(fs.f.Fd()), unix.LOCK_UN)
}

// Push appends a path under the lock, returning its 0-based slot index.
func (fs *Filestack) Push(path string) (int, error) {
	if err := fs.Lock(); err != nil {
		return 0, err
	}
	defer fs.Unlock()

	info, err := fs.f.Stat()
	if err != nil {
		return 0, err
	}
	slot := 0
	if info.Size() > 0 {
		n, err := countLines(fs.f)
		if err != nil {
			return 0, err
		}
		slot = n
	}
	if _, err := fs.f.Seek(0, os.SEEK_END); err != nil {
		return 0, err
	}
	if _, err := fmt.Fprintf(fs.f, "%s\n", path); err != nil {
		return 0, err
	}
	return slot, nil
}

func countLines(f *os.File) (int, error) {
	if _, err := f.Seek(0, os.SEEK_SET); err != nil {
		return 0, err
	}
	buf := make([]byte, 32*1024)
	n := 0
	for {
		c, err := f.Read(buf)
		for i := 0; i < c; i++ {
			if buf[i] == '\n' {
				n++
			}
		}
		if err != nil {
			break
		}
	}
	return n, nil
}
