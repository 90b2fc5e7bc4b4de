// Package fsx implements the on-disk external-memory primitives the
// clustering engine shares across worker processes: Volumes, VolumedFiles,
// an advisory-locked filestack, an atomic counter file, and a radix-
// partitioned FileArray (spec §3, §4.6, §6). Intermediate files are
// snappy-compressed, the way every muscato_* stage writes `*.txt.sz`
// (muscato_screen.go, muscato_confirm.go).
package fsx

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Volume is one file of a multi-file logical table, with an associated OId
// range (spec §3).
type Volume struct {
	Path         string
	RecordCount  int64
	OIdBegin     int64
	OIdEnd       int64
	HasOIdRange  bool
}

// Line serializes a Volume to the `bucket.tsv` record format (spec §6):
// `path\trecord_count[\toid_begin\toid_end]`.
func (v Volume) Line() string {
	if v.HasOIdRange {
		return fmt.Sprintf("%s\t%d\t%d\t%d", v.Path, v.RecordCount, v.OIdBegin, v.OIdEnd)
	}
	return fmt.Sprintf("%s\t%d", v.Path, v.RecordCount)
}

// ParseVolumeLine parses one bucket.tsv line back into a Volume.
func ParseVolumeLine(line string) (Volume, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 2 && len(fields) != 4 {
		return Volume{}, fmt.Errorf("fsx: malformed volume line %q", line)
	}
	rc, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Volume{}, err
	}
	v := Volume{Path: fields[0], RecordCount: rc}
	if len(fields) == 4 {
		begin, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return Volume{}, err
		}
		end, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return Volume{}, err
		}
		v.OIdBegin, v.OIdEnd, v.HasOIdRange = begin, end, true
	}
	return v, nil
}

// VolumedFile is a sorted list of non-overlapping Volumes; it is the unit
// of radix/bucket I/O (spec §3).
type VolumedFile struct {
	Volumes []Volume
}

// Append registers a completed volume, keeping Volumes sorted by OIdBegin
// when ranges are present.
func (vf *VolumedFile) Append(v Volume) {
	vf.Volumes = append(vf.Volumes, v)
	if v.HasOIdRange {
		sortVolumesByOId(vf.Volumes)
	}
}

func sortVolumesByOId(vs []Volume) {
	for i := 1; i < len(vs); i++ {
		for j := i; j > 0 && vs[j].OIdBegin < vs[j-1].OIdBegin; j-- {
			vs[j], vs[j-1] = vs[j-1], vs[j]
		}
	}
}

// TotalRecords sums RecordCount across every volume.
func (vf *VolumedFile) TotalRecords() int64 {
	var n int64
	for _, v := range vf.Volumes {
		n += v.RecordCount
	}
	return n
}

// WriteBucketTSV writes every volume's Line() to path, newline-terminated.
func WriteBucketTSV(path string, vf VolumedFile) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, v := range vf.Volumes {
		if _, err := w.WriteString(v.Line() + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

// ReadBucketTSV reads a bucket.tsv file back into a VolumedFile.
func ReadBucketTSV(path string) (VolumedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return VolumedFile{}, err
	}
	defer f.Close()
	var vf VolumedFile
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		v, err := ParseVolumeLine(line)
		if err != nil {
			return VolumedFile{}, err
		}
		vf.Volumes = append(vf.Volumes, v)
	}
	return vf, sc.Err()
}
