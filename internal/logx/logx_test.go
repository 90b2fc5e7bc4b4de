package logx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCreatesStageLogFile(t *testing.T) {
	dir := t.TempDir()
	logger, f, err := New(dir, "seedtable")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer f.Close()

	logger.Print("hello")

	path := filepath.Join(dir, "seedtable.log")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file contents = %q, want to contain \"hello\"", data)
	}
}

func TestNewCreatesMissingDir(t *testing.T) {
	base := t.TempDir()
	nested := filepath.Join(base, "a", "b")
	_, f, err := New(nested, "stage")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer f.Close()
	if _, err := os.Stat(nested); err != nil {
		t.Errorf("New did not create nested directory: %v", err)
	}
}

func TestNewTruncatesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stage.log")
	if err := os.WriteFile(path, []byte("stale content that should be gone"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	_, f, err := New(dir, "stage")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	f.Close()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("file was not truncated, contents = %q", data)
	}
}
