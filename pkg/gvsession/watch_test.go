package gvsession

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcher_WakesOnCreateAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shared_view")

	fw, err := NewFileWatcher(path, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	defer fw.Close()

	if err := os.WriteFile(path, []byte("RAX=0x1"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fw.Wake():
	case <-time.After(2 * time.Second):
		t.Fatal("No wake after the snapshot file was created")
	}

	if err := os.WriteFile(path, []byte("RAX=0x2"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fw.Wake():
	case <-time.After(2 * time.Second):
		t.Fatal("No wake after the snapshot file was written")
	}
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWatcher(filepath.Join(dir, "shared_view"), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	defer fw.Close()

	if err := os.WriteFile(filepath.Join(dir, "other"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fw.Wake():
		t.Error("Unexpected wake for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFileWatcher_MissingDirectory(t *testing.T) {
	_, err := NewFileWatcher(filepath.Join(t.TempDir(), "missing", "shared_view"), 0)
	if err == nil {
		t.Error("Expected an error watching a missing directory")
	}
}

func TestFileWatcher_CloseIsIdempotent(t *testing.T) {
	fw, err := NewFileWatcher(filepath.Join(t.TempDir(), "shared_view"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := fw.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestStatsString(t *testing.T) {
	s := Stats{Polls: 3, Frames: 2, NoData: 1}
	want := "polls=3 frames=2 no-data=1 decode-errors=0 changed-slots=0 keys=0"
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
