package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEnsureDir_CreatesParents(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "a", "b", "c")
	d := New()

	if err := d.EnsureDir(folder); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(folder)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("%s is not a directory", folder)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	folder := t.TempDir()
	d := New()
	for i := 0; i < 2; i++ {
		if err := d.EnsureDir(folder); err != nil {
			t.Fatalf("EnsureDir #%d: %v", i+1, err)
		}
	}
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := New().EnsureDir(filepath.Join(blocker, "shots")); err == nil {
		t.Fatal("EnsureDir: expected error when a file blocks the path")
	}
}

func TestFileName_DefaultLayout(t *testing.T) {
	at := time.Date(2024, 3, 9, 7, 5, 3, 42_000_000, time.UTC)
	got := New().FileName(at)
	want := "2024-03-09_07-05-03.042.png"
	if got != want {
		t.Fatalf("FileName: got %q, want %q", got, want)
	}
}

func TestWrite_Overwrites(t *testing.T) {
	folder := t.TempDir()
	d := New(WithLayout("20060102"))
	at := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	if _, err := d.Write(folder, at, []byte("first")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	path, err := d.Write(folder, at, []byte("second"))
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if want := filepath.Join(folder, "20240102.png"); path != want {
		t.Fatalf("path: got %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte("second")) {
		t.Fatalf("content: got %q, want %q", data, "second")
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("files: got %d, want 1", len(entries))
	}
}

func TestWrite_MissingFolder(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "missing")
	if _, err := New().Write(folder, time.Now(), []byte("x")); err == nil {
		t.Fatal("Write: expected error for missing folder")
	}
}
