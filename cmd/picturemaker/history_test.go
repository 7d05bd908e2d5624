package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/lapse/idgen"
	"github.com/hazyhaar/lapse/picturemaker"
	"github.com/hazyhaar/lapse/picturemaker/shot"
)

var (
	oldID = idgen.New()
	newID = idgen.New()
)

func seedJournal(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := picturemaker.OpenJournal(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer j.Close()

	ctx := context.Background()
	older := shot.Run{ID: oldID, Address: "https://a.example", OutputFolder: "out", Total: 2, Status: shot.StatusRunning, StartedAt: 1000}
	newer := shot.Run{ID: newID, Address: "https://b.example", OutputFolder: "out", Total: 1, Status: shot.StatusRunning, StartedAt: 2000}
	for _, r := range []shot.Run{older, newer} {
		if err := j.Begin(ctx, r); err != nil {
			t.Fatalf("begin %s: %v", r.ID, err)
		}
	}
	if err := j.Shot(ctx, shot.Shot{SessionID: oldID, Seq: 1, Total: 2, Path: "out/a.png", Bytes: 10, TakenAt: 1500}); err != nil {
		t.Fatalf("shot: %v", err)
	}
	older.Taken, older.Status, older.EndedAt = 1, shot.StatusFailed, 1800
	older.Error = "boom"
	if err := j.Finish(ctx, older); err != nil {
		t.Fatalf("finish: %v", err)
	}
	return path
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&app{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHistory_Sessions(t *testing.T) {
	path := seedJournal(t)

	out, err := runRoot(t, "history", "--journal", path, "--log-level", "error")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}

	var first, second shot.Run
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.ID != newID || second.ID != oldID {
		t.Errorf("order: got %s, %s, want newest first", first.ID, second.ID)
	}
	if second.Status != shot.StatusFailed || second.Error != "boom" || second.Taken != 1 {
		t.Errorf("finished run: got %+v", second)
	}
}

func TestHistory_Limit(t *testing.T) {
	path := seedJournal(t)

	out, err := runRoot(t, "history", "--journal", path, "--limit", "1", "--log-level", "error")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if n := strings.Count(out, "\n"); n != 1 {
		t.Errorf("got %d lines, want 1", n)
	}
}

func TestHistory_Shots(t *testing.T) {
	path := seedJournal(t)

	out, err := runRoot(t, "history", "--journal", path, "--session", oldID, "--log-level", "error")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var s shot.Shot
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &s); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if s.Seq != 1 || s.Path != "out/a.png" || s.Bytes != 10 {
		t.Errorf("shot: got %+v", s)
	}
}

func TestHistory_InvalidSessionID(t *testing.T) {
	path := seedJournal(t)

	_, err := runRoot(t, "history", "--journal", path, "--session", "ses_old", "--log-level", "error")
	if err == nil || !strings.Contains(err.Error(), "invalid session id") {
		t.Fatalf("got %v, want invalid session id error", err)
	}
}

func TestHistory_JournalRequired(t *testing.T) {
	if _, err := runRoot(t, "history"); err == nil {
		t.Fatal("expected error without --journal")
	}
}

func TestCapture_URLRequired(t *testing.T) {
	_, err := runRoot(t, "capture", "--minutes", "1", "--log-level", "error")
	if err == nil || !strings.Contains(err.Error(), "url is required") {
		t.Fatalf("got %v, want url required error", err)
	}
}
