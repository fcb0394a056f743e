package root

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("KANNACS_THINK_DELAY", "0s")
	t.Setenv("KANNACS_DISPLAY_DELAY", "0s")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", db}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandsShareProgress(t *testing.T) {
	db := filepath.Join(t.TempDir(), "kn.db")

	for _, name := range []string{"chiffon", "Segawa Emi", "Akizuki Kanna"} {
		if _, err := run(t, db, "fav", name); err != nil {
			t.Fatalf("fav %s: %v", name, err)
		}
	}
	out, err := run(t, db, "achievements")
	if err != nil {
		t.Fatalf("achievements: %v", err)
	}
	if !strings.Contains(out, "(1/5)") {
		t.Fatalf("achievements output:\n%s", out)
	}

	out, err = run(t, db, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Chiffon, Segawa Emi, Akizuki Kanna") {
		t.Fatalf("status output:\n%s", out)
	}
}

func TestPlayRejectsUnknownChoice(t *testing.T) {
	db := filepath.Join(t.TempDir(), "kn.db")
	if _, err := run(t, db, "play", "lizard"); err == nil {
		t.Fatalf("expected error for unknown choice")
	}
}

func TestPlayRecordsResult(t *testing.T) {
	db := filepath.Join(t.TempDir(), "kn.db")
	if _, err := run(t, db, "play", "rock"); err != nil {
		t.Fatalf("play: %v", err)
	}
	out, err := run(t, db, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	// Exactly one of wins/losses/draw happened; a draw leaves 0 / 0.
	if !strings.Contains(out, "1 / 0") && !strings.Contains(out, "0 / 1") && !strings.Contains(out, "0 / 0") {
		t.Fatalf("status output:\n%s", out)
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	db := filepath.Join(t.TempDir(), "kn.db")
	if _, err := run(t, db, "reset"); err == nil {
		t.Fatalf("expected reset without --yes to fail")
	}
	if _, err := run(t, db, "paint", "0", "0", "#ff004d"); err != nil {
		t.Fatalf("paint: %v", err)
	}
	if _, err := run(t, db, "reset", "--yes"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	out, err := run(t, db, "canvas")
	if err != nil {
		t.Fatalf("canvas: %v", err)
	}
	if !strings.Contains(out, "(0 painted)") {
		t.Fatalf("canvas output:\n%s", out)
	}
}

func TestPaintRejectsBadColor(t *testing.T) {
	db := filepath.Join(t.TempDir(), "kn.db")
	if _, err := run(t, db, "paint", "0", "0", "blue"); err == nil {
		t.Fatalf("expected invalid color error")
	}
}
