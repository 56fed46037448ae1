package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupTestLogger(t *testing.T, level string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "tuikeys.log")
	if err := Init(path, level); err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(Close)
	return path
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %v, got %v", name, want, got)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLogsRespectLevel(t *testing.T) {
	path := setupTestLogger(t, "info")

	Component("game").Debug("hidden-debug-line")
	Component("game").Info("visible-info-line", "shortcut", "vim/001")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(content)
	if strings.Contains(text, "hidden-debug-line") {
		t.Fatalf("debug line should be filtered:\n%s", text)
	}
	if !strings.Contains(text, "visible-info-line") || !strings.Contains(text, "component=game") || !strings.Contains(text, "shortcut=vim/001") {
		t.Fatalf("expected structured info line:\n%s", text)
	}
}

func TestSetLevelEnablesDebug(t *testing.T) {
	path := setupTestLogger(t, "error")
	SetLevel(slog.LevelDebug)
	Get().Debug("now-visible")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(content), "now-visible") {
		t.Fatalf("expected debug line after SetLevel")
	}
}

func TestCloseDiscards(t *testing.T) {
	path := setupTestLogger(t, "info")
	Close()
	Get().Error("after-close")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(content), "after-close") {
		t.Fatalf("expected output to be discarded after Close")
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := Init(filepath.Join(t.TempDir(), "x.log"), "loud"); err == nil {
		t.Fatalf("expected error")
	}
}
