package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuikeys/internal/model"
	"github.com/verte-zerg/tuikeys/internal/store"
)

func testTool(name string, ids ...string) model.Tool {
	tool := model.Tool{Name: name}
	for _, id := range ids {
		tool.Shortcuts = append(tool.Shortcuts, model.Shortcut{
			ID:              id,
			Tool:            name,
			Description:     "do " + id,
			KeyCombinations: []model.KeyCombinationSpec{{"Control", "s"}},
			IsAvailable:     true,
		})
	}
	return tool
}

func newTestModel(t *testing.T, cfg model.StatsConfig) *Model {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tuikeys.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	history := model.AnsweredHistory{
		"vim/001": {true},
		"vim/002": {false},
	}
	if err := st.SaveAnsweredHistory(context.Background(), history); err != nil {
		t.Fatalf("save history: %v", err)
	}
	tools := map[string]model.Tool{
		"vim":  testTool("vim", "vim/001", "vim/002", "vim/003"),
		"tmux": testTool("tmux", "tmux/001"),
	}
	m := NewModel(st, tools, cfg)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return m
}

func TestOverviewShowsStatusCards(t *testing.T) {
	m := newTestModel(t, model.StatsConfig{Tool: "vim", CurveWindow: 2})
	view := m.View()
	for _, want := range []string{"Overview", "Mastered", "Learning", "No runs recorded.", "tool=vim"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if m.errMsg != "" {
		t.Fatalf("unexpected error: %s", m.errMsg)
	}
}

func TestTabsCycle(t *testing.T) {
	m := newTestModel(t, model.StatsConfig{CurveWindow: 2})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabTools {
		t.Fatalf("expected tools tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "tmux") {
		t.Fatalf("expected tool rates in view:\n%s", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabShortcuts {
		t.Fatalf("expected shortcuts tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "vim/001") {
		t.Fatalf("expected shortcut rows in view:\n%s", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected wrap to overview, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabShortcuts {
		t.Fatalf("expected wrap to shortcuts, got %d", m.activeTab)
	}
}

func TestCurveWindowKeys(t *testing.T) {
	m := newTestModel(t, model.StatsConfig{CurveWindow: 2})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	if m.cfg.CurveWindow != 5 || m.report.CurveWindow != 5 {
		t.Fatalf("expected window 5, got cfg=%d report=%d", m.cfg.CurveWindow, m.report.CurveWindow)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	if m.cfg.CurveWindow != 1 {
		t.Fatalf("expected window 1, got %d", m.cfg.CurveWindow)
	}
}

func TestFilterRejectsUnknownTool(t *testing.T) {
	m := newTestModel(t, model.StatsConfig{CurveWindow: 2})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("nope")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode || !strings.Contains(m.filterError, "unknown tool") {
		t.Fatalf("expected unknown tool error, got mode=%v err=%q", m.filterMode, m.filterError)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filterMode || m.cfg.Tool != "" {
		t.Fatalf("expected cancelled filter, got mode=%v tool=%q", m.filterMode, m.cfg.Tool)
	}
}

func TestFilterAppliesTool(t *testing.T) {
	m := newTestModel(t, model.StatsConfig{CurveWindow: 2})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("tmux")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter to close, err=%q", m.filterError)
	}
	if m.cfg.Tool != "tmux" || len(m.report.Shortcuts) != 1 {
		t.Fatalf("expected tmux report, got tool=%q shortcuts=%d", m.cfg.Tool, len(m.report.Shortcuts))
	}
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct {
		in, next, prev int
	}{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tc := range cases {
		if got := nextCurveWindow(tc.in); got != tc.next {
			t.Fatalf("next(%d): expected %d, got %d", tc.in, tc.next, got)
		}
		if got := prevCurveWindow(tc.in); got != tc.prev {
			t.Fatalf("prev(%d): expected %d, got %d", tc.in, tc.prev, got)
		}
	}
}
