package stats

import (
	"testing"

	"github.com/verte-zerg/tuikeys/internal/model"
)

func shortcutsFor(tool string, ids ...string) model.Tool {
	out := model.Tool{Name: tool}
	for _, id := range ids {
		out.Shortcuts = append(out.Shortcuts, model.Shortcut{
			ID:              id,
			Tool:            tool,
			Description:     "do " + id,
			KeyCombinations: []model.KeyCombinationSpec{{"Control", "s"}},
			IsAvailable:     true,
		})
	}
	return out
}

func TestCountsOfEachStatus(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f"}
	history := model.AnsweredHistory{
		"a": {true},
		"b": {false},
		"c": {true, true},
		"d": {false, false},
	}
	removed := model.NewIDSet("c", "d", "f")

	counts := CountsOfEachStatus(ids, history, removed)
	if counts.Mastered != (Bucket{Included: 1, Removed: 1}) {
		t.Fatalf("unexpected mastered bucket: %+v", counts.Mastered)
	}
	if counts.Unmastered != (Bucket{Included: 1, Removed: 1}) {
		t.Fatalf("unexpected unmastered bucket: %+v", counts.Unmastered)
	}
	if counts.NoAnswered != (Bucket{Included: 1, Removed: 1}) {
		t.Fatalf("unexpected no-answered bucket: %+v", counts.NoAnswered)
	}
	if counts.Total() != len(ids) {
		t.Fatalf("expected buckets to sum to %d, got %d", len(ids), counts.Total())
	}
}

func TestCountsOfEachStatusIgnoresForeignHistory(t *testing.T) {
	history := model.AnsweredHistory{"other": {true}}
	counts := CountsOfEachStatus([]string{"a"}, history, nil)
	if counts.NoAnswered.Included != 1 || counts.Total() != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestMasteredRateOfEachTool(t *testing.T) {
	tools := map[string]model.Tool{
		"vim":  shortcutsFor("vim", "vim/001", "vim/002", "vim/003"),
		"git":  shortcutsFor("git", "git/001"),
		"tmux": shortcutsFor("tmux", "tmux/001", "tmux/002"),
	}
	history := model.AnsweredHistory{
		"vim/001":  {true},
		"vim/002":  {true},
		"vim/003":  {false},
		"tmux/001": {true},
	}
	removed := model.NewIDSet("git/001", "tmux/002")

	rates := MasteredRateOfEachTool(tools, history, removed)
	if len(rates) != 3 {
		t.Fatalf("expected 3 rates, got %d", len(rates))
	}
	if rates[0].Name != "git" || rates[1].Name != "tmux" || rates[2].Name != "vim" {
		t.Fatalf("rates not sorted by name: %+v", rates)
	}
	if !rates[0].AllRemoved || rates[0].Rate != 0 {
		t.Fatalf("expected git to be all removed with rate 0: %+v", rates[0])
	}
	if rates[1].Rate != 100 || rates[1].Total != 1 {
		t.Fatalf("expected tmux rate 100 over 1 shortcut: %+v", rates[1])
	}
	if rates[2].Rate != 66 || rates[2].Mastered != 2 || rates[2].Total != 3 {
		t.Fatalf("expected vim rate 66 (floored): %+v", rates[2])
	}
}

func TestShortcutStatusesAndWeakest(t *testing.T) {
	tool := shortcutsFor("vim", "vim/001", "vim/002", "vim/003", "vim/004")
	history := model.AnsweredHistory{
		"vim/001": {true, true},
		"vim/002": {false},
		"vim/003": {true, false},
	}
	removed := model.NewIDSet("vim/003")

	statuses := ShortcutStatuses(tool.Shortcuts, history, removed)
	if len(statuses) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(statuses))
	}
	if !statuses[0].Mastered || statuses[0].Correct != 2 || statuses[0].Accuracy() != 1 {
		t.Fatalf("unexpected status for vim/001: %+v", statuses[0])
	}
	if statuses[3].Answered() || statuses[3].Weight != 1 {
		t.Fatalf("expected unanswered vim/004 with weight 1: %+v", statuses[3])
	}
	if got := StatusLabel(statuses[2]); got != "learning (removed)" {
		t.Fatalf("unexpected label: %q", got)
	}

	weakest := WeakestShortcuts(statuses, 5)
	if len(weakest) != 2 {
		t.Fatalf("expected answered non-removed shortcuts only, got %d", len(weakest))
	}
	if weakest[0].Shortcut.ID != "vim/002" || weakest[1].Shortcut.ID != "vim/001" {
		t.Fatalf("unexpected weakest order: %s, %s", weakest[0].Shortcut.ID, weakest[1].Shortcut.ID)
	}
	if got := WeakestShortcuts(statuses, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
