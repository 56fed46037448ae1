package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/verte-zerg/tuikeys/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "tuikeys.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestAnsweredHistoryRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	empty, err := st.LoadAnsweredHistory(ctx)
	if err != nil {
		t.Fatalf("load empty history: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty history, got %v", empty)
	}

	history := model.AnsweredHistory{
		"vim/001": {true, false},
		"git/002": {false},
	}
	if err := st.SaveAnsweredHistory(ctx, history); err != nil {
		t.Fatalf("save history: %v", err)
	}
	history["vim/001"] = append(history["vim/001"], true)
	history["tmux/001"] = []bool{true}
	if err := st.SaveAnsweredHistory(ctx, history); err != nil {
		t.Fatalf("save appended history: %v", err)
	}

	loaded, err := st.LoadAnsweredHistory(ctx)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if !reflect.DeepEqual(loaded, history) {
		t.Fatalf("unexpected history: %v", loaded)
	}

	if err := st.ResetHistory(ctx); err != nil {
		t.Fatalf("reset history: %v", err)
	}
	loaded, err = st.LoadAnsweredHistory(ctx)
	if err != nil {
		t.Fatalf("load reset history: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty history after reset, got %v", loaded)
	}
}

func TestSaveAnsweredHistoryIsIdempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	history := model.AnsweredHistory{"vim/001": {true}}
	for i := 0; i < 3; i++ {
		if err := st.SaveAnsweredHistory(ctx, history); err != nil {
			t.Fatalf("save history: %v", err)
		}
	}
	loaded, err := st.LoadAnsweredHistory(ctx)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(loaded["vim/001"]) != 1 {
		t.Fatalf("expected a single stored answer, got %v", loaded["vim/001"])
	}
}

func TestRemovedIDsReplaceSet(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.SaveRemovedIDs(ctx, []string{"vim/002", "vim/001"}); err != nil {
		t.Fatalf("save removed: %v", err)
	}
	ids, err := st.LoadRemovedIDs(ctx)
	if err != nil {
		t.Fatalf("load removed: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"vim/001", "vim/002"}) {
		t.Fatalf("unexpected removed ids: %v", ids)
	}

	if err := st.SaveRemovedIDs(ctx, []string{"vim/002", "git/001"}); err != nil {
		t.Fatalf("save removed: %v", err)
	}
	ids, err = st.LoadRemovedIDs(ctx)
	if err != nil {
		t.Fatalf("load removed: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"git/001", "vim/002"}) {
		t.Fatalf("unexpected removed ids after replace: %v", ids)
	}

	if err := st.SaveRemovedIDs(ctx, nil); err != nil {
		t.Fatalf("clear removed: %v", err)
	}
	ids, err = st.LoadRemovedIDs(ctx)
	if err != nil {
		t.Fatalf("load removed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no removed ids, got %v", ids)
	}
}

func TestRunsFilterAndOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	runs := []model.Run{
		{ID: "b", Tool: "vim", StartedAt: base.Add(time.Hour), EndedAt: base.Add(2 * time.Hour), Correct: 4, Wrong: 1},
		{ID: "a", Tool: "vim", StartedAt: base, EndedAt: base.Add(time.Minute), Correct: 2, Wrong: 2},
		{ID: "c", Tool: "git", StartedAt: base, EndedAt: base.Add(30 * time.Minute), Correct: 1},
	}
	for _, run := range runs {
		if err := st.InsertRun(ctx, run); err != nil {
			t.Fatalf("insert run: %v", err)
		}
	}

	vim, err := st.ListRuns(ctx, "vim")
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(vim) != 2 || vim[0].ID != "a" || vim[1].ID != "b" {
		t.Fatalf("unexpected vim runs: %+v", vim)
	}
	if !vim[1].EndedAt.Equal(base.Add(2*time.Hour)) || vim[1].Correct != 4 || vim[1].Wrong != 1 {
		t.Fatalf("unexpected run fields: %+v", vim[1])
	}

	all, err := st.ListRuns(ctx, "")
	if err != nil {
		t.Fatalf("list all runs: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
}

func TestInsertRunUpdatesCurrentRun(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	if err := st.InsertRun(ctx, model.Run{Tool: "vim", StartedAt: start, EndedAt: start, Correct: 1}); err != nil {
		t.Fatalf("insert run: %v", err)
	}
	if err := st.InsertRun(ctx, model.Run{Tool: "git", StartedAt: start, EndedAt: start.Add(time.Minute), Correct: 3, Wrong: 2}); err != nil {
		t.Fatalf("update run: %v", err)
	}
	runs, err := st.ListRuns(ctx, "")
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected a single run for this process, got %d", len(runs))
	}
	if runs[0].ID != st.RunID() || runs[0].Tool != "git" || runs[0].Correct != 3 || runs[0].Wrong != 2 {
		t.Fatalf("unexpected run: %+v", runs[0])
	}
}
