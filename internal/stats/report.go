package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/verte-zerg/tuikeys/internal/model"
	"github.com/verte-zerg/tuikeys/internal/store"
)

const weakestLimit = 10

// Report contains precomputed data for stats rendering.
type Report struct {
	Tool        string
	CurveWindow int
	Counts      StatusCounts
	Rates       []ToolRate
	Shortcuts   []ShortcutStatus
	Runs        []model.Run
}

// BuildReport loads history and removed ids and aggregates them over tools.
// When cfg.Tool is set, counts, shortcuts and runs are limited to that tool;
// rates always cover every tool.
func BuildReport(ctx context.Context, st *store.Store, tools map[string]model.Tool, cfg model.StatsConfig) (Report, error) {
	if cfg.Tool != "" {
		if _, ok := tools[cfg.Tool]; !ok {
			return Report{}, fmt.Errorf("unknown tool %q", cfg.Tool)
		}
	}
	history, err := st.LoadAnsweredHistory(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load history: %w", err)
	}
	removedIDs, err := st.LoadRemovedIDs(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load removed shortcuts: %w", err)
	}
	runs, err := st.ListRuns(ctx, cfg.Tool)
	if err != nil {
		return Report{}, fmt.Errorf("list runs: %w", err)
	}
	removed := model.NewIDSet(removedIDs...)

	shortcuts := selectShortcuts(tools, cfg.Tool)
	ids := make([]string, len(shortcuts))
	for i, sc := range shortcuts {
		ids[i] = sc.ID
	}

	return Report{
		Tool:        cfg.Tool,
		CurveWindow: cfg.CurveWindow,
		Counts:      CountsOfEachStatus(ids, history, removed),
		Rates:       MasteredRateOfEachTool(tools, history, removed),
		Shortcuts:   ShortcutStatuses(shortcuts, history, removed),
		Runs:        runs,
	}, nil
}

func selectShortcuts(tools map[string]model.Tool, name string) []model.Shortcut {
	if name != "" {
		return tools[name].Shortcuts
	}
	names := make([]string, 0, len(tools))
	for n := range tools {
		names = append(names, n)
	}
	sort.Strings(names)
	var out []model.Shortcut
	for _, n := range names {
		out = append(out, tools[n].Shortcuts...)
	}
	return out
}
