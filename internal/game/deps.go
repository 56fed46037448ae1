package game

import (
	"context"
	"time"

	"github.com/verte-zerg/tuikeys/internal/model"
)

// Catalog loads the static shortcut data.
type Catalog interface {
	LoadAllTools() (map[string]model.Tool, error)
	LoadShortcutsByTool(tool string) ([]model.Shortcut, error)
}

// HistoryStore persists answer history and removed shortcut ids.
type HistoryStore interface {
	LoadAnsweredHistory(ctx context.Context) (model.AnsweredHistory, error)
	SaveAnsweredHistory(ctx context.Context, history model.AnsweredHistory) error
	LoadRemovedIDs(ctx context.Context) ([]string, error)
	SaveRemovedIDs(ctx context.Context, ids []string) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Scheduler runs task after delay on the same event loop that delivers key
// events. Implementations must never run task concurrently with other
// session calls.
type Scheduler interface {
	Schedule(delay time.Duration, task func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(delay time.Duration, task func())

// Schedule implements Scheduler.
func (f SchedulerFunc) Schedule(delay time.Duration, task func()) {
	f(delay, task)
}
