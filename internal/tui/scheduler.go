package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// taskMsg fires a scheduled session task inside Update.
type taskMsg struct {
	id int
}

type queuedTask struct {
	id    int
	delay time.Duration
}

// Scheduler turns session tasks into tea.Tick commands so they run on the
// Bubble Tea event loop instead of timer goroutines.
type Scheduler struct {
	next   int
	queued []queuedTask
	tasks  map[int]func()
}

// NewScheduler returns an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{tasks: map[int]func(){}}
}

// Schedule implements game.Scheduler.
func (s *Scheduler) Schedule(delay time.Duration, task func()) {
	s.next++
	s.tasks[s.next] = task
	s.queued = append(s.queued, queuedTask{id: s.next, delay: delay})
}

// Cmd returns tick commands for every task scheduled since the last call.
func (s *Scheduler) Cmd() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(s.queued))
	for _, q := range s.queued {
		id := q.id
		cmds = append(cmds, tea.Tick(q.delay, func(time.Time) tea.Msg {
			return taskMsg{id: id}
		}))
	}
	s.queued = s.queued[:0]
	return tea.Batch(cmds...)
}

// Run executes the task with id once. It reports whether the task existed.
func (s *Scheduler) Run(id int) bool {
	task, ok := s.tasks[id]
	if !ok {
		return false
	}
	delete(s.tasks, id)
	task()
	return true
}

// Pending returns the number of tasks that have not run yet.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}
