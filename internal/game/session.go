// Package game implements the shortcut practice session: judging pressed
// keys, phase transitions, removal and adaptive selection of the next shortcut.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/verte-zerg/tuikeys/internal/keyboard"
	"github.com/verte-zerg/tuikeys/internal/model"
	"github.com/verte-zerg/tuikeys/internal/sampler"
)

// DefaultTransitionDelay is how long timed phases stay on screen.
const DefaultTransitionDelay = time.Second

// RestorePrompt is the question asked before restoring removed shortcuts.
const RestorePrompt = "All removed shortcuts will be practiced again.\nContinue?"

// ErrNoShortcuts is returned when a tool has no shortcuts to practice.
var ErrNoShortcuts = errors.New("game: no shortcuts")

// Options carries the collaborators of a Session.
type Options struct {
	Catalog   Catalog
	Store     HistoryStore
	Scheduler Scheduler
	Sampler   *sampler.Sampler
	Delay     time.Duration
	Logger    *slog.Logger
}

// Snapshot is a read-only view of a committed session state.
type Snapshot struct {
	Version      uint64
	Shortcut     model.Shortcut
	Phase        Phase
	Pressed      []string
	IsListening  bool
	IsWrong      bool
	IsShaking    bool
	IsAllRemoved bool
}

// IsCorrectKeyPressed reports whether the correct answer is being shown.
func (s Snapshot) IsCorrectKeyPressed() bool { return s.Phase == PhaseCorrect }

// IsRemoveKeyPressed reports whether the removal notice is being shown.
func (s Snapshot) IsRemoveKeyPressed() bool { return s.Phase == PhaseRemoved }

// IsSelectToolsKeyPressed reports whether the tool picker is open.
func (s Snapshot) IsSelectToolsKeyPressed() bool { return s.Phase == PhaseSelectingTools }

// IsShowCorrectKeyPressed reports whether the answer of an unavailable shortcut is revealed.
func (s Snapshot) IsShowCorrectKeyPressed() bool { return s.Phase == PhaseShowingCorrectAnswer }

// IsMarkedSelfAsCorrect reports whether the user graded themselves correct.
func (s Snapshot) IsMarkedSelfAsCorrect() bool { return s.Phase == PhaseMarkedSelfCorrect }

// IsMarkedSelfAsWrong reports whether the user graded themselves wrong.
func (s Snapshot) IsMarkedSelfAsWrong() bool { return s.Phase == PhaseMarkedSelfWrong }

// Session is the practice state machine. It is not safe for concurrent use;
// key events and scheduled tasks must arrive on one event loop.
type Session struct {
	ctx       context.Context
	catalog   Catalog
	store     HistoryStore
	scheduler Scheduler
	sampler   *sampler.Sampler
	delay     time.Duration
	log       *slog.Logger

	shortcuts []model.Shortcut
	shortcut  model.Shortcut
	pressed   *keyboard.KeyCombination
	removed   model.IDSet
	history   model.AnsweredHistory

	phase     Phase
	listening bool
	wrong     bool
	shaking   bool

	// epoch invalidates scheduled tasks whenever transient state is reset.
	epoch   uint64
	version uint64

	observers []*observer
	tally     Tally
}

type observer struct {
	fn func(Snapshot)
}

// Tally counts results recorded by this session.
type Tally struct {
	Correct int
	Wrong   int
}

// New creates a session over shortcuts. history and removedIDs are the
// persisted state at start; they are copied.
func New(ctx context.Context, shortcuts []model.Shortcut, history model.AnsweredHistory, removedIDs []string, opts Options) (*Session, error) {
	if len(shortcuts) == 0 {
		return nil, ErrNoShortcuts
	}
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("game: scheduler is required")
	}
	if opts.Sampler == nil {
		opts.Sampler = sampler.New(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if history == nil {
		history = model.AnsweredHistory{}
	}
	s := &Session{
		ctx:       ctx,
		catalog:   opts.Catalog,
		store:     opts.Store,
		scheduler: opts.Scheduler,
		sampler:   opts.Sampler,
		delay:     opts.Delay,
		log:       opts.Logger,
		shortcuts: append([]model.Shortcut(nil), shortcuts...),
		pressed:   keyboard.NewKeyCombination(),
		removed:   model.NewIDSet(removedIDs...),
		history:   history.Clone(),
		listening: true,
	}
	s.shortcut = s.firstIncluded()
	return s, nil
}

// Load builds a session for tool from the catalog and the history store.
func Load(ctx context.Context, tool string, opts Options) (*Session, error) {
	if opts.Catalog == nil || opts.Store == nil {
		return nil, fmt.Errorf("game: catalog and store are required")
	}
	shortcuts, err := opts.Catalog.LoadShortcutsByTool(tool)
	if err != nil {
		return nil, fmt.Errorf("failed to load shortcuts for %q: %w", tool, err)
	}
	history, err := opts.Store.LoadAnsweredHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load answered history: %w", err)
	}
	removed, err := opts.Store.LoadRemovedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load removed shortcuts: %w", err)
	}
	return New(ctx, shortcuts, history, removed, opts)
}

// Subscribe registers fn to receive a snapshot after every committed
// transition. The returned function unregisters it.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	o := &observer{fn: fn}
	s.observers = append(s.observers, o)
	return func() {
		for i, cur := range s.observers {
			if cur == o {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Version:      s.version,
		Shortcut:     s.shortcut,
		Phase:        s.phase,
		Pressed:      s.pressed.Keys(),
		IsListening:  s.listening,
		IsWrong:      s.wrong,
		IsShaking:    s.shaking,
		IsAllRemoved: s.IsAllRemoved(),
	}
}

// KeyDown presses key and judges the resulting combination.
func (s *Session) KeyDown(key string) {
	if s.IsAllRemoved() || !s.listening {
		return
	}
	s.pressed.KeyDown(key)
	s.judge()
	s.commit()
}

// KeyUp releases key.
func (s *Session) KeyUp(key string) {
	if s.IsAllRemoved() || !s.listening {
		return
	}
	s.pressed.KeyUp(key)
	s.commit()
}

func (s *Session) judge() {
	pressed := s.pressed
	if !pressed.HasPressedSomeKey() {
		return
	}
	specs := s.shortcut.KeyCombinations
	if pressed.IsModifierKey() && !anySpec(specs, keyboard.IsOnlyModifierKeys) {
		return
	}

	switch {
	case pressed.IsOnlyEnterKey() && !anySpec(specs, keyboard.IsOnlyEnterKeySpec):
		s.log.Debug("skip", "shortcut", s.shortcut.ID)
		s.shortcut = s.nextShortcut()
		s.resetTypingState()
		return
	case pressed.IsRemoveKey():
		s.respondToRemoveKey()
		return
	case pressed.IsSelectToolsKey():
		s.respondToSelectToolsKey()
		return
	}

	if s.shortcut.IsAvailable {
		matched := anySpec(specs, func(spec model.KeyCombinationSpec) bool {
			return pressed.Is(spec) ||
				(keyboard.IsOnlyModifierKeys(spec) && pressed.HasEqualModifiers(spec))
		})
		switch {
		case matched:
			s.respondToCorrectKey()
		case !s.wrong && !pressed.IsModifierKey():
			s.respondToWrongKey()
		}
		return
	}

	showing := s.phase == PhaseShowingCorrectAnswer
	switch {
	case !showing && pressed.IsShowCorrectKey():
		s.respondToShowCorrectKey()
	case showing && pressed.IsMarkedSelfAsCorrectKey():
		s.respondToMarkSelf(true)
	case showing && pressed.IsMarkedSelfAsWrongKey():
		s.respondToMarkSelf(false)
	}
}

func (s *Session) respondToCorrectKey() {
	s.listening = false
	s.phase = PhaseCorrect
	if !s.wrong {
		s.saveResult(s.shortcut.ID, true)
	}
	s.after(s.advance)
}

func (s *Session) respondToWrongKey() {
	s.listening = false
	s.phase = PhaseWrong
	s.wrong = true
	s.shaking = true
	s.saveResult(s.shortcut.ID, false)
	s.after(func() {
		s.phase = PhaseListening
		s.listening = true
		s.shaking = false
		s.pressed.Reset()
	})
}

func (s *Session) respondToRemoveKey() {
	s.listening = false
	s.phase = PhaseRemoved
	s.removed[s.shortcut.ID] = struct{}{}
	s.saveRemoved()
	s.after(s.advance)
}

func (s *Session) respondToSelectToolsKey() {
	s.resetTypingState()
	s.listening = false
	s.phase = PhaseSelectingTools
}

func (s *Session) respondToShowCorrectKey() {
	s.resetTypingState()
	s.phase = PhaseShowingCorrectAnswer
}

func (s *Session) respondToMarkSelf(correct bool) {
	s.listening = false
	if correct {
		s.phase = PhaseMarkedSelfCorrect
	} else {
		s.phase = PhaseMarkedSelfWrong
	}
	s.saveResult(s.shortcut.ID, correct)
	s.after(s.advance)
}

// advance moves to the next shortcut and resumes listening. When every
// shortcut has been removed the current one is kept.
func (s *Session) advance() {
	if !s.IsAllRemoved() {
		s.shortcut = s.nextShortcut()
	}
	s.resetTypingState()
	s.listening = true
}

// after schedules task; it is dropped if transient state is reset first.
func (s *Session) after(task func()) {
	token := s.epoch
	s.scheduler.Schedule(s.delay, func() {
		if token != s.epoch {
			s.log.Debug("drop stale transition", "shortcut", s.shortcut.ID)
			return
		}
		task()
		s.commit()
	})
}

func (s *Session) resetTypingState() {
	s.epoch++
	s.phase = PhaseListening
	s.wrong = false
	s.shaking = false
	s.pressed.Reset()
}

func (s *Session) commit() {
	s.version++
	s.log.Debug("state",
		"version", s.version,
		"shortcut", s.shortcut.ID,
		"phase", s.phase.String(),
		"listening", s.listening)
	if len(s.observers) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, o := range append([]*observer(nil), s.observers...) {
		o.fn(snap)
	}
}

// nextShortcut prefers unanswered shortcuts in id order after the current
// one, then draws answered shortcuts by weight. Callers must make sure at
// least one shortcut is available.
func (s *Session) nextShortcut() model.Shortcut {
	var nextID string
	if fresh := s.noAnsweredAvailableIDs(); len(fresh) > 0 {
		sort.Strings(fresh)
		nextID = fresh[0]
		for _, id := range fresh {
			if id > s.shortcut.ID {
				nextID = id
				break
			}
		}
	} else {
		nextID = s.sampler.WeightedSampleKey(s.availableIDToWeight())
	}
	for _, sc := range s.shortcuts {
		if sc.ID == nextID {
			return sc
		}
	}
	return s.shortcut
}

func (s *Session) saveResult(id string, result bool) {
	s.history[id] = append(s.history[id], result)
	if result {
		s.tally.Correct++
	} else {
		s.tally.Wrong++
	}
	if s.store == nil {
		return
	}
	if err := s.store.SaveAnsweredHistory(s.ctx, s.history); err != nil {
		s.log.Error("failed to save answered history", "err", err)
	}
}

func (s *Session) saveRemoved() {
	if s.store == nil {
		return
	}
	if err := s.store.SaveRemovedIDs(s.ctx, s.removed.Sorted()); err != nil {
		s.log.Error("failed to save removed shortcuts", "err", err)
	}
}

// RestoreRemovedShortcuts puts every removed shortcut back into rotation
// after confirm agrees. It reports whether anything was restored.
func (s *Session) RestoreRemovedShortcuts(confirm Confirmer) bool {
	if confirm == nil || !confirm.Confirm(RestorePrompt) {
		return false
	}
	s.removed = model.IDSet{}
	s.saveRemoved()
	s.resetTypingState()
	s.listening = true
	s.shortcut = s.shortcuts[0]
	s.commit()
	return true
}

// UpdateTool switches to the shortcuts of tool and dismisses the tool picker.
func (s *Session) UpdateTool(tool string) error {
	if s.catalog == nil {
		return fmt.Errorf("game: no catalog")
	}
	shortcuts, err := s.catalog.LoadShortcutsByTool(tool)
	if err != nil {
		return fmt.Errorf("failed to load shortcuts for %q: %w", tool, err)
	}
	if len(shortcuts) == 0 {
		return fmt.Errorf("%w for tool %q", ErrNoShortcuts, tool)
	}
	s.shortcuts = shortcuts
	s.shortcut = s.firstIncluded()
	s.log.Info("switched tool", "tool", tool, "shortcuts", len(shortcuts))
	s.HideToolsView()
	return nil
}

// HideToolsView dismisses the tool picker and resumes listening.
func (s *Session) HideToolsView() {
	s.resetTypingState()
	s.listening = true
	s.commit()
}

// Shortcut returns the current shortcut.
func (s *Session) Shortcut() model.Shortcut {
	return s.shortcut
}

// Shortcuts returns the shortcuts of the active tool.
func (s *Session) Shortcuts() []model.Shortcut {
	return append([]model.Shortcut(nil), s.shortcuts...)
}

// History returns a copy of the answered history.
func (s *Session) History() model.AnsweredHistory {
	return s.history.Clone()
}

// RemovedIDs returns the removed shortcut ids in ascending order.
func (s *Session) RemovedIDs() []string {
	return s.removed.Sorted()
}

// Tally returns the results recorded by this session.
func (s *Session) Tally() Tally {
	return s.tally
}

// IDs returns the ids of the active shortcuts in catalog order.
func (s *Session) IDs() []string {
	ids := make([]string, len(s.shortcuts))
	for i, sc := range s.shortcuts {
		ids[i] = sc.ID
	}
	return ids
}

// AvailableIDs returns the ids of active shortcuts that are not removed.
func (s *Session) AvailableIDs() []string {
	ids := make([]string, 0, len(s.shortcuts))
	for _, sc := range s.shortcuts {
		if !s.removed.Has(sc.ID) {
			ids = append(ids, sc.ID)
		}
	}
	return ids
}

// IsAllRemoved reports whether every active shortcut has been removed.
func (s *Session) IsAllRemoved() bool {
	for _, sc := range s.shortcuts {
		if !s.removed.Has(sc.ID) {
			return false
		}
	}
	return true
}

// RemovedShortcutExists reports whether any shortcut is removed.
func (s *Session) RemovedShortcutExists() bool {
	return len(s.removed) > 0
}

// WordsFilledByCorrectKeys renders the first answer of the current shortcut.
func (s *Session) WordsFilledByCorrectKeys() []string {
	words := s.answerWords()
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}

// WordsFilledByPressedKeys renders the answer slots filled with the held keys.
func (s *Session) WordsFilledByPressedKeys() []string {
	return keyboard.FillWithPressed(s.answerWords(), s.pressed.Keys())
}

func (s *Session) answerWords() []keyboard.Word {
	if len(s.shortcut.KeyCombinations) == 0 {
		return nil
	}
	return keyboard.SplitByKey(s.shortcut.KeyCombinations[0])
}

func (s *Session) noAnsweredAvailableIDs() []string {
	var ids []string
	for _, id := range s.AvailableIDs() {
		if len(s.history[id]) == 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Session) availableIDToWeight() map[string]float64 {
	weights := map[string]float64{}
	for _, id := range s.AvailableIDs() {
		if results := s.history[id]; len(results) > 0 {
			weights[id] = sampler.Weight(results)
		}
	}
	return weights
}

func (s *Session) firstIncluded() model.Shortcut {
	for _, sc := range s.shortcuts {
		if !s.removed.Has(sc.ID) {
			return sc
		}
	}
	return s.shortcuts[0]
}

func anySpec(specs []model.KeyCombinationSpec, pred func(model.KeyCombinationSpec) bool) bool {
	for _, spec := range specs {
		if pred(spec) {
			return true
		}
	}
	return false
}
