// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuikeys/internal/game"
	"github.com/verte-zerg/tuikeys/internal/keyboard"
	"github.com/verte-zerg/tuikeys/internal/model"
	"github.com/verte-zerg/tuikeys/internal/stats"
)

// Model implements the Bubble Tea practice UI.
type Model struct {
	session   *game.Session
	scheduler *Scheduler
	tools     map[string]model.Tool
	log       *slog.Logger
	now       func() time.Time

	width  int
	height int

	startedAt   time.Time
	snap        game.Snapshot
	toolTable   table.Model
	pickerShown bool
	confirming  bool
	errMsg      string
}

var (
	toolStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	descriptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	separatorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	emptySlotStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A")).Underline(true)
	pressedKeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Padding(0, 1)
	correctKeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true).Padding(0, 1)
	wrongKeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true).Padding(0, 1)
	revealedKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true).Padding(0, 1)
	hintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	modalStyle       = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A")).
				Padding(1, 2)
)

const shakeOffset = 2

// NewModel constructs the practice UI. scheduler must be the one the session
// was created with so its transitions run inside Update.
func NewModel(session *game.Session, scheduler *Scheduler, tools map[string]model.Tool, log *slog.Logger) *Model {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	m := &Model{
		session:   session,
		scheduler: scheduler,
		tools:     tools,
		log:       log,
		now:       time.Now,
		toolTable: newToolTable(),
	}
	m.startedAt = m.now()
	m.snap = session.Snapshot()
	session.Subscribe(func(s game.Snapshot) {
		m.snap = s
	})
	m.syncPicker()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.scheduler.Cmd()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case taskMsg:
		m.scheduler.Run(msg.id)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch {
		case m.confirming:
			m.handleConfirm(msg)
		case m.pickerOpen():
			if cmd := m.handlePicker(msg); cmd != nil {
				return m, cmd
			}
		default:
			m.press(msg)
		}
	default:
		return m, nil
	}
	m.syncPicker()
	return m, m.scheduler.Cmd()
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch {
	case m.confirming:
		content = m.renderConfirm()
	case m.pickerOpen():
		content = m.renderPicker()
	default:
		content = m.renderPractice()
	}
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

// Run summarizes the practice run for persistence.
func (m *Model) Run() model.Run {
	tally := m.session.Tally()
	return model.Run{
		Tool:      m.session.Shortcut().Tool,
		StartedAt: m.startedAt,
		EndedAt:   m.now(),
		Correct:   tally.Correct,
		Wrong:     tally.Wrong,
	}
}

// press feeds one terminal key event to the session. Terminals report no
// releases, so every key is released right after the press.
func (m *Model) press(msg tea.KeyMsg) {
	if msg.Paste || (msg.Type == tea.KeyRunes && len(msg.Runes) != 1) {
		return
	}
	keys := keyboard.FromTerminal(msg.String())
	if len(keys) == 0 {
		return
	}
	m.log.Debug("key", "terminal", msg.String(), "keys", keys)
	for _, key := range keys {
		m.session.KeyDown(key)
	}
	for i := len(keys) - 1; i >= 0; i-- {
		m.session.KeyUp(keys[i])
	}
}

func (m *Model) pickerOpen() bool {
	return m.snap.Phase == game.PhaseSelectingTools || m.snap.IsAllRemoved
}

func (m *Model) syncPicker() {
	open := m.pickerOpen()
	if open && !m.pickerShown {
		m.refreshPicker()
	}
	m.pickerShown = open
}

func (m *Model) handlePicker(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		tool := m.selectedTool()
		if tool == "" {
			return nil
		}
		if err := m.session.UpdateTool(tool); err != nil {
			m.log.Error("failed to switch tool", "tool", tool, "err", err)
			m.errMsg = err.Error()
			return nil
		}
		m.errMsg = ""
	case "esc":
		if !m.snap.IsAllRemoved {
			m.session.HideToolsView()
		}
	case "r":
		if m.session.RemovedShortcutExists() {
			m.confirming = true
		}
	case "q":
		return tea.Quit
	default:
		var cmd tea.Cmd
		m.toolTable, cmd = m.toolTable.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleConfirm(msg tea.KeyMsg) {
	var accepted bool
	switch msg.String() {
	case "y", "enter":
		accepted = true
	case "n", "esc":
	default:
		return
	}
	m.confirming = false
	restored := m.session.RestoreRemovedShortcuts(game.ConfirmFunc(func(string) bool {
		return accepted
	}))
	if restored {
		m.log.Info("restored removed shortcuts")
	}
}

func (m *Model) renderPractice() string {
	sc := m.snap.Shortcut
	lines := []string{
		toolStyle.Render(sc.Tool),
		"",
		descriptionStyle.Render(sc.Description),
		"",
		m.renderKeys(),
		"",
		hintStyle.Render(m.statusLine()),
	}
	content := strings.Join(lines, "\n")
	if m.snap.IsShaking {
		content = lipgloss.NewStyle().PaddingLeft(shakeOffset).Render(content)
	}
	return content
}

func (m *Model) renderKeys() string {
	width := m.contentWidth()
	switch m.snap.Phase {
	case game.PhaseCorrect, game.PhaseMarkedSelfCorrect:
		return wrapStyledWords(buildKeyWords(m.session.WordsFilledByCorrectKeys(), slotCorrect), width)
	case game.PhaseMarkedSelfWrong:
		return wrapStyledWords(buildKeyWords(m.session.WordsFilledByCorrectKeys(), slotWrong), width)
	case game.PhaseShowingCorrectAnswer, game.PhaseRemoved:
		return m.renderAlternatives(width)
	case game.PhaseWrong:
		return wrapStyledWords(buildKeyWords(m.session.WordsFilledByPressedKeys(), slotWrong), width)
	}
	return wrapStyledWords(buildKeyWords(m.session.WordsFilledByPressedKeys(), slotTyping), width)
}

func (m *Model) renderAlternatives(width int) string {
	specs := m.snap.Shortcut.KeyCombinations
	parts := make([]string, 0, len(specs))
	for _, spec := range specs {
		words := keyboard.SplitByKey(spec)
		texts := make([]string, len(words))
		for i, w := range words {
			texts[i] = w.Text
		}
		parts = append(parts, wrapStyledWords(buildKeyWords(texts, slotRevealed), width))
	}
	return strings.Join(parts, separatorStyle.Render("  or  "))
}

func (m *Model) statusLine() string {
	switch m.snap.Phase {
	case game.PhaseCorrect:
		return "Correct"
	case game.PhaseWrong:
		return "Wrong, try again"
	case game.PhaseRemoved:
		return "Removed from rotation"
	case game.PhaseShowingCorrectAnswer:
		return "Did you know it?  y yes · n no"
	case game.PhaseMarkedSelfCorrect:
		return "Marked as known"
	case game.PhaseMarkedSelfWrong:
		return "Marked as unknown"
	}
	if !m.snap.Shortcut.IsAvailable {
		return "Terminals cannot capture this one. Space shows the answer"
	}
	return "Enter skip · Ctrl+\\ remove · Esc tools · Ctrl+C quit"
}

func (m *Model) renderPicker() string {
	title := toolStyle.Render("Select a tool")
	lines := []string{title}
	if m.snap.IsAllRemoved {
		lines = append(lines, errorStyle.Render("Every shortcut of "+m.snap.Shortcut.Tool+" is removed."))
	}
	lines = append(lines, "", m.toolTable.View(), "")
	help := "↑/↓ move · Enter select · Esc back · q quit"
	if m.snap.IsAllRemoved {
		help = "↑/↓ move · Enter select · q quit"
	}
	if m.session.RemovedShortcutExists() {
		help += " · r restore removed"
	}
	lines = append(lines, hintStyle.Render(help))
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderConfirm() string {
	body := []string{
		descriptionStyle.Render(game.RestorePrompt),
		"",
		hintStyle.Render("y / Enter restore · n / Esc cancel"),
	}
	return modalStyle.Render(strings.Join(body, "\n"))
}

func (m *Model) renderFooter() string {
	removed := model.NewIDSet(m.session.RemovedIDs()...)
	counts := stats.CountsOfEachStatus(m.session.IDs(), m.session.History(), removed)
	tally := m.session.Tally()
	segments := []string{
		fmt.Sprintf("Run ✓ %d ✗ %d", tally.Correct, tally.Wrong),
		fmt.Sprintf("Mastered %d", counts.Mastered.Included),
		fmt.Sprintf("Learning %d", counts.Unmastered.Included),
		fmt.Sprintf("New %d", counts.NoAnswered.Included),
	}
	if n := counts.Mastered.Removed + counts.Unmastered.Removed + counts.NoAnswered.Removed; n > 0 {
		segments = append(segments, fmt.Sprintf("Removed %d", n))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}
