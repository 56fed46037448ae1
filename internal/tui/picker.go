package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuikeys/internal/model"
	"github.com/verte-zerg/tuikeys/internal/stats"
)

const pickerHeight = 10

func newToolTable() table.Model {
	t := table.New(
		table.WithColumns(toolColumns()),
		table.WithFocused(true),
		table.WithHeight(pickerHeight),
	)
	t.SetStyles(toolTableStyles())
	return t
}

func toolColumns() []table.Column {
	return []table.Column{
		{Title: "Tool", Width: 14},
		{Title: "Mastered", Width: 9},
		{Title: "Progress", Width: 12},
		{Title: "Shortcuts", Width: 9},
	}
}

func toolRows(rates []stats.ToolRate, tools map[string]model.Tool) []table.Row {
	rows := make([]table.Row, 0, len(rates))
	for _, r := range rates {
		rate := fmt.Sprintf("%d%%", r.Rate)
		bar := stats.RateBar(r.Rate, 10)
		if r.AllRemoved {
			rate = "-"
			bar = "all removed"
		}
		rows = append(rows, table.Row{
			r.Name,
			rate,
			bar,
			fmt.Sprintf("%d", len(tools[r.Name].Shortcuts)),
		})
	}
	return rows
}

func toolTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#C89A3A")).
		Bold(true)
	return styles
}

// refreshPicker recomputes the mastered rates and moves the cursor to the active tool.
func (m *Model) refreshPicker() {
	removed := model.NewIDSet(m.session.RemovedIDs()...)
	rates := stats.MasteredRateOfEachTool(m.tools, m.session.History(), removed)
	m.toolTable.SetRows(toolRows(rates, m.tools))
	current := m.session.Shortcut().Tool
	for i, r := range rates {
		if r.Name == current {
			m.toolTable.SetCursor(i)
			break
		}
	}
}

func (m *Model) selectedTool() string {
	row := m.toolTable.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}
