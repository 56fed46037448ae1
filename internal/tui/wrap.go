package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type slotState int

const (
	slotTyping slotState = iota
	slotCorrect
	slotWrong
	slotRevealed
)

const emptySlot = "   "

type styledWord struct {
	s     string
	width int
	isKey bool
}

// buildKeyWords styles the words of a rendered combination. Even indexes are
// key slots and odd indexes are " + " separators; an empty key slot has not
// been pressed yet.
func buildKeyWords(words []string, state slotState) []styledWord {
	out := make([]styledWord, 0, len(words))
	for i, text := range words {
		if i%2 == 1 {
			out = append(out, styledWord{
				s:     separatorStyle.Render(text),
				width: runewidth.StringWidth(text),
			})
			continue
		}
		style := keyStyleFor(state)
		if text == "" {
			text = emptySlot
			style = emptySlotStyle
		}
		rendered := style.Render(text)
		out = append(out, styledWord{
			s:     rendered,
			width: lipgloss.Width(rendered),
			isKey: true,
		})
	}
	return out
}

func keyStyleFor(state slotState) lipgloss.Style {
	switch state {
	case slotCorrect:
		return correctKeyStyle
	case slotWrong:
		return wrongKeyStyle
	case slotRevealed:
		return revealedKeyStyle
	default:
		return pressedKeyStyle
	}
}

func renderStyledWords(words []styledWord) string {
	var b strings.Builder
	for _, item := range words {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledWords breaks lines before key slots so a separator never starts a line.
func wrapStyledWords(words []styledWord, width int) string {
	if width <= 0 {
		return renderStyledWords(words)
	}
	var out strings.Builder
	line := make([]styledWord, 0, len(words))
	lineWidth := 0

	for i := 0; i < len(words); {
		item := words[i]
		if item.isKey && lineWidth+item.width > width && len(line) > 0 {
			out.WriteString(renderStyledWords(line))
			out.WriteRune('\n')
			line = line[:0]
			lineWidth = 0
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		i++
	}
	out.WriteString(renderStyledWords(line))
	return out.String()
}
