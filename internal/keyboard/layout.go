package keyboard

import (
	"strings"

	"github.com/verte-zerg/tuikeys/internal/model"
)

// Layout maps a physical key code (KeyboardEvent.code naming) to the
// character it produces without modifiers.
type Layout map[string]string

// DefaultLayout is the US layout. There is no portable way to detect the
// active layout, so it is assumed.
var DefaultLayout = Layout{
	"Backquote":     "`",
	"Digit1":        "1",
	"Digit2":        "2",
	"Digit3":        "3",
	"Digit4":        "4",
	"Digit5":        "5",
	"Digit6":        "6",
	"Digit7":        "7",
	"Digit8":        "8",
	"Digit9":        "9",
	"Digit0":        "0",
	"Minus":         "-",
	"Equal":         "=",
	"IntlYen":       "\\",
	"KeyQ":          "q",
	"KeyW":          "w",
	"KeyE":          "e",
	"KeyR":          "r",
	"KeyT":          "t",
	"KeyY":          "y",
	"KeyU":          "u",
	"KeyI":          "i",
	"KeyO":          "o",
	"KeyP":          "p",
	"BracketLeft":   "[",
	"BracketRight":  "]",
	"Backslash":     "\\",
	"KeyA":          "a",
	"KeyS":          "s",
	"KeyD":          "d",
	"KeyF":          "f",
	"KeyG":          "g",
	"KeyH":          "h",
	"KeyJ":          "j",
	"KeyK":          "k",
	"KeyL":          "l",
	"Semicolon":     ";",
	"Quote":         "'",
	"IntlBackslash": "\\",
	"KeyZ":          "z",
	"KeyX":          "x",
	"KeyC":          "c",
	"KeyV":          "v",
	"KeyB":          "b",
	"KeyN":          "n",
	"KeyM":          "m",
	"Comma":         ",",
	"Period":        ".",
	"Slash":         "/",
}

// shifted maps a character typed with Shift on the US layout to its base key.
var shifted = map[rune]string{
	'~': "`",
	'!': "1",
	'@': "2",
	'#': "3",
	'$': "4",
	'%': "5",
	'^': "6",
	'&': "7",
	'*': "8",
	'(': "9",
	')': "0",
	'_': "-",
	'+': "=",
	'{': "[",
	'}': "]",
	'|': "\\",
	':': ";",
	'"': "'",
	'<': ",",
	'>': ".",
	'?': "/",
}

// Translate returns the logical key for a physical code. Codes outside the
// printable table (ShiftLeft, ArrowUp, F5, ...) are normalized by name.
func (l Layout) Translate(code string) string {
	if ch, ok := l[code]; ok {
		return ch
	}
	switch {
	case strings.HasPrefix(code, "Control"):
		return Control
	case strings.HasPrefix(code, "Shift"):
		return Shift
	case strings.HasPrefix(code, "Alt"):
		return Alt
	case strings.HasPrefix(code, "Meta"), strings.HasPrefix(code, "OS"):
		return Meta
	case code == "NumpadEnter":
		return Enter
	}
	return Normalize(code)
}

// unshift splits a printable character into Shift plus its base key when the
// character needs Shift on the US layout.
func unshift(key string) []string {
	runes := []rune(key)
	if len(runes) != 1 {
		return []string{key}
	}
	r := runes[0]
	if r >= 'A' && r <= 'Z' {
		return []string{Shift, strings.ToLower(key)}
	}
	if base, ok := shifted[r]; ok {
		return []string{Shift, base}
	}
	return []string{key}
}

var terminalModifiers = []struct {
	prefix string
	token  string
}{
	{"alt+", Alt},
	{"ctrl+", Control},
	{"shift+", Shift},
}

// FromTerminal translates a terminal key description such as "ctrl+s",
// "alt+enter", "shift+tab", "S" or "!" into logical key tokens. Terminals do
// not report key releases; callers release the returned keys themselves.
func FromTerminal(s string) []string {
	if s == "" {
		return nil
	}
	var keys []string
	rest := s
	for {
		matched := false
		for _, m := range terminalModifiers {
			if strings.HasPrefix(rest, m.prefix) && len(rest) > len(m.prefix) {
				keys = append(keys, m.token)
				rest = rest[len(m.prefix):]
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}
	switch rest {
	case " ":
		keys = append(keys, Space)
	case "pgup":
		keys = append(keys, PageUp)
	case "pgdown":
		keys = append(keys, PageDown)
	default:
		for _, key := range unshift(rest) {
			keys = append(keys, Normalize(key))
		}
	}
	return orderKeys(dedupe(keys))
}

func dedupe(keys []string) []string {
	out := keys[:0]
	seen := map[string]struct{}{}
	for _, key := range keys {
		if _, ok := seen[key]; ok || key == "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// TerminalDeliverable reports whether a terminal can report spec as a single
// key event. Terminals never see Meta, cannot tell Ctrl+Shift+S from Ctrl+S
// and drop Ctrl with digits.
func TerminalDeliverable(spec model.KeyCombinationSpec) bool {
	set := toSet(spec)
	if _, ok := set[Meta]; ok {
		return false
	}
	if _, ok := set[Control]; !ok {
		return true
	}
	if _, ok := set[Shift]; ok {
		return false
	}
	for key := range set {
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			return false
		}
	}
	return true
}
