// Package keyboard models pressed key combinations and the control keys of the game.
package keyboard

import "strings"

// Logical key tokens. Printable keys are represented by their unshifted
// character on the default layout, e.g. "s", "1", "/".
const (
	Control    = "Control"
	Alt        = "Alt"
	Shift      = "Shift"
	Meta       = "Meta"
	Enter      = "Enter"
	Escape     = "Escape"
	Space      = "Space"
	Tab        = "Tab"
	Backspace  = "Backspace"
	Delete     = "Delete"
	Insert     = "Insert"
	Home       = "Home"
	End        = "End"
	PageUp     = "PageUp"
	PageDown   = "PageDown"
	ArrowUp    = "ArrowUp"
	ArrowDown  = "ArrowDown"
	ArrowLeft  = "ArrowLeft"
	ArrowRight = "ArrowRight"
)

var modifierOrder = []string{Control, Alt, Shift, Meta}

var aliases = map[string]string{
	"ctrl":       Control,
	"control":    Control,
	"ctl":        Control,
	"alt":        Alt,
	"option":     Alt,
	"opt":        Alt,
	"shift":      Shift,
	"meta":       Meta,
	"cmd":        Meta,
	"command":    Meta,
	"super":      Meta,
	"win":        Meta,
	"enter":      Enter,
	"return":     Enter,
	"esc":        Escape,
	"escape":     Escape,
	"space":      Space,
	"spacebar":   Space,
	"tab":        Tab,
	"backspace":  Backspace,
	"bs":         Backspace,
	"delete":     Delete,
	"del":        Delete,
	"insert":     Insert,
	"ins":        Insert,
	"home":       Home,
	"end":        End,
	"pageup":     PageUp,
	"pgup":       PageUp,
	"pagedown":   PageDown,
	"pgdown":     PageDown,
	"up":         ArrowUp,
	"arrowup":    ArrowUp,
	"down":       ArrowDown,
	"arrowdown":  ArrowDown,
	"left":       ArrowLeft,
	"arrowleft":  ArrowLeft,
	"right":      ArrowRight,
	"arrowright": ArrowRight,
	"plus":       "+",
	"minus":      "-",
	"backslash":  "\\",
	"slash":      "/",
}

var labels = map[string]string{
	Control:    "Ctrl",
	Meta:       "Cmd",
	Escape:     "Esc",
	ArrowUp:    "↑",
	ArrowDown:  "↓",
	ArrowLeft:  "←",
	ArrowRight: "→",
}

// IsModifier reports whether key is one of Control, Alt, Shift or Meta.
func IsModifier(key string) bool {
	switch key {
	case Control, Alt, Shift, Meta:
		return true
	}
	return false
}

// Normalize maps a key name or alias to its logical token. Unknown names are
// returned lowercased when they are a single character, otherwise unchanged.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if token, ok := aliases[strings.ToLower(name)]; ok {
		return token
	}
	if len([]rune(name)) == 1 {
		return strings.ToLower(name)
	}
	if f := strings.ToUpper(name); f[0] == 'F' && isDigits(f[1:]) {
		return f
	}
	return name
}

// Label returns the display label for a token.
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	if len([]rune(key)) == 1 {
		return strings.ToUpper(key)
	}
	return key
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
