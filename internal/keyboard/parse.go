package keyboard

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/tuikeys/internal/model"
)

// ParseSpec parses a human readable combination such as "Ctrl+Shift+S" or
// "Cmd++" into a normalized spec. Letters are case-insensitive; characters
// that need Shift on the US layout expand to Shift plus their base key.
func ParseSpec(s string) (model.KeyCombinationSpec, error) {
	parts := splitCombo(s)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty key combination")
	}
	spec := make(model.KeyCombinationSpec, 0, len(parts)+1)
	for _, part := range parts {
		key := Normalize(part)
		if key == "" {
			return nil, fmt.Errorf("invalid key combination %q", s)
		}
		if !isKnownKey(key) {
			return nil, fmt.Errorf("unknown key %q in %q", part, s)
		}
		if base, ok := shifted[[]rune(part)[0]]; ok && len([]rune(part)) == 1 {
			spec = append(spec, Shift, base)
			continue
		}
		spec = append(spec, key)
	}
	spec = dedupe(spec)
	return model.KeyCombinationSpec(orderKeys(spec)), nil
}

// FormatSpec renders a spec as "Ctrl + Shift + S".
func FormatSpec(spec model.KeyCombinationSpec) string {
	ordered := orderKeys(spec)
	labelsOut := make([]string, len(ordered))
	for i, key := range ordered {
		labelsOut[i] = Label(key)
	}
	return strings.Join(labelsOut, " + ")
}

// Word is one piece of a rendered combination: either a key slot or a separator.
type Word struct {
	Text  string
	IsKey bool
}

// SplitByKey splits spec into key slots separated by " + ".
func SplitByKey(spec model.KeyCombinationSpec) []Word {
	ordered := orderKeys(spec)
	words := make([]Word, 0, len(ordered)*2)
	for i, key := range ordered {
		if i > 0 {
			words = append(words, Word{Text: " + "})
		}
		words = append(words, Word{Text: Label(key), IsKey: true})
	}
	return words
}

// FillWithPressed replaces each key slot with the next pressed key, or with
// an empty string once the pressed keys run out.
func FillWithPressed(words []Word, pressed []string) []string {
	queue := append([]string(nil), pressed...)
	out := make([]string, len(words))
	for i, w := range words {
		if !w.IsKey {
			out[i] = w.Text
			continue
		}
		if len(queue) == 0 {
			out[i] = ""
			continue
		}
		out[i] = Label(queue[0])
		queue = queue[1:]
	}
	return out
}

func isKnownKey(key string) bool {
	if len([]rune(key)) == 1 {
		return true
	}
	if key[0] == 'F' && isDigits(key[1:]) {
		return true
	}
	for _, token := range aliases {
		if token == key {
			return true
		}
	}
	return false
}

func splitCombo(s string) []string {
	var parts []string
	var cur strings.Builder
	for _, r := range s {
		if r == '+' && strings.TrimSpace(cur.String()) != "" {
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		if r == ' ' && strings.TrimSpace(cur.String()) == "" {
			continue
		}
		cur.WriteRune(r)
	}
	if last := strings.TrimSpace(cur.String()); last != "" {
		parts = append(parts, last)
	}
	return parts
}
