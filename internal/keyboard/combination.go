package keyboard

import "github.com/verte-zerg/tuikeys/internal/model"

// Control combinations of the game. They never answer a shortcut.
var (
	SkipKeys            = model.KeyCombinationSpec{Enter}
	RemoveKeys          = model.KeyCombinationSpec{Control, "\\"}
	SelectToolsKeys     = model.KeyCombinationSpec{Escape}
	ShowCorrectKeys     = model.KeyCombinationSpec{Space}
	MarkSelfCorrectKeys = model.KeyCombinationSpec{"y"}
	MarkSelfWrongKeys   = model.KeyCombinationSpec{"n"}
)

// KeyCombination is the set of keys currently held down.
type KeyCombination struct {
	keys []string
}

// NewKeyCombination returns an empty combination.
func NewKeyCombination() *KeyCombination {
	return &KeyCombination{}
}

// KeyDown adds key unless it is already held.
func (k *KeyCombination) KeyDown(key string) {
	key = Normalize(key)
	if key == "" || k.has(key) {
		return
	}
	k.keys = append(k.keys, key)
}

// KeyUp releases key. Releasing a key that is not held is a no-op.
func (k *KeyCombination) KeyUp(key string) {
	key = Normalize(key)
	for i, held := range k.keys {
		if held == key {
			k.keys = append(k.keys[:i], k.keys[i+1:]...)
			return
		}
	}
}

// Reset releases every key.
func (k *KeyCombination) Reset() {
	k.keys = nil
}

// Keys returns the held keys with modifiers first (Control, Alt, Shift, Meta)
// followed by the remaining keys in press order. The slice is a copy.
func (k *KeyCombination) Keys() []string {
	return orderKeys(k.keys)
}

// HasPressedSomeKey reports whether any key is held.
func (k *KeyCombination) HasPressedSomeKey() bool {
	return len(k.keys) > 0
}

// IsModifierKey reports whether at least one key is held and all of them are modifiers.
func (k *KeyCombination) IsModifierKey() bool {
	return IsOnlyModifierKeys(k.keys)
}

// IsOnlyEnterKey reports whether exactly Enter is held.
func (k *KeyCombination) IsOnlyEnterKey() bool {
	return k.Is(SkipKeys)
}

// IsRemoveKey reports whether the remove combination is held.
func (k *KeyCombination) IsRemoveKey() bool {
	return k.Is(RemoveKeys)
}

// IsSelectToolsKey reports whether the tool selection key is held.
func (k *KeyCombination) IsSelectToolsKey() bool {
	return k.Is(SelectToolsKeys)
}

// IsShowCorrectKey reports whether the show-answer key is held.
func (k *KeyCombination) IsShowCorrectKey() bool {
	return k.Is(ShowCorrectKeys)
}

// IsMarkedSelfAsCorrectKey reports whether the self-grading "correct" key is held.
func (k *KeyCombination) IsMarkedSelfAsCorrectKey() bool {
	return k.Is(MarkSelfCorrectKeys)
}

// IsMarkedSelfAsWrongKey reports whether the self-grading "wrong" key is held.
func (k *KeyCombination) IsMarkedSelfAsWrongKey() bool {
	return k.Is(MarkSelfWrongKeys)
}

// Is reports whether the held keys equal spec as a set.
func (k *KeyCombination) Is(spec model.KeyCombinationSpec) bool {
	want := toSet(spec)
	if len(want) != len(k.keys) {
		return false
	}
	for _, key := range k.keys {
		if _, ok := want[key]; !ok {
			return false
		}
	}
	return true
}

// HasEqualModifiers reports whether the held modifiers equal the modifiers of spec.
func (k *KeyCombination) HasEqualModifiers(spec model.KeyCombinationSpec) bool {
	held := modifierSet(k.keys)
	want := modifierSet(spec)
	if len(held) != len(want) {
		return false
	}
	for m := range held {
		if _, ok := want[m]; !ok {
			return false
		}
	}
	return true
}

// IsOnlyModifierKeys reports whether spec is non-empty and made only of modifiers.
func IsOnlyModifierKeys(spec model.KeyCombinationSpec) bool {
	if len(spec) == 0 {
		return false
	}
	for _, key := range spec {
		if !IsModifier(Normalize(key)) {
			return false
		}
	}
	return true
}

// IsOnlyEnterKeySpec reports whether spec is exactly Enter.
func IsOnlyEnterKeySpec(spec model.KeyCombinationSpec) bool {
	set := toSet(spec)
	_, ok := set[Enter]
	return ok && len(set) == 1
}

// IsReservedSpec reports whether spec collides with the remove or select
// tools combination and therefore can never be answered.
func IsReservedSpec(spec model.KeyCombinationSpec) bool {
	return sameSet(spec, RemoveKeys) || sameSet(spec, SelectToolsKeys)
}

func sameSet(a, b []string) bool {
	sa, sb := toSet(a), toSet(b)
	if len(sa) != len(sb) {
		return false
	}
	for key := range sa {
		if _, ok := sb[key]; !ok {
			return false
		}
	}
	return true
}

func (k *KeyCombination) has(key string) bool {
	for _, held := range k.keys {
		if held == key {
			return true
		}
	}
	return false
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key = Normalize(key); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

func modifierSet(keys []string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, key := range keys {
		if key = Normalize(key); IsModifier(key) {
			set[key] = struct{}{}
		}
	}
	return set
}

func orderKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, m := range modifierOrder {
		for _, key := range keys {
			if key == m {
				out = append(out, key)
				seen[key] = struct{}{}
			}
		}
	}
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
