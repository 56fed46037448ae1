package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuikeys/internal/model"
)

func press(keys ...string) *KeyCombination {
	k := NewKeyCombination()
	for _, key := range keys {
		k.KeyDown(key)
	}
	return k
}

func TestKeyDownKeyUpRoundTrip(t *testing.T) {
	k := press(Control, "s")
	before := k.Keys()

	k.KeyDown(Shift)
	k.KeyUp(Shift)
	assert.Equal(t, before, k.Keys())

	k.KeyDown("s")
	assert.Equal(t, before, k.Keys(), "pressing a held key twice is a no-op")

	k.KeyUp("q")
	assert.Equal(t, before, k.Keys(), "releasing an unheld key is a no-op")
}

func TestKeysOrdersModifiersFirst(t *testing.T) {
	k := press("s", Meta, Shift, Control)
	assert.Equal(t, []string{Control, Shift, Meta, "s"}, k.Keys())
}

func TestResetAndHasPressedSomeKey(t *testing.T) {
	k := press(Control)
	assert.True(t, k.HasPressedSomeKey())
	k.Reset()
	assert.False(t, k.HasPressedSomeKey())
	assert.False(t, k.IsModifierKey())
}

func TestIsModifierKey(t *testing.T) {
	assert.True(t, press(Control, Shift).IsModifierKey())
	assert.False(t, press(Control, "s").IsModifierKey())
	assert.False(t, press().IsModifierKey())
}

func TestIsIgnoresOrder(t *testing.T) {
	k := press("s", Control)
	assert.True(t, k.Is(model.KeyCombinationSpec{Control, "s"}))
	assert.False(t, k.Is(model.KeyCombinationSpec{Control}))
	assert.False(t, k.Is(model.KeyCombinationSpec{Control, Shift, "s"}))
}

func TestHasEqualModifiers(t *testing.T) {
	k := press(Shift, "a")
	assert.True(t, k.HasEqualModifiers(model.KeyCombinationSpec{Shift}))
	assert.False(t, k.HasEqualModifiers(model.KeyCombinationSpec{Shift, Control}))
	assert.True(t, press("a").HasEqualModifiers(model.KeyCombinationSpec{"b"}))
}

func TestControlKeysDoNotOverlap(t *testing.T) {
	specs := []model.KeyCombinationSpec{SkipKeys, RemoveKeys, SelectToolsKeys, ShowCorrectKeys, MarkSelfCorrectKeys, MarkSelfWrongKeys}
	for i, spec := range specs {
		k := press(spec...)
		matches := []bool{
			k.IsOnlyEnterKey(),
			k.IsRemoveKey(),
			k.IsSelectToolsKey(),
			k.IsShowCorrectKey(),
			k.IsMarkedSelfAsCorrectKey(),
			k.IsMarkedSelfAsWrongKey(),
		}
		for j, matched := range matches {
			assert.Equal(t, i == j, matched, "spec %v predicate %d", spec, j)
		}
	}
}

func TestStaticSpecPredicates(t *testing.T) {
	assert.True(t, IsOnlyModifierKeys(model.KeyCombinationSpec{Shift}))
	assert.False(t, IsOnlyModifierKeys(model.KeyCombinationSpec{Shift, "a"}))
	assert.False(t, IsOnlyModifierKeys(nil))
	assert.True(t, IsOnlyEnterKeySpec(model.KeyCombinationSpec{Enter}))
	assert.False(t, IsOnlyEnterKeySpec(model.KeyCombinationSpec{Control, Enter}))
	assert.True(t, IsReservedSpec(model.KeyCombinationSpec{"\\", Control}))
	assert.True(t, IsReservedSpec(model.KeyCombinationSpec{"esc"}))
	assert.False(t, IsReservedSpec(model.KeyCombinationSpec{Control, Escape}))
}

func TestParseSpec(t *testing.T) {
	cases := []struct {
		in   string
		want model.KeyCombinationSpec
	}{
		{"Ctrl+S", model.KeyCombinationSpec{Control, "s"}},
		{"shift + cmd + p", model.KeyCombinationSpec{Shift, Meta, "p"}},
		{"Cmd++", model.KeyCombinationSpec{Shift, Meta, "="}},
		{"Alt+Enter", model.KeyCombinationSpec{Alt, Enter}},
		{"Ctrl+F5", model.KeyCombinationSpec{Control, "F5"}},
		{"Shift", model.KeyCombinationSpec{Shift}},
		{"Ctrl+?", model.KeyCombinationSpec{Control, Shift, "/"}},
	}
	for _, tc := range cases {
		got, err := ParseSpec(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseSpec("  ")
	assert.Error(t, err)
	_, err = ParseSpec("Ctrl+Hyper")
	assert.Error(t, err)
}

func TestFormatSpec(t *testing.T) {
	assert.Equal(t, "Ctrl + Shift + S", FormatSpec(model.KeyCombinationSpec{"s", Shift, Control}))
}

func TestFillWithPressed(t *testing.T) {
	words := SplitByKey(model.KeyCombinationSpec{Control, Shift, "p"})
	require.Len(t, words, 5)

	got := FillWithPressed(words, press(Shift, Control).Keys())
	assert.Equal(t, []string{"Ctrl", " + ", "Shift", " + ", ""}, got)
}
