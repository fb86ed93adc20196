package listview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(item string, selected bool) string {
	if selected {
		return "> " + item
	}
	return "  " + item
}

// TestModel_New tests initialization.
func TestModel_New(t *testing.T) {
	m := New([]string{"a", "b", "c"}, 0, plain)

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 0, m.Cursor())
	item, ok := m.Item()
	require.True(t, ok)
	assert.Equal(t, "a", item)
}

// TestModel_Navigation tests arrow and vim keys.
func TestModel_Navigation(t *testing.T) {
	m := New([]string{"a", "b", "c"}, 0, plain)

	steps := []struct {
		msg  tea.KeyMsg
		want int
	}{
		{msg: tea.KeyMsg{Type: tea.KeyDown}, want: 1},
		{msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, want: 2},
		{msg: tea.KeyMsg{Type: tea.KeyDown}, want: 2},
		{msg: tea.KeyMsg{Type: tea.KeyUp}, want: 1},
		{msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}, want: 0},
		{msg: tea.KeyMsg{Type: tea.KeyUp}, want: 0},
		{msg: tea.KeyMsg{Type: tea.KeyEnd}, want: 2},
		{msg: tea.KeyMsg{Type: tea.KeyHome}, want: 0},
	}

	for i, step := range steps {
		m, _ = m.Update(step.msg)
		assert.Equal(t, step.want, m.Cursor(), "step %d", i)
	}
}

// TestModel_EmptyList tests that an empty list is inert.
func TestModel_EmptyList(t *testing.T) {
	m := New([]string{}, 5, plain)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	assert.Equal(t, 0, m.Cursor())
	assert.Empty(t, m.View())
	_, ok := m.Item()
	assert.False(t, ok)
}

// TestModel_WindowedView tests that only height rows render and the cursor stays visible.
func TestModel_WindowedView(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	m := New(items, 2, plain)

	assert.Equal(t, "> a\n  b", m.View())

	m.SetCursor(3)
	assert.Equal(t, 2, m.Offset())
	assert.Equal(t, "  c\n> d", m.View())

	m.SetCursor(99)
	assert.Equal(t, 4, m.Cursor())
	assert.Equal(t, 3, m.Offset())

	m.SetCursor(0)
	assert.Equal(t, 0, m.Offset())
	assert.Len(t, strings.Split(m.View(), "\n"), 2)
}
