package listview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders an item at a given index.
// The selected parameter indicates whether this item is under the cursor.
type RenderFunc[T any] func(item T, selected bool) string

// KeyMap holds the navigation bindings.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding
	Home key.Binding
	End  key.Binding
}

// DefaultKeyMap returns arrow, vim, and home/end bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Home: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home/g", "first")),
		End:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end/G", "last")),
	}
}

// Model is a windowed list with a cursor.
type Model[T any] struct {
	items      []T
	renderFunc RenderFunc[T]
	keys       KeyMap

	// cursor is the index of the highlighted item (0-based)
	cursor int

	// offset is the first rendered item index
	offset int

	// height is the number of rows rendered; 0 renders every item
	height int
}

// New creates a list over items rendered with renderFunc.
func New[T any](items []T, height int, renderFunc RenderFunc[T]) Model[T] {
	m := Model[T]{
		items:      items,
		renderFunc: renderFunc,
		keys:       DefaultKeyMap(),
		height:     height,
	}
	m.scroll()
	return m
}

// Init implements tea.Model.
func (m Model[T]) Init() tea.Cmd {
	return nil
}

// Update moves the cursor in response to navigation keys.
func (m Model[T]) Update(msg tea.Msg) (Model[T], tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.items) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.SetCursor(m.cursor - 1)
	case key.Matches(keyMsg, m.keys.Down):
		m.SetCursor(m.cursor + 1)
	case key.Matches(keyMsg, m.keys.Home):
		m.SetCursor(0)
	case key.Matches(keyMsg, m.keys.End):
		m.SetCursor(len(m.items) - 1)
	}

	return m, nil
}

// scroll keeps the cursor inside the rendered window.
func (m *Model[T]) scroll() {
	if m.height <= 0 || len(m.items) <= m.height {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if maxOffset := len(m.items) - m.height; m.offset > maxOffset {
		m.offset = maxOffset
	}
}

// View renders the visible window, one item per line.
func (m Model[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}

	end := len(m.items)
	if m.height > 0 && m.offset+m.height < end {
		end = m.offset + m.height
	}

	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderFunc(m.items[i], i == m.cursor))
	}
	return strings.Join(lines, "\n")
}

// Len returns the number of items.
func (m Model[T]) Len() int {
	return len(m.items)
}

// Cursor returns the highlighted index.
func (m Model[T]) Cursor() int {
	return m.cursor
}

// SetCursor moves the cursor, clamped to valid bounds.
func (m *Model[T]) SetCursor(index int) {
	switch {
	case len(m.items) == 0, index < 0:
		m.cursor = 0
	case index >= len(m.items):
		m.cursor = len(m.items) - 1
	default:
		m.cursor = index
	}
	m.scroll()
}

// Item returns the item under the cursor and false when the list is empty.
func (m Model[T]) Item() (T, bool) {
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	return m.items[m.cursor], true
}

// Offset returns the first rendered index.
func (m Model[T]) Offset() int {
	return m.offset
}

// KeyMap returns the navigation bindings for help rendering.
func (m Model[T]) KeyMap() KeyMap {
	return m.keys
}
