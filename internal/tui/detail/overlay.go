package detail

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/dataviewer/internal/record"
)

// State is the overlay visibility.
type State int

const (
	// Hidden is the initial state.
	Hidden State = iota
	// Shown is entered on row activation.
	Shown
)

// String returns the state name.
func (s State) String() string {
	if s == Shown {
		return "shown"
	}
	return "hidden"
}

const (
	// Title is the overlay heading.
	Title = "Record Details"

	minWidth     = 20
	minHeight    = 3
	chromeWidth  = 6 // border + padding on both sides
	chromeHeight = 6 // border, title, blank, footer
)

// Line is one field of the selected record.
type Line struct {
	Name  string
	Value string
}

// String renders the line as "name: value".
func (l Line) String() string {
	return l.Name + ": " + l.Value
}

// Lines projects rec into display lines in field order. A nil record has no lines.
func Lines(rec *record.Record) []Line {
	if rec == nil {
		return nil
	}
	lines := make([]Line, 0, rec.Len())
	for _, f := range rec.Fields() {
		lines = append(lines, Line{Name: f.Name, Value: f.Value.Display()})
	}
	return lines
}

// Styles controls overlay rendering.
type Styles struct {
	Box   lipgloss.Style
	Title lipgloss.Style
	Label lipgloss.Style
	Value lipgloss.Style
	Hint  lipgloss.Style
}

// Overlay is the detail overlay state plus its scroll viewport.
type Overlay struct {
	state    State
	viewport viewport.Model
	styles   Styles
	width    int
	height   int
	content  string
}

// New returns a hidden overlay.
func New(styles Styles) Overlay {
	return Overlay{
		state:    Hidden,
		viewport: viewport.New(minWidth, minHeight),
		styles:   styles,
	}
}

// State returns the current state.
func (o Overlay) State() State {
	return o.state
}

// Visible reports whether the overlay is shown.
func (o Overlay) Visible() bool {
	return o.state == Shown
}

// Show renders rec into the viewport and moves to Shown.
func (o *Overlay) Show(rec *record.Record) {
	o.content = o.renderLines(Lines(rec))
	o.refresh()
	o.viewport.GotoTop()
	o.state = Shown
}

// Dismiss moves to Hidden. The content is kept so a later Show replaces it.
func (o *Overlay) Dismiss() {
	o.state = Hidden
}

// SetSize fits the viewport inside a terminal of the given size.
func (o *Overlay) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.viewport.Width = max(width-chromeWidth*2, minWidth)
	o.viewport.Height = max(height-chromeHeight*2, minHeight)
	o.refresh()
}

// refresh wraps the content to the viewport width.
func (o *Overlay) refresh() {
	o.viewport.SetContent(lipgloss.NewStyle().Width(o.viewport.Width).Render(o.content))
}

// Update scrolls the viewport while shown.
func (o Overlay) Update(msg tea.Msg) (Overlay, tea.Cmd) {
	if o.state != Shown {
		return o, nil
	}
	var cmd tea.Cmd
	o.viewport, cmd = o.viewport.Update(msg)
	return o, cmd
}

func (o Overlay) renderLines(lines []Line) string {
	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = o.styles.Label.Render(l.Name+": ") + o.styles.Value.Render(l.Value)
	}
	return strings.Join(rendered, "\n")
}

// View renders the overlay box centred in the terminal; "" when hidden.
func (o Overlay) View(hint string) string {
	if o.state != Shown {
		return ""
	}
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		o.styles.Title.Render(Title),
		"",
		o.viewport.View(),
		"",
		o.styles.Hint.Render(hint),
	)
	box := o.styles.Box.Render(body)
	if o.width == 0 || o.height == 0 {
		return box
	}
	return lipgloss.Place(o.width, o.height, lipgloss.Center, lipgloss.Center, box)
}
