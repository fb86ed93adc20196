package tui

import (
	"github.com/charmbracelet/bubbles/key"

	listview "github.com/rshade/dataviewer/internal/tui/list"
)

// KeyMap holds every viewer binding. Bindings are enabled or disabled per
// focus so help only lists what currently works.
type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	SwitchPane key.Binding
	Commit     key.Binding
	Pick       key.Binding

	Activate   key.Binding
	PrevColumn key.Binding
	NextColumn key.Binding
	Sort       key.Binding
	Filter     key.Binding
	ClearAll   key.Binding
	Widen      key.Binding
	Narrow     key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding

	ApplyFilter  key.Binding
	CancelFilter key.Binding

	Dismiss key.Binding
	Copy    key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		SwitchPane: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch pane")),
		Commit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load source")),
		Pick:       key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("0-9", "pick source")),

		Activate:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		PrevColumn: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		NextColumn: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter column")),
		ClearAll:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
		Widen:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "widen column")),
		Narrow:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrow column")),
		NextPage:   key.NewBinding(key.WithKeys("pgdown", "n", "]"), key.WithHelp("n/pgdn", "next page")),
		PrevPage:   key.NewBinding(key.WithKeys("pgup", "p", "["), key.WithHelp("p/pgup", "prev page")),

		ApplyFilter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		CancelFilter: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		Dismiss: key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc", "close")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy JSON")),
	}
}

// helpKeyMap adapts a focus-specific binding set to help.KeyMap.
type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h helpKeyMap) ShortHelp() []key.Binding  { return h.short }
func (h helpKeyMap) FullHelp() [][]key.Binding { return h.full }

// selectorHelp merges the list's navigation bindings into the selector help.
func (k KeyMap) selectorHelp(nav listview.KeyMap) helpKeyMap {
	return helpKeyMap{
		short: []key.Binding{k.Commit, k.Pick, k.SwitchPane, k.Help, k.Quit},
		full: [][]key.Binding{
			{nav.Up, nav.Down, nav.Home, nav.End},
			{k.Commit, k.Pick, k.SwitchPane},
			{k.Help, k.Quit},
		},
	}
}

func (k KeyMap) tableHelp() helpKeyMap {
	return helpKeyMap{
		short: []key.Binding{k.Activate, k.Sort, k.Filter, k.NextPage, k.PrevPage, k.Help, k.Quit},
		full: [][]key.Binding{
			{k.Activate, k.PrevColumn, k.NextColumn},
			{k.Sort, k.Filter, k.ClearAll},
			{k.Widen, k.Narrow},
			{k.NextPage, k.PrevPage, k.SwitchPane},
			{k.Pick, k.Help, k.Quit},
		},
	}
}

func (k KeyMap) filterHelp() helpKeyMap {
	short := []key.Binding{k.ApplyFilter, k.CancelFilter}
	return helpKeyMap{short: short, full: [][]key.Binding{short}}
}

func (k KeyMap) overlayHelp() helpKeyMap {
	short := []key.Binding{k.Dismiss, k.Copy, k.Quit}
	return helpKeyMap{short: short, full: [][]key.Binding{short}}
}
