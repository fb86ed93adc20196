package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rshade/dataviewer/internal/record"
)

// AppTitle is shown on the first line of the viewer.
const AppTitle = "API Data Viewer"

const (
	minColumnWidth  = 4
	maxColumnWidth  = 40
	maxResizedWidth = 120
	resizeStep      = 2
	cellPadding     = 2
	paneChrome      = 4
	headerLines     = 2
	sortAscMarker   = " ▲"
	sortDescMarker  = " ▼"
	filterMarker    = " *"
)

func renderSourceOption(opt sourceOption, highlighted bool) string {
	if highlighted {
		return SelectedStyle.Render("> " + opt.label)
	}
	return "  " + opt.label
}

// rebuildTable recreates the table for the grid's current page. resetCursor
// moves the highlight to the first row; otherwise it is clamped.
func (m *Model) rebuildTable(resetCursor bool) {
	cursor := 0
	if !resetCursor {
		cursor = m.table.Cursor()
	}

	widths := columnWidths(m.grid, m.width-paneChrome)
	columns := make([]table.Column, len(m.grid.columns))
	for i, c := range m.grid.columns {
		columns[i] = table.Column{Title: m.headerTitle(i, c), Width: widths[i]}
	}

	pageRows := m.grid.pageRows()
	rows := make([]table.Row, len(pageRows))
	for i, r := range pageRows {
		row := make(table.Row, len(m.grid.columns))
		for j, c := range m.grid.columns {
			row[j] = CellText(c.Cell(r))
		}
		rows[i] = row
	}

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithStyles(s),
		table.WithFocused(m.focus == FocusTable),
		table.WithHeight(PageSize+headerLines),
	)
	if len(rows) > 0 {
		t.SetCursor(min(cursor, len(rows)-1))
	}
	m.table = t
}

// headerTitle decorates a header with its focus, sort and filter state.
func (m Model) headerTitle(index int, c record.Column) string {
	title := c.Header
	switch m.grid.sortFor(c.Field) {
	case record.SortAsc:
		title += sortAscMarker
	case record.SortDesc:
		title += sortDescMarker
	case record.SortNone:
	}
	if _, ok := m.grid.filters[c.Field]; ok {
		title += filterMarker
	}
	if index == m.grid.focusCol && m.focus != FocusSelector {
		title = "[" + title + "]"
	}
	return title
}

// CellText flattens line breaks and tabs so a cell stays on one line.
func CellText(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}

// columnWidths sizes each column to its widest cell across all filtered rows,
// then shrinks the widest columns until the table fits available. Columns
// the user resized keep their width and are never shrunk.
func columnWidths(g grid, available int) []int {
	widths := make([]int, len(g.columns))
	fixed := make([]bool, len(g.columns))
	for i, c := range g.columns {
		if w, ok := g.widthFor(c); ok {
			widths[i] = w
			fixed[i] = true
			continue
		}
		w := runewidth.StringWidth(c.Header) + len(sortAscMarker) + len(filterMarker)
		for _, r := range g.rows {
			w = max(w, runewidth.StringWidth(CellText(c.Cell(r))))
		}
		widths[i] = min(max(w, minColumnWidth), maxColumnWidth)
	}

	total := 0
	for _, w := range widths {
		total += w + cellPadding
	}
	for total > available {
		widest := -1
		for i, w := range widths {
			if !fixed[i] && (widest < 0 || w > widths[widest]) {
				widest = i
			}
		}
		if widest < 0 || widths[widest] <= minColumnWidth {
			break
		}
		widths[widest]--
		total--
	}
	return widths
}

// View renders the viewer. The detail overlay, when shown, replaces it.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.overlay.Visible() {
		return m.overlay.View(m.help.ShortHelpView(m.keys.overlayHelp().ShortHelp()))
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(AppTitle))
	b.WriteString("\n")
	b.WriteString(m.renderSelector())
	b.WriteString("\n")

	if !m.grid.empty() {
		b.WriteString(m.renderTable())
		b.WriteString("\n")
	}

	if m.focus == FocusFilter {
		b.WriteString(m.renderFilterPrompt())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(SubtleStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.currentHelp()))
	return b.String()
}

func (m Model) currentHelp() helpKeyMap {
	switch m.focus {
	case FocusTable:
		return m.keys.tableHelp()
	case FocusFilter:
		return m.keys.filterHelp()
	case FocusSelector:
	}
	return m.keys.selectorHelp(m.selector.KeyMap())
}

func (m Model) renderSelector() string {
	current := SentinelLabel
	for _, ep := range m.endpoints {
		if ep.URL == m.selectedURL && m.selectedURL != "" {
			current = ep.Label
			break
		}
	}

	header := LabelStyle.Render("Select an API: ") + ValueStyle.Render(current)
	if m.inFlight > 0 {
		header += " " + m.spinner.View() + SubtleStyle.Render(" loading")
	}

	style := BlurredPaneStyle
	if m.focus == FocusSelector {
		style = FocusedPaneStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, header, m.selector.View()))
}

func (m Model) renderTable() string {
	style := BlurredPaneStyle
	if m.focus != FocusSelector {
		style = FocusedPaneStyle
	}

	body := m.table.View()
	if len(m.grid.rows) == 0 {
		body += "\n" + SubtleStyle.Render("No records match the active filters.")
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter()))
}

// renderFooter shows the page position and record counts.
func (m Model) renderFooter() string {
	footer := fmt.Sprintf("Page %d/%d · %s records",
		m.grid.page+1, m.grid.pageCount(), FormatCount(len(m.grid.rows)))
	if len(m.grid.filters) > 0 {
		footer += fmt.Sprintf(" (filtered from %s)", FormatCount(len(m.grid.dataset)))
	}
	return SubtleStyle.Render(footer)
}

func (m Model) renderFilterPrompt() string {
	label := "Filter"
	if col, ok := m.grid.focusedColumn(); ok {
		label = "Filter " + col.Header
	}
	return LabelStyle.Render(label+": ") + m.filterInput.View()
}
