package tui

import (
	"strings"

	"github.com/rshade/dataviewer/internal/record"
)

// PageSize is the fixed number of rows per table page.
const PageSize = 5

// grid holds the client-side view over the dataset: derived columns, the
// active sort, per-column filters, user column widths and the current page. rows is always the
// filtered and sorted projection of the dataset it was built from.
type grid struct {
	dataset []record.Record
	columns []record.Column
	rows    []record.Record

	sortField string
	sortOrder record.SortOrder
	filters   map[string]string
	widths    map[string]int

	focusCol int
	page     int
}

// newGrid derives columns from dataset and shows it unsorted and unfiltered.
func newGrid(dataset []record.Record) grid {
	g := grid{
		dataset: dataset,
		columns: record.DeriveColumns(dataset),
		filters: map[string]string{},
		widths:  map[string]int{},
	}
	g.refresh()
	return g
}

// empty reports whether there is nothing to render.
func (g grid) empty() bool {
	return len(g.dataset) == 0
}

// refresh recomputes rows and clamps the page.
func (g *grid) refresh() {
	filtered := make([]record.Record, 0, len(g.dataset))
	for _, r := range g.dataset {
		if g.matches(r) {
			filtered = append(filtered, r)
		}
	}
	if g.sortField != "" {
		filtered = record.SortBy(filtered, g.sortField, g.sortOrder)
	}
	g.rows = filtered
	g.page = min(g.page, g.pageCount()-1)
}

func (g grid) matches(r record.Record) bool {
	for _, c := range g.columns {
		query, ok := g.filters[c.Field]
		if !ok || query == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(c.Cell(r)), strings.ToLower(query)) {
			return false
		}
	}
	return true
}

// pageCount is at least 1 so an empty filter result still has a page.
func (g grid) pageCount() int {
	if len(g.rows) == 0 {
		return 1
	}
	return (len(g.rows) + PageSize - 1) / PageSize
}

// pageRows returns the rows on the current page.
func (g grid) pageRows() []record.Record {
	start := g.page * PageSize
	if start >= len(g.rows) {
		return nil
	}
	end := min(start+PageSize, len(g.rows))
	return g.rows[start:end]
}

func (g *grid) nextPage() bool {
	if g.page+1 >= g.pageCount() {
		return false
	}
	g.page++
	return true
}

func (g *grid) prevPage() bool {
	if g.page == 0 {
		return false
	}
	g.page--
	return true
}

func (g *grid) moveFocus(delta int) {
	if len(g.columns) == 0 {
		g.focusCol = 0
		return
	}
	g.focusCol = (g.focusCol + delta + len(g.columns)) % len(g.columns)
}

func (g grid) focusedColumn() (record.Column, bool) {
	if g.focusCol < 0 || g.focusCol >= len(g.columns) {
		return record.Column{}, false
	}
	return g.columns[g.focusCol], true
}

// cycleSort advances the focused column through none, asc, desc. Sorting a
// different column starts it at ascending.
func (g *grid) cycleSort() {
	col, ok := g.focusedColumn()
	if !ok || !col.Sortable {
		return
	}
	if g.sortField != col.Field {
		g.sortField = col.Field
		g.sortOrder = record.SortAsc
	} else {
		g.sortOrder = g.sortOrder.Next()
		if g.sortOrder == record.SortNone {
			g.sortField = ""
		}
	}
	g.page = 0
	g.refresh()
}

// resizeFocused sets the focused column's width, clamped to
// [minColumnWidth, maxResizedWidth]. current is the width it renders at now.
// Columns that are not resizable are left alone.
func (g *grid) resizeFocused(current, delta int) bool {
	col, ok := g.focusedColumn()
	if !ok || !col.Resizable {
		return false
	}
	width := min(max(current+delta, minColumnWidth), maxResizedWidth)
	if width == current {
		return false
	}
	g.widths[col.Field] = width
	return true
}

// widthFor returns the user-set width of a column.
func (g grid) widthFor(c record.Column) (int, bool) {
	if !c.Resizable {
		return 0, false
	}
	w, ok := g.widths[c.Field]
	return w, ok
}

// sortFor returns the sort order applied to field.
func (g grid) sortFor(field string) record.SortOrder {
	if g.sortField != field {
		return record.SortNone
	}
	return g.sortOrder
}

// setFilter sets or, with an empty query, clears a column filter.
func (g *grid) setFilter(field, query string) {
	if query == "" {
		delete(g.filters, field)
	} else {
		g.filters[field] = query
	}
	g.page = 0
	g.refresh()
}

func (g *grid) clearFilters() {
	clear(g.filters)
	g.page = 0
	g.refresh()
}

// parseFilter resolves input typed into the filter prompt. "field=text"
// targets the named column (matched by field or header, case-insensitive);
// anything else filters the focused column.
func (g grid) parseFilter(input string) (string, string, bool) {
	if name, query, found := strings.Cut(input, "="); found {
		name = strings.TrimSpace(name)
		for _, c := range g.columns {
			if c.Filterable && (strings.EqualFold(c.Field, name) || c.Header == record.HeaderText(name)) {
				return c.Field, strings.TrimSpace(query), true
			}
		}
	}
	col, ok := g.focusedColumn()
	if !ok || !col.Filterable {
		return "", "", false
	}
	return col.Field, strings.TrimSpace(input), true
}
