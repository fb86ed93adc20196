package record

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Column describes one derived table column.
type Column struct {
	// Header is the field name as HeaderText renders it.
	Header string
	// Field is the record key the column reads.
	Field      string
	Sortable   bool
	Filterable bool
	Resizable  bool
}

// DeriveColumns returns one column per key of the first record, in that
// record's field order. Keys that appear only in later records get no column.
// An empty dataset yields no columns.
func DeriveColumns(dataset []Record) []Column {
	if len(dataset) == 0 {
		return nil
	}
	first := dataset[0]
	columns := make([]Column, 0, first.Len())
	for _, key := range first.Keys() {
		columns = append(columns, Column{
			Header:     HeaderText(key),
			Field:      key,
			Sortable:   true,
			Filterable: true,
			Resizable:  true,
		})
	}
	return columns
}

// HeaderText upper-cases a field name with full Unicode case mapping, so
// "straße" becomes "STRASSE".
func HeaderText(field string) string {
	return cases.Upper(language.Und).String(field)
}

// Cell returns the display text of the column's field in r, or "" when the
// record has no such field.
func (c Column) Cell(r Record) string {
	v, ok := r.Get(c.Field)
	if !ok {
		return ""
	}
	return v.Display()
}
