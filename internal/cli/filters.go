package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rshade/dataviewer/internal/logging"
	"github.com/rshade/dataviewer/internal/record"
)

// Filter and sort validation errors.
var (
	ErrInvalidFilter     = errors.New("invalid filter: use 'field=text'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'id:desc')")
	ErrUnknownColumn     = errors.New("unknown column")
)

// ValidateFilter checks that f has the form "field=text" and names one of columns.
func ValidateFilter(f string, columns []record.Column) (record.Column, string, error) {
	name, query, found := strings.Cut(f, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return record.Column{}, "", fmt.Errorf("%w: %q", ErrInvalidFilter, f)
	}
	col, err := findColumn(name, columns)
	if err != nil {
		return record.Column{}, "", err
	}
	return col, strings.TrimSpace(query), nil
}

// ApplyFilters validates every filter first, then keeps the records whose
// column text contains each query, case-insensitively. Empty filter strings
// are ignored.
func ApplyFilters(
	ctx context.Context,
	records []record.Record,
	columns []record.Column,
	filters []string,
) ([]record.Record, error) {
	log := logging.FromContext(ctx)

	type parsed struct {
		col   record.Column
		query string
	}
	valid := make([]parsed, 0, len(filters))
	for _, f := range filters {
		if f == "" {
			continue
		}
		col, query, err := ValidateFilter(f, columns)
		if err != nil {
			log.Warn().Ctx(ctx).
				Str("component", "cli").
				Str("operation", "apply_filters").
				Str("filter", f).
				Err(err).
				Msg("invalid filter expression")
			return nil, err
		}
		valid = append(valid, parsed{col: col, query: strings.ToLower(query)})
	}
	if len(valid) == 0 {
		return records, nil
	}

	result := make([]record.Record, 0, len(records))
	for _, r := range records {
		keep := true
		for _, p := range valid {
			if !strings.Contains(strings.ToLower(p.col.Cell(r)), p.query) {
				keep = false
				break
			}
		}
		if keep {
			result = append(result, r)
		}
	}

	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "apply_filters").
		Int("filters", len(valid)).
		Int("before", len(records)).
		Int("after", len(result)).
		Msg("applied filters")
	if len(result) == 0 && len(records) > 0 {
		log.Warn().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "apply_filters").
			Int("original_count", len(records)).
			Msg("no records match filter criteria")
	}
	return result, nil
}

// ParseSort parses "field" or "field:asc|desc" against columns.
func ParseSort(expr string, columns []record.Column) (string, record.SortOrder, error) {
	name, order, hasOrder := strings.Cut(expr, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", record.SortNone, fmt.Errorf("%w: %q", ErrInvalidSortFormat, expr)
	}

	sortOrder := record.SortAsc
	if hasOrder {
		switch strings.ToLower(strings.TrimSpace(order)) {
		case "asc":
		case "desc":
			sortOrder = record.SortDesc
		default:
			return "", record.SortNone, fmt.Errorf("%w: %q", ErrInvalidSortFormat, expr)
		}
	}

	col, err := findColumn(name, columns)
	if err != nil {
		return "", record.SortNone, err
	}
	return col.Field, sortOrder, nil
}

// findColumn matches name against a column's field or header, case-insensitively.
// Headers also match through full case mapping, so "STRAßE" finds STRASSE.
func findColumn(name string, columns []record.Column) (record.Column, error) {
	available := make([]string, 0, len(columns))
	for _, c := range columns {
		if strings.EqualFold(c.Field, name) || strings.EqualFold(c.Header, name) || c.Header == record.HeaderText(name) {
			return c, nil
		}
		available = append(available, c.Field)
	}
	return record.Column{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownColumn, name, strings.Join(available, ", "))
}
