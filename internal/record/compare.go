package record

import (
	"cmp"
	"slices"
)

// SortOrder is the sort state of a column.
type SortOrder int

const (
	// SortNone leaves rows in dataset order.
	SortNone SortOrder = iota
	// SortAsc sorts ascending.
	SortAsc
	// SortDesc sorts descending.
	SortDesc
)

// Next cycles none -> asc -> desc -> none.
func (o SortOrder) Next() SortOrder {
	return (o + 1) % 3 //nolint:mnd // Three sort states.
}

// String returns a short label for status lines.
func (o SortOrder) String() string {
	switch o {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return "none"
	}
}

// Compare orders two values: null < boolean < number < string < array/object.
// Numbers compare numerically, strings and booleans naturally, and composite
// values by their JSON text.
func Compare(a, b Value) int {
	ra, rb := rank(a.kind), rank(b.kind)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch a.kind {
	case KindNull:
		return 0
	case KindBool:
		return cmp.Compare(boolInt(a.b), boolInt(b.b))
	case KindNumber:
		return cmp.Compare(a.n, b.n)
	case KindString:
		return cmp.Compare(a.s, b.s)
	default:
		return cmp.Compare(a.Display(), b.Display())
	}
}

func rank(k Kind) int {
	if k == KindObject {
		return int(KindArray)
	}
	return int(k)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SortBy returns a stably sorted copy of records ordered by field. Missing
// fields sort as null. SortNone returns a copy in the original order.
func SortBy(records []Record, field string, order SortOrder) []Record {
	sorted := slices.Clone(records)
	if order == SortNone {
		return sorted
	}
	slices.SortStableFunc(sorted, func(x, y Record) int {
		vx, _ := x.Get(field)
		vy, _ := y.Get(field)
		c := Compare(vx, vy)
		if order == SortDesc {
			return -c
		}
		return c
	})
	return sorted
}
