package record

import (
	"bytes"
	"cmp"
	"math"
	"slices"
	"strconv"
)

// Record is one item of a fetched collection: an ordered field/value mapping
// with no assumed schema.
type Record struct {
	fields []Field
}

// New builds a record from fields. A repeated name keeps its first position
// and takes the last value. Fields are then arranged in property order.
func New(fields ...Field) Record {
	r := Record{fields: make([]Field, 0, len(fields))}
	for _, f := range fields {
		r.set(f.Name, f.Value)
	}
	r.fields = propertyOrder(r.fields)
	return r
}

// propertyOrder arranges fields the way JavaScript enumerates object keys:
// array-index keys in ascending numeric order, then every other key in
// insertion order.
func propertyOrder(fields []Field) []Field {
	if !slices.ContainsFunc(fields, func(f Field) bool { return isIndexKey(f.Name) }) {
		return fields
	}
	slices.SortStableFunc(fields, func(a, b Field) int {
		ai, aIdx := indexKey(a.Name)
		bi, bIdx := indexKey(b.Name)
		switch {
		case aIdx && bIdx:
			return cmp.Compare(ai, bi)
		case aIdx:
			return -1
		case bIdx:
			return 1
		default:
			return 0
		}
	})
	return fields
}

func isIndexKey(name string) bool {
	_, ok := indexKey(name)
	return ok
}

// indexKey parses a canonical array index: "0" or digits without a leading
// zero, below 2^32-1.
func indexKey(name string) (uint64, bool) {
	if name == "" || (len(name) > 1 && name[0] == '0') {
		return 0, false
	}
	for i := range len(name) {
		if name[i] < '0' || name[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(name, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	return n, true
}

func (r *Record) set(name string, v Value) {
	for i := range r.fields {
		if r.fields[i].Name == name {
			r.fields[i].Value = v
			return
		}
	}
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.fields) }

// Fields returns the fields in source order.
func (r Record) Fields() []Field { return r.fields }

// Keys returns the field names in source order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Name
	}
	return keys
}

// Get returns the value of the named field and whether it is present.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Value returns the record as an object value.
func (r Record) Value() Value { return Object(r.fields...) }

// MarshalJSON encodes the record as a JSON object with keys in source order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeFields(&buf, r.fields)
	return buf.Bytes(), nil
}
