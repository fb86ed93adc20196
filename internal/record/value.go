package record

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Kind identifies which member of the Value union is populated.
type Kind int

const (
	// KindNull is the JSON null literal. It is the zero Kind.
	KindNull Kind = iota
	// KindBool is a JSON boolean.
	KindBool
	// KindNumber is a JSON number, held as float64.
	KindNumber
	// KindString is a JSON string.
	KindString
	// KindArray is a JSON array.
	KindArray
	// KindObject is a JSON object with ordered fields.
	KindObject
)

// String returns the lowercase JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON value. The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	s      string
	items  []Value
	fields []Field
}

// Field is a named value inside an object or record.
type Field struct {
	Name  string
	Value Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a number.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a sequence of values.
func Array(items ...Value) Value { return Value{kind: KindArray, items: items} }

// Object wraps an ordered list of fields.
func Object(fields ...Field) Value { return Value{kind: KindObject, fields: fields} }

// Kind reports the populated member.
func (v Value) Kind() Kind { return v.kind }

// AsNumber returns the numeric payload; 0 for other kinds.
func (v Value) AsNumber() float64 { return v.n }

// AsString returns the string payload; "" for other kinds.
func (v Value) AsString() string { return v.s }

// Fields returns the object fields in source order; nil for other kinds.
func (v Value) Fields() []Field { return v.fields }

// Display returns the text shown for v in a table cell or detail line.
// Arrays and objects render as compact JSON; scalars render in natural form.
func (v Value) Display() string {
	switch {
	case v.kind == KindString:
		return v.s
	case v.kind == KindNumber && math.IsInf(v.n, 1):
		return "Infinity"
	case v.kind == KindNumber && math.IsInf(v.n, -1):
		return "-Infinity"
	}
	var buf bytes.Buffer
	v.writeJSON(&buf)
	return buf.String()
}

// String implements fmt.Stringer using Display.
func (v Value) String() string { return v.Display() }

// MarshalJSON encodes v as compact JSON with object keys in source order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	v.writeJSON(&buf)
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(formatNumber(v.n))
	case KindString:
		writeQuoted(buf, v.s)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.writeJSON(buf)
		}
		buf.WriteByte(']')
	case KindObject:
		writeFields(buf, v.fields)
	}
}

func writeFields(buf *bytes.Buffer, fields []Field) {
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeQuoted(buf, f.Name)
		buf.WriteByte(':')
		f.Value.writeJSON(buf)
	}
	buf.WriteByte('}')
}

// formatNumber renders n as JSON.stringify does. encoding/json already
// switches to exponent form outside [1e-6, 1e21); zero loses its sign and
// non-finite values become null.
func formatNumber(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "null"
	}
	if n == 0 {
		return "0"
	}
	out, err := json.Marshal(n)
	if err != nil {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return string(out)
}

// writeQuoted writes s as a JSON string literal without HTML escaping.
func writeQuoted(buf *bytes.Buffer, s string) {
	var quoted bytes.Buffer
	enc := json.NewEncoder(&quoted)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		buf.WriteString(strconv.Quote(s))
		return
	}
	buf.Write(bytes.TrimSuffix(quoted.Bytes(), []byte("\n")))
}
