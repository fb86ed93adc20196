package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/buger/jsonparser"
)

var (
	// ErrMalformed is returned when the document is not valid JSON.
	ErrMalformed = errors.New("malformed JSON")
	// ErrNotArray is returned when the top-level document is not an array.
	ErrNotArray = errors.New("document is not a JSON array")
	// ErrNotObject is returned when an array element is not an object.
	ErrNotObject = errors.New("array element is not a JSON object")
)

// ParseDataset decodes a JSON array of objects into records, preserving
// element order. Object keys follow JavaScript property order: integer-like
// keys ascending, then the rest in source order.
//
// jsonparser tolerates trailing commas and leading zeros, so the document is
// checked against the strict grammar before it is walked.
func ParseDataset(data []byte) ([]Record, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, syntaxError(data))
	}
	raw, dataType, end, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if end >= 0 && end <= len(data) && len(bytes.TrimSpace(data[end:])) > 0 {
		return nil, fmt.Errorf("%w: trailing data after offset %d", ErrMalformed, end)
	}
	if dataType != jsonparser.Array {
		return nil, fmt.Errorf("%w: got %s", ErrNotArray, kindName(dataType))
	}

	records := make([]Record, 0)
	var elemErr error
	index := 0
	_, err = jsonparser.ArrayEach(raw, func(elem []byte, t jsonparser.ValueType, _ int, cbErr error) {
		if elemErr != nil {
			return
		}
		if cbErr != nil {
			elemErr = fmt.Errorf("%w: element %d: %w", ErrMalformed, index, cbErr)
			return
		}
		if t != jsonparser.Object {
			elemErr = fmt.Errorf("%w: element %d is %s", ErrNotObject, index, kindName(t))
			return
		}
		v, parseErr := parseValue(elem, t)
		if parseErr != nil {
			elemErr = fmt.Errorf("element %d: %w", index, parseErr)
			return
		}
		records = append(records, New(v.fields...))
		index++
	})
	if elemErr != nil {
		return nil, elemErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return records, nil
}

// syntaxError describes why data failed validation.
func syntaxError(data []byte) string {
	var v any
	var syntaxErr *json.SyntaxError
	if err := json.Unmarshal(data, &v); errors.As(err, &syntaxErr) {
		return fmt.Sprintf("%s at offset %d", syntaxErr.Error(), syntaxErr.Offset)
	} else if err != nil {
		return err.Error()
	}
	return "invalid document"
}

func parseValue(raw []byte, t jsonparser.ValueType) (Value, error) {
	switch t {
	case jsonparser.Null:
		return Null(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return Bool(b), nil
	case jsonparser.Number:
		return parseNumber(raw)
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return String(s), nil
	case jsonparser.Array:
		return parseArray(raw)
	case jsonparser.Object:
		return parseObject(raw)
	default:
		return Value{}, fmt.Errorf("%w: unexpected %s", ErrMalformed, kindName(t))
	}
}

// parseNumber accepts out-of-range literals the way JavaScript does: overflow
// becomes ±Inf and underflow becomes zero.
func parseNumber(raw []byte) (Value, error) {
	n, err := strconv.ParseFloat(string(raw), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Value{}, fmt.Errorf("%w: number %q: %w", ErrMalformed, raw, err)
	}
	return Number(n), nil
}

func parseArray(raw []byte) (Value, error) {
	items := make([]Value, 0)
	var itemErr error
	_, err := jsonparser.ArrayEach(raw, func(elem []byte, t jsonparser.ValueType, _ int, cbErr error) {
		if itemErr != nil {
			return
		}
		if cbErr != nil {
			itemErr = cbErr
			return
		}
		v, parseErr := parseValue(elem, t)
		if parseErr != nil {
			itemErr = parseErr
			return
		}
		items = append(items, v)
	})
	if itemErr != nil {
		return Value{}, itemErr
	}
	if err != nil {
		return Value{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return Array(items...), nil
}

func parseObject(raw []byte) (Value, error) {
	obj := Record{fields: make([]Field, 0)}
	err := jsonparser.ObjectEach(raw, func(key, value []byte, t jsonparser.ValueType, _ int) error {
		v, parseErr := parseValue(value, t)
		if parseErr != nil {
			return parseErr
		}
		obj.set(string(key), v)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrMalformed) || errors.Is(err, ErrNotObject) {
			return Value{}, err
		}
		return Value{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	obj.fields = propertyOrder(obj.fields)
	return Object(obj.fields...), nil
}

func kindName(t jsonparser.ValueType) string {
	switch t {
	case jsonparser.Null:
		return KindNull.String()
	case jsonparser.Boolean:
		return KindBool.String()
	case jsonparser.Number:
		return KindNumber.String()
	case jsonparser.String:
		return KindString.String()
	case jsonparser.Array:
		return KindArray.String()
	case jsonparser.Object:
		return KindObject.String()
	default:
		return "unknown"
	}
}
