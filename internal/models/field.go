package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldType is the declared type of a record field.
type FieldType int

const (
	StringField FieldType = iota
	IntField
	FloatField
	StringListField
)

func (t FieldType) String() string {
	switch t {
	case StringField:
		return "string"
	case IntField:
		return "integer"
	case FloatField:
		return "float"
	case StringListField:
		return "list"
	default:
		return "unknown"
	}
}

// Field binds a declared field name to its storage inside a record.
type Field struct {
	Name string
	Type FieldType
	ptr  any
}

func stringField(name string, p *string) Field { return Field{Name: name, Type: StringField, ptr: p} }
func intField(name string, p *int) Field { return Field{Name: name, Type: IntField, ptr: p} }
func floatField(name string, p *float64) Field { return Field{Name: name, Type: FloatField, ptr: p} }
func listField(name string, p *[]string) Field { return Field{Name: name, Type: StringListField, ptr: p} }

// Value returns the current value of the field.
func (f Field) Value() any {
	switch p := f.ptr.(type) {
	case *string:
		return *p
	case *int:
		return *p
	case *float64:
		return *p
	case *[]string:
		out := make([]string, len(*p))
		copy(out, *p)
		return out
	}
	return nil
}

// assign stores a JSON-decoded value, converting numbers and arrays to the declared type.
func (f Field) assign(v any) error {
	switch p := f.ptr.(type) {
	case *string:
		s, ok := v.(string)
		if !ok {
			return f.typeError(v)
		}
		*p = s
	case *int:
		switch n := v.(type) {
		case int:
			*p = n
		case int64:
			*p = int(n)
		case float64:
			// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
			if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
				return f.typeError(v)
			}
			*p = int(n)
		case json.Number:
			i, err := n.Int64()
			if err != nil || int64(int(i)) != i {
				return f.typeError(v)
			}
			*p = int(i)
		default:
			return f.typeError(v)
		}
	case *float64:
		switch n := v.(type) {
		case float64:
			*p = n
		case int:
			*p = float64(n)
		case int64:
			*p = float64(n)
		case json.Number:
			x, err := n.Float64()
			if err != nil {
				return f.typeError(v)
			}
			*p = x
		default:
			return f.typeError(v)
		}
	case *[]string:
		switch items := v.(type) {
		case []string:
			*p = append([]string{}, items...)
		case []any:
			out := make([]string, 0, len(items))
			for _, item := range items {
				s, ok := item.(string)
				if !ok {
					return f.typeError(v)
				}
				out = append(out, s)
			}
			*p = out
		default:
			return f.typeError(v)
		}
	}
	return nil
}

// parse converts a raw string typed by a user into the declared type.
func (f Field) parse(raw string) error {
	switch p := f.ptr.(type) {
	case *string:
		*p = raw
	case *int:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer, got %q", ErrInvalidArgument, f.Name, raw)
		}
		*p = n
	case *float64:
		x, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a float, got %q", ErrInvalidArgument, f.Name, raw)
		}
		*p = x
	case *[]string:
		list, err := parseList(raw)
		if err != nil {
			return fmt.Errorf("%w: %s expects a list: %v", ErrInvalidArgument, f.Name, err)
		}
		*p = list
	}
	return nil
}

func (f Field) typeError(v any) error {
	return fmt.Errorf("%w: %s expects %s, got %T", ErrInvalidArgument, f.Name, f.Type, v)
}

// parseList accepts a JSON array of strings or a comma separated list.
func parseList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, err
		}
		if list == nil {
			list = []string{}
		}
		return list, nil
	}
	parts := strings.Split(raw, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list, nil
}
