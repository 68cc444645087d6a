package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Serialize renders a record as a flat map: declared fields, extra attributes,
// identity, ISO-8601 timestamps and the __class__ discriminator.
func Serialize(m Model) map[string]any {
	b := m.Base()
	out := make(map[string]any, len(b.extra)+8)
	for _, name := range b.extraOrder {
		out[name] = b.extra[name]
	}
	for _, f := range m.Fields() {
		out[f.Name] = f.Value()
	}
	out[keyID] = b.ID
	out[keyCreatedAt] = b.CreatedAt.Format(TimeFormat)
	out[keyUpdatedAt] = b.UpdatedAt.Format(TimeFormat)
	out[ClassKey] = m.TypeName()
	return out
}

// apply copies a serialized payload into m.
func apply(m Model, payload map[string]any) error {
	if v, ok := payload[ClassKey]; ok {
		switch class := v.(type) {
		case nil:
			return fmt.Errorf("%w: %s", ErrNullArgument, ClassKey)
		case string:
			if class != m.TypeName() {
				return fmt.Errorf("%w: %s is %q, expected %q", ErrInvalidArgument, ClassKey, class, m.TypeName())
			}
		default:
			return fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidArgument, ClassKey, v)
		}
	}

	b := m.Base()
	if v, ok := payload[keyID]; ok {
		switch id := v.(type) {
		case nil:
			return fmt.Errorf("%w: %s", ErrNullArgument, keyID)
		case string:
			b.ID = id
		default:
			return fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidArgument, keyID, v)
		}
	}

	var hasCreated, hasUpdated bool
	if v, ok := payload[keyCreatedAt]; ok {
		t, err := parseTimestamp(keyCreatedAt, v)
		if err != nil {
			return err
		}
		b.CreatedAt, hasCreated = t, true
	}
	if v, ok := payload[keyUpdatedAt]; ok {
		t, err := parseTimestamp(keyUpdatedAt, v)
		if err != nil {
			return err
		}
		b.UpdatedAt, hasUpdated = t, true
	}
	switch {
	case !hasCreated && !hasUpdated:
		b.CreatedAt = timestamp()
		b.UpdatedAt = b.CreatedAt
	case !hasCreated:
		b.CreatedAt = b.UpdatedAt
	case !hasUpdated:
		b.UpdatedAt = b.CreatedAt
	}
	if b.UpdatedAt.Before(b.CreatedAt) {
		return fmt.Errorf("%w: %s precedes %s", ErrMalformedTimestamp, keyUpdatedAt, keyCreatedAt)
	}

	fields := fieldIndex(m)
	for _, name := range sortedKeys(payload) {
		switch name {
		case ClassKey, keyID, keyCreatedAt, keyUpdatedAt:
			continue
		}
		if f, ok := fields[name]; ok {
			if err := f.assign(payload[name]); err != nil {
				return err
			}
			continue
		}
		b.SetAttr(name, payload[name])
	}
	return nil
}

// SetField updates one attribute from a raw string, converting it to the
// declared field's type. Names outside the declared set become extra string
// attributes. Identity and timestamps cannot be set this way.
func SetField(m Model, name, raw string) error {
	switch name {
	case "":
		return fmt.Errorf("%w: attribute name is empty", ErrInvalidArgument)
	case ClassKey, keyID, keyCreatedAt, keyUpdatedAt:
		return fmt.Errorf("%w: %s is read-only", ErrInvalidArgument, name)
	}
	if f, ok := fieldIndex(m)[name]; ok {
		return f.parse(raw)
	}
	m.Base().SetAttr(name, raw)
	return nil
}

// Render returns the human-readable form "[<type>] (<id>) {<fields>}".
func Render(m Model) string {
	b := m.Base()
	parts := []string{
		renderPair(keyID, b.ID),
		renderPair(keyCreatedAt, b.CreatedAt),
		renderPair(keyUpdatedAt, b.UpdatedAt),
	}
	for _, f := range m.Fields() {
		parts = append(parts, renderPair(f.Name, f.Value()))
	}
	for _, name := range b.extraOrder {
		parts = append(parts, renderPair(name, b.extra[name]))
	}
	return fmt.Sprintf("[%s] (%s) {%s}", m.TypeName(), b.ID, strings.Join(parts, ", "))
}

func renderPair(name string, v any) string {
	return strconv.Quote(name) + ": " + renderValue(v)
}

func renderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case time.Time:
		return x.Format(TimeFormat)
	case int:
		return strconv.Itoa(x)
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		return s
	case bool:
		return strconv.FormatBool(x)
	case []string:
		items := make([]string, len(x))
		for i, item := range x {
			items[i] = strconv.Quote(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case []any:
		items := make([]string, len(x))
		for i, item := range x {
			items[i] = renderValue(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return fmt.Sprintf("%v", x)
	}
}

func fieldIndex(m Model) map[string]Field {
	fields := m.Fields()
	index := make(map[string]Field, len(fields))
	for _, f := range fields {
		index[f.Name] = f
	}
	return index
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
