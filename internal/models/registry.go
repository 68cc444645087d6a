package models

import (
	"fmt"
	"sort"
)

// registry maps each kind name to its fresh-record constructor.
var registry = map[string]func() Model{
	"BaseModel": func() Model { b := NewBaseModel(); return &b },
	"User":      func() Model { return NewUser() },
	"State":     func() Model { return NewState() },
	"City":      func() Model { return NewCity() },
	"Amenity":   func() Model { return NewAmenity() },
	"Place":     func() Model { return NewPlace() },
	"Review":    func() Model { return NewReview() },
}

// IsKnown reports whether name is a registered kind.
func IsKnown(name string) bool {
	_, ok := registry[name]
	return ok
}

// Kinds returns the registered kind names, sorted.
func Kinds() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a fresh record of the named kind with a new identity and default fields.
func New(name string) (Model, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return ctor(), nil
}

// Construct rebuilds a record of the named kind from a serialized payload.
// Identity and timestamps come from the payload; keys outside the declared
// field set are kept as extra attributes.
func Construct(name string, payload map[string]any) (Model, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	m := ctor()
	*m.Base() = BaseModel{}
	if err := apply(m, payload); err != nil {
		return nil, fmt.Errorf("failed to construct %s: %w", name, err)
	}
	return m, nil
}
