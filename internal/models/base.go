// Package models defines the record kinds managed by the hbnb store and the
// lifecycle they share: identity, timestamps and an open attribute bag.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeFormat is the ISO-8601 layout used for created_at/updated_at on disk.
// It carries no zone: timestamps are local wall-clock times, so a value
// written during the repeated hour at the end of daylight saving time reads
// back as the first occurrence of that hour.
const TimeFormat = "2006-01-02T15:04:05.000000"

// ClassKey is the discriminator key naming the concrete kind in a serialized record.
const ClassKey = "__class__"

// Reserved keys every serialized record carries.
const (
	keyID        = "id"
	keyCreatedAt = "created_at"
	keyUpdatedAt = "updated_at"
)

// Model is implemented by every record kind
type Model interface {
	// TypeName returns the kind name used as discriminator and key prefix.
	TypeName() string
	// Base returns the shared identity/timestamp part of the record.
	Base() *BaseModel
	// Fields returns the kind's declared fields in declaration order.
	Fields() []Field
	String() string
}

// BaseModel represents the base structure for all hbnb records
// with UUID-based identification and creation/update tracking
type BaseModel struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	extra      map[string]any
	extraOrder []string
}

// NewBaseModel creates a new base with generated UUID and current timestamps
func NewBaseModel() BaseModel {
	now := timestamp()
	return BaseModel{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// timestamp returns the current local time at the precision kept on disk.
func timestamp() time.Time {
	return time.Now().Truncate(time.Microsecond)
}

// TypeName implements Model.
func (b *BaseModel) TypeName() string { return "BaseModel" }

// Base implements Model.
func (b *BaseModel) Base() *BaseModel { return b }

// Fields implements Model. The base kind declares no fields of its own.
func (b *BaseModel) Fields() []Field { return nil }

func (b *BaseModel) String() string { return Render(b) }

// Save marks the record as updated. It never writes to disk; persistence is
// the store's job. UpdatedAt always moves strictly forward.
func (b *BaseModel) Save() {
	now := timestamp()
	if !now.After(b.UpdatedAt) {
		now = b.UpdatedAt.Add(time.Microsecond)
	}
	b.UpdatedAt = now
}

// SetAttr attaches or replaces an extra attribute outside the declared field set.
func (b *BaseModel) SetAttr(name string, value any) {
	if b.extra == nil {
		b.extra = make(map[string]any)
	}
	if _, exists := b.extra[name]; !exists {
		b.extraOrder = append(b.extraOrder, name)
	}
	b.extra[name] = value
}

// Attr returns an extra attribute.
func (b *BaseModel) Attr(name string) (any, bool) {
	v, ok := b.extra[name]
	return v, ok
}

// AttrNames returns extra attribute names in insertion order.
func (b *BaseModel) AttrNames() []string {
	names := make([]string, len(b.extraOrder))
	copy(names, b.extraOrder)
	return names
}

// Key returns the composite store key "<type>.<id>" of a record.
func Key(m Model) string {
	return KeyFor(m.TypeName(), m.Base().ID)
}

// KeyFor builds a composite store key.
func KeyFor(typeName, id string) string {
	return fmt.Sprintf("%s.%s", typeName, id)
}

// parseTimestamp parses a serialized timestamp in time.Local. Fractional
// seconds are optional.
func parseTimestamp(name string, v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s must be a string, got %T", ErrMalformedTimestamp, name, v)
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q: %v", ErrMalformedTimestamp, name, s, err)
	}
	return t, nil
}
