package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, kind := range Kinds() {
		for i := 0; i < 50; i++ {
			m, err := New(kind)
			require.NoError(t, err, "New(%s)", kind)
			id := m.Base().ID
			require.NotEmpty(t, id, "New(%s) returned empty id", kind)
			require.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
	}
}

func TestFreshTimestampsAreEqual(t *testing.T) {
	for _, kind := range Kinds() {
		m, err := New(kind)
		require.NoError(t, err)
		b := m.Base()
		assert.True(t, b.CreatedAt.Equal(b.UpdatedAt), "%s: created_at %v != updated_at %v", kind, b.CreatedAt, b.UpdatedAt)
		assert.Equal(t, kind, m.TypeName())
	}
}

func TestSaveAdvancesUpdatedAt(t *testing.T) {
	u := NewUser()
	before := u.UpdatedAt

	u.Save()
	assert.True(t, u.UpdatedAt.After(u.CreatedAt), "updated_at %v should be after created_at %v", u.UpdatedAt, u.CreatedAt)
	assert.True(t, u.UpdatedAt.After(before), "updated_at %v should be after previous %v", u.UpdatedAt, before)

	// Back-to-back saves still move forward.
	prev := u.UpdatedAt
	u.Save()
	assert.True(t, u.UpdatedAt.After(prev), "second save did not advance updated_at")
}

func TestSerialize(t *testing.T) {
	p := NewPlace()
	p.Name = "loft"
	p.NumberRooms = 3
	p.Latitude = 22.5
	p.AmenityIDs = []string{"a1", "a2"}
	p.SetAttr("color", "blue")

	got := Serialize(p)

	assert.Equal(t, "Place", got[ClassKey])
	assert.Equal(t, p.ID, got["id"])
	assert.Equal(t, p.CreatedAt.Format(TimeFormat), got["created_at"])
	assert.Equal(t, 3, got["number_rooms"])
	assert.Equal(t, 22.5, got["latitude"])
	assert.Equal(t, "loft", got["name"])
	assert.Empty(t, cmp.Diff([]string{"a1", "a2"}, got["amenity_ids"]))
	assert.Equal(t, "blue", got["color"])
	assert.Equal(t, 0, got["max_guest"])
	assert.Equal(t, "", got["description"])
}

func TestRoundTrip(t *testing.T) {
	timeEqual := cmp.Comparer(func(x, y time.Time) bool { return x.Equal(y) })

	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			m, err := New(kind)
			require.NoError(t, err)
			for _, f := range m.Fields() {
				raw := map[FieldType]string{
					StringField:     "value-" + f.Name,
					IntField:        "7",
					FloatField:      "1.25",
					StringListField: `["x","y"]`,
				}[f.Type]
				require.NoError(t, SetField(m, f.Name, raw), "SetField(%s)", f.Name)
			}
			m.Base().SetAttr("nickname", "extra")
			m.Base().Save()

			rebuilt, err := Construct(kind, Serialize(m))
			require.NoError(t, err)

			if diff := cmp.Diff(Serialize(m), Serialize(rebuilt)); diff != "" {
				t.Errorf("serialized form differs (-want +got):\n%s", diff)
			}
			want, got := m.Base(), rebuilt.Base()
			assert.Equal(t, want.ID, got.ID)
			assert.True(t, cmp.Equal(want.CreatedAt, got.CreatedAt, timeEqual), "created_at %v vs %v", want.CreatedAt, got.CreatedAt)
			assert.True(t, cmp.Equal(want.UpdatedAt, got.UpdatedAt, timeEqual), "updated_at %v vs %v", want.UpdatedAt, got.UpdatedAt)
		})
	}
}

func TestTimestampsAreLocalWallClock(t *testing.T) {
	const stamp = "2024-01-14T19:45:03.000001"

	m, err := Construct("User", map[string]any{"id": "x", "created_at": stamp, "updated_at": stamp})
	require.NoError(t, err)

	b := m.Base()
	assert.Equal(t, time.Local, b.CreatedAt.Location())
	assert.Equal(t, stamp, Serialize(m)["created_at"])
	assert.Equal(t, stamp, b.UpdatedAt.Format(TimeFormat))
}

func TestConstructFromJSONTypes(t *testing.T) {
	payload := map[string]any{
		"__class__":      "Place",
		"id":             "abc",
		"created_at":     "2024-01-14T19:45:03.255968",
		"updated_at":     "2024-01-14T19:45:04",
		"number_rooms":   float64(4),
		"max_guest":      json.Number("2"),
		"latitude":       float64(33),
		"amenity_ids":    []any{"one", "two"},
		"favorite_color": "green",
	}

	m, err := Construct("Place", payload)
	require.NoError(t, err)
	p := m.(*Place)

	assert.Equal(t, "abc", p.ID)
	assert.Equal(t, 4, p.NumberRooms)
	assert.Equal(t, 2, p.MaxGuest)
	assert.Equal(t, 33.0, p.Latitude)
	assert.Empty(t, cmp.Diff([]string{"one", "two"}, p.AmenityIDs))
	assert.Equal(t, 255968000, p.CreatedAt.Nanosecond(), "fractional seconds lost")
	v, ok := p.Attr("favorite_color")
	assert.True(t, ok)
	assert.Equal(t, "green", v)
}

func TestConstructErrors(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		payload map[string]any
		wantErr error
	}{
		{
			name:    "unknown kind",
			kind:    "TestReload",
			payload: map[string]any{"id": "x"},
			wantErr: ErrUnknownType,
		},
		{
			name:    "bad created_at",
			kind:    "User",
			payload: map[string]any{"id": "x", "created_at": "yesterday"},
			wantErr: ErrMalformedTimestamp,
		},
		{
			name:    "numeric updated_at",
			kind:    "User",
			payload: map[string]any{"id": "x", "updated_at": float64(12)},
			wantErr: ErrMalformedTimestamp,
		},
		{
			name: "updated before created",
			kind: "User",
			payload: map[string]any{
				"id":         "x",
				"created_at": "2024-01-14T19:45:03.000001",
				"updated_at": "2024-01-14T19:45:03.000000",
			},
			wantErr: ErrMalformedTimestamp,
		},
		{
			name:    "null id",
			kind:    "User",
			payload: map[string]any{"id": nil},
			wantErr: ErrNullArgument,
		},
		{
			name:    "null class",
			kind:    "User",
			payload: map[string]any{"__class__": nil, "id": "x"},
			wantErr: ErrNullArgument,
		},
		{
			name:    "class mismatch",
			kind:    "User",
			payload: map[string]any{"__class__": "City", "id": "x"},
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "wrong field type",
			kind:    "Place",
			payload: map[string]any{"id": "x", "max_guest": "many"},
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "fractional int",
			kind:    "Place",
			payload: map[string]any{"id": "x", "max_guest": 2.5},
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "int above range",
			kind:    "Place",
			payload: map[string]any{"id": "x", "max_guest": 1e20},
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "int below range",
			kind:    "Place",
			payload: map[string]any{"id": "x", "number_rooms": -1e20},
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "int of exactly 2^63",
			kind:    "Place",
			payload: map[string]any{"id": "x", "price_by_night": float64(1 << 63)},
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "json number above range",
			kind:    "Place",
			payload: map[string]any{"id": "x", "max_guest": json.Number("100000000000000000000")},
			wantErr: ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Construct(tt.kind, tt.payload)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConstructWithoutIDLeavesIdentityEmpty(t *testing.T) {
	m, err := Construct("State", map[string]any{"name": "Cairo"})
	require.NoError(t, err)
	assert.Empty(t, m.Base().ID)
	assert.True(t, m.Base().CreatedAt.Equal(m.Base().UpdatedAt), "missing timestamps should default to the same instant")
}

func TestSetField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		raw     string
		wantErr error
		check   func(p *Place) bool
	}{
		{"string", "name", "My house", nil, func(p *Place) bool { return p.Name == "My house" }},
		{"int", "max_guest", "4", nil, func(p *Place) bool { return p.MaxGuest == 4 }},
		{"float", "longitude", "-12.5", nil, func(p *Place) bool { return p.Longitude == -12.5 }},
		{"json list", "amenity_ids", `["a", "b"]`, nil, func(p *Place) bool { return len(p.AmenityIDs) == 2 }},
		{"comma list", "amenity_ids", "a, b,c", nil, func(p *Place) bool { return len(p.AmenityIDs) == 3 && p.AmenityIDs[2] == "c" }},
		{"bad int", "number_rooms", "three", ErrInvalidArgument, nil},
		{"int overflow", "number_rooms", "100000000000000000000", ErrInvalidArgument, nil},
		{"bad float", "latitude", "north", ErrInvalidArgument, nil},
		{"read-only id", "id", "new-id", ErrInvalidArgument, nil},
		{"read-only created_at", "created_at", "2024-01-01T00:00:00", ErrInvalidArgument, nil},
		{"extra", "rating", "5", nil, func(p *Place) bool { v, ok := p.Attr("rating"); return ok && v == "5" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlace()
			err := SetField(p, tt.field, tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.check(p), "field %s not applied: %+v", tt.field, p)
		})
	}
}

func TestRender(t *testing.T) {
	u := NewUser()
	u.Email = "abdo@email.com"
	u.SetAttr("age", 30)

	out := u.String()
	require.True(t, strings.HasPrefix(out, "[User] ("+u.ID+") {"), out)

	order := []string{`"id"`, `"created_at"`, `"updated_at"`, `"email"`, `"password"`, `"first_name"`, `"last_name"`, `"age": 30`}
	last := -1
	for _, part := range order {
		idx := strings.Index(out, part)
		require.GreaterOrEqual(t, idx, 0, "String() missing %s: %s", part, out)
		assert.Greater(t, idx, last, "%s out of order in %s", part, out)
		last = idx
	}
	assert.Contains(t, out, `"email": "abdo@email.com"`)

	p := NewPlace()
	assert.Contains(t, p.String(), `"latitude": 0.0`)
	assert.Contains(t, p.String(), `"amenity_ids": []`)

	b, err := New("BaseModel")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(b.String(), "[BaseModel] ("), b.String())
}

func TestRegistry(t *testing.T) {
	want := []string{"Amenity", "BaseModel", "City", "Place", "Review", "State", "User"}
	if diff := cmp.Diff(want, Kinds()); diff != "" {
		t.Errorf("Kinds() mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, IsKnown("NoSuchType"))
	_, err := New("NoSuchType")
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.True(t, strings.HasPrefix(Key(NewCity()), "City."), "Key() should be prefixed with the type name")
}
