package manager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n1rna/hbnb-cli/internal/config"
	"github.com/n1rna/hbnb-cli/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	cfg := &config.Config{FilePath: filepath.Join(t.TempDir(), "file.json"), LogLevel: "warn"}
	m, err := NewManager(cfg)
	require.NoError(t, err)
	return m
}

func TestCreateNewPersists(t *testing.T) {
	m := newTestManager(t)

	id, err := m.CreateNew("User")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	record, err := m.Find("User", id)
	require.NoError(t, err)
	assert.True(t, record.Base().UpdatedAt.After(record.Base().CreatedAt))

	// A second manager on the same file sees the record.
	other, err := NewManager(m.config)
	require.NoError(t, err)
	_, err = other.Find("User", id)
	assert.NoError(t, err)
}

func TestCreateNewUnknownType(t *testing.T) {
	m := newTestManager(t)
	_, err := m.CreateNew("User")
	require.NoError(t, err)

	_, err = m.CreateNew("NoSuchType")
	assert.ErrorIs(t, err, models.ErrUnknownType)
	assert.Equal(t, 1, m.Storage().Len(), "membership must not change")
}

func TestFindErrors(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Find("User", "nonexistent-id")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = m.Find("Ghost", "nonexistent-id")
	assert.ErrorIs(t, err, models.ErrUnknownType)
}

func TestListAll(t *testing.T) {
	m := newTestManager(t)
	for _, kind := range []string{"User", "User", "City", "Place"} {
		_, err := m.CreateNew(kind)
		require.NoError(t, err)
	}

	all, err := m.ListAll("")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	users, err := m.ListAll("User")
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Equal(t, "User", u.TypeName())
	}

	_, err = m.ListAll("Spaceship")
	assert.ErrorIs(t, err, models.ErrUnknownType)

	count, err := m.Count("City")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpdateField(t *testing.T) {
	m := newTestManager(t)
	id, err := m.CreateNew("Place")
	require.NoError(t, err)
	before, err := m.Find("Place", id)
	require.NoError(t, err)
	updatedBefore := before.Base().UpdatedAt

	require.NoError(t, m.UpdateField("Place", id, "max_guest", "6"))
	require.NoError(t, m.UpdateField("Place", id, "name", "Sea view"))
	require.NoError(t, m.UpdateField("Place", id, "pets", "allowed"))

	got, err := m.Find("Place", id)
	require.NoError(t, err)
	place := got.(*models.Place)
	assert.Equal(t, 6, place.MaxGuest)
	assert.Equal(t, "Sea view", place.Name)
	pets, ok := place.Attr("pets")
	assert.True(t, ok)
	assert.Equal(t, "allowed", pets)
	assert.True(t, place.UpdatedAt.After(updatedBefore))

	// Persisted
	other, err := NewManager(m.config)
	require.NoError(t, err)
	reloaded, err := other.Find("Place", id)
	require.NoError(t, err)
	assert.Equal(t, 6, reloaded.(*models.Place).MaxGuest)
}

func TestUpdateFieldsIsAllOrNothing(t *testing.T) {
	m := newTestManager(t)
	id, err := m.CreateNew("Place")
	require.NoError(t, err)

	err = m.UpdateFields("Place", id, map[string]string{
		"name":         "Cabin",
		"number_rooms": "lots",
	})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	got, err := m.Find("Place", id)
	require.NoError(t, err)
	assert.Equal(t, "", got.(*models.Place).Name)
}

func TestUpdateFieldErrors(t *testing.T) {
	m := newTestManager(t)
	id, err := m.CreateNew("User")
	require.NoError(t, err)

	assert.ErrorIs(t, m.UpdateField("User", "missing", "email", "x"), models.ErrNotFound)
	assert.ErrorIs(t, m.UpdateField("Nope", id, "email", "x"), models.ErrUnknownType)
	assert.ErrorIs(t, m.UpdateField("User", id, "id", "x"), models.ErrInvalidArgument)
}

func TestRemove(t *testing.T) {
	m := newTestManager(t)
	id, err := m.CreateNew("Review")
	require.NoError(t, err)

	require.NoError(t, m.Remove("Review", id))
	_, err = m.Find("Review", id)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, m.Remove("Review", id), models.ErrNotFound)

	other, err := NewManager(m.config)
	require.NoError(t, err)
	assert.Equal(t, 0, other.Storage().Len())
}

// blockStoreDir replaces the directory holding the store file with a regular
// file so every later save fails.
func blockStoreDir(t *testing.T, m *Manager) {
	t.Helper()
	dir := filepath.Dir(m.Storage().Path())
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("blocker"), 0o644))
}

func TestFailedSaveLeavesMemoryUnchanged(t *testing.T) {
	m := newTestManager(t)
	id, err := m.CreateNew("User")
	require.NoError(t, err)
	require.NoError(t, m.UpdateField("User", id, "first_name", "Betty"))
	blockStoreDir(t, m)

	t.Run("create", func(t *testing.T) {
		_, err := m.CreateNew("City")
		require.Error(t, err)
		assert.Equal(t, 1, m.Storage().Len())
		count, err := m.Count("City")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("update", func(t *testing.T) {
		before, err := m.Find("User", id)
		require.NoError(t, err)

		err = m.UpdateFields("User", id, map[string]string{"first_name": "Holberton", "last_name": "School"})
		require.Error(t, err)

		got, err := m.Find("User", id)
		require.NoError(t, err)
		assert.Same(t, before, got)
		assert.Equal(t, "Betty", got.(*models.User).FirstName)
		assert.Equal(t, "", got.(*models.User).LastName)
	})

	t.Run("remove", func(t *testing.T) {
		require.Error(t, m.Remove("User", id))
		_, err := m.Find("User", id)
		assert.NoError(t, err)
		assert.Equal(t, []string{models.KeyFor("User", id)}, m.Storage().Keys())
	})
}

func TestNewManagerRejectsMisfiledRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.json")
	content := `{"User.abc": {"__class__": "User", "id": "xyz", "created_at": "2017-09-28T21:03:54.052298", "updated_at": "2017-09-28T21:03:54.052302"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := NewManager(&config.Config{FilePath: path})
	assert.ErrorIs(t, err, models.ErrMalformedFile)
}

func TestNewManagerMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewManager(&config.Config{FilePath: path})
	assert.ErrorIs(t, err, models.ErrMalformedFile)
}

func TestCloseWithoutRecordsLeavesNoFile(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Close())

	_, err := os.Stat(m.Storage().Path())
	assert.True(t, os.IsNotExist(err))
}
