package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwarner/routinepanel/internal/db"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	path := t.TempDir() + "/test.db"
	database, err := db.New(path)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations())
	t.Cleanup(func() { database.Close() })
	return NewStore(database.DB)
}

func TestSetupPassword(t *testing.T) {
	store := setupTestStore(t)
	auth := NewAuth(store)

	assert.True(t, auth.NeedsSetup())

	require.NoError(t, auth.SetupPassword("correct-horse"))
	assert.False(t, auth.NeedsSetup())

	assert.True(t, auth.VerifyPassword("correct-horse"))
	assert.False(t, auth.VerifyPassword("wrong"))
}

func TestSetupPasswordTooShort(t *testing.T) {
	store := setupTestStore(t)
	auth := NewAuth(store)

	err := auth.SetupPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestSetupPasswordTwice(t *testing.T) {
	store := setupTestStore(t)
	auth := NewAuth(store)

	require.NoError(t, auth.SetupPassword("first-password"))
	err := auth.SetupPassword("second-password")
	assert.ErrorIs(t, err, ErrPasswordExists)
}

func TestResetPassword(t *testing.T) {
	store := setupTestStore(t)
	auth := NewAuth(store)

	require.NoError(t, auth.SetupPassword("first-password"))
	require.NoError(t, auth.ResetPassword("second-password"))

	assert.False(t, auth.VerifyPassword("first-password"))
	assert.True(t, auth.VerifyPassword("second-password"))
}

func TestStoreGetSet(t *testing.T) {
	store := setupTestStore(t)

	val, err := store.Get("missing")
	require.NoError(t, err)
	assert.Equal(t, "", val)

	require.NoError(t, store.Set("k", "v1"))
	require.NoError(t, store.Set("k", "v2"))

	val, err = store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)
}
