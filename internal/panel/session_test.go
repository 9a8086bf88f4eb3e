package panel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCreateAndValidate(t *testing.T) {
	store := setupTestStore(t)
	sessions := NewSessionManager(store)

	token, err := sessions.Create()
	require.NoError(t, err)
	assert.Len(t, token, 64)

	assert.True(t, sessions.Validate(token))
	assert.False(t, sessions.Validate("bogus"))
	assert.False(t, sessions.Validate(""))
}

func TestSessionDestroy(t *testing.T) {
	store := setupTestStore(t)
	sessions := NewSessionManager(store)

	token, err := sessions.Create()
	require.NoError(t, err)

	sessions.Destroy()
	assert.False(t, sessions.Validate(token))
}

func TestSessionExpiry(t *testing.T) {
	store := setupTestStore(t)
	sessions := NewSessionManager(store)

	token, err := sessions.Create()
	require.NoError(t, err)

	// Force the stored expiry into the past
	expired := time.Now().Add(-time.Hour).Format(time.RFC3339)
	require.NoError(t, store.Set("session_expiry", expired))

	assert.False(t, sessions.Validate(token))
}

func TestSessionRefresh(t *testing.T) {
	store := setupTestStore(t)
	sessions := NewSessionManager(store)

	token, err := sessions.Create()
	require.NoError(t, err)

	assert.True(t, sessions.Refresh(token))
	assert.False(t, sessions.Refresh("bogus"))
}

func TestSessionSuperseded(t *testing.T) {
	store := setupTestStore(t)
	sessions := NewSessionManager(store)

	first, err := sessions.Create()
	require.NoError(t, err)
	second, err := sessions.Create()
	require.NoError(t, err)

	// Only the latest session is valid
	assert.False(t, sessions.Validate(first))
	assert.True(t, sessions.Validate(second))
}
