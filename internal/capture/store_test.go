package capture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xplore/internal/models/response_models"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xplore", "session.json")
	store := NewSessionStore(path)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)

	require.NoError(t, store.Save(&StoredSession{
		Token: "tok",
		User:  response_models.UserResponse{ID: "u1", Email: " Ana@Example.COM ", DisplayName: " Ana "},
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	sess, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, "ana@example.com", sess.User.Email)
	assert.Equal(t, "Ana", sess.User.DisplayName)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	sess, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestDefaultSessionPathHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	path, err := DefaultSessionPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "xplore", "session.json"), path)
}

func TestSaveRejectsEmptyToken(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "s.json"))
	assert.Error(t, store.Save(&StoredSession{}))
}
