package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrafab/prodtrack/internal/credential"
	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/store"
)

// memCreds is an in-memory Credentials implementation for tests.
type memCreds struct {
	values map[string]string
}

func newMemCreds() *memCreds {
	return &memCreds{values: make(map[string]string)}
}

func (m *memCreds) Get(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (m *memCreds) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memCreds) Delete(key string) error {
	delete(m.values, key)
	return nil
}

func testStore(t *testing.T, path string) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRestoreWithoutToken(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, filepath.Join(t.TempDir(), "state.db"))

	sess, err := Restore(ctx, newMemCreds(), s)
	require.NoError(t, err)

	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Token())
	assert.Nil(t, sess.User())
	assert.Equal(t, model.Role(""), sess.Role())
}

func TestEstablishRestoreClear(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "state.db")
	creds := newMemCreds()
	s := testStore(t, dbPath)

	sess, err := Restore(ctx, creds, s)
	require.NoError(t, err)

	user := model.User{ID: "u1", Name: "Dana", Email: "dana@example.com", Role: model.RoleProjectManager}
	require.NoError(t, sess.Establish(ctx, "tok-abc", user))

	assert.True(t, sess.Authenticated())
	assert.Equal(t, "tok-abc", sess.Token())
	assert.Equal(t, model.RoleProjectManager, sess.Role())

	// A fresh session restores both token and profile.
	restored, err := Restore(ctx, creds, s)
	require.NoError(t, err)
	assert.True(t, restored.Authenticated())
	assert.Equal(t, "tok-abc", restored.Token())
	require.NotNil(t, restored.User())
	assert.Equal(t, user, *restored.User())

	// Clear drops everything, including the keyring entry.
	require.NoError(t, sess.Clear(ctx))
	assert.False(t, sess.Authenticated())
	_, err = creds.Get(credential.TokenKey)
	assert.Error(t, err)

	cleared, err := Restore(ctx, creds, s)
	require.NoError(t, err)
	assert.False(t, cleared.Authenticated())
}

func TestUserReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, filepath.Join(t.TempDir(), "state.db"))

	sess, err := Restore(ctx, newMemCreds(), s)
	require.NoError(t, err)
	require.NoError(t, sess.Establish(ctx, "tok", model.User{ID: "u1", Role: model.RoleEngineer}))

	u := sess.User()
	u.Role = model.RoleProductManager
	assert.Equal(t, model.RoleEngineer, sess.Role())
}
