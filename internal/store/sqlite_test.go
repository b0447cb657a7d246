package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrafab/prodtrack/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	loaded, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded, "empty store has no profile")

	user := model.User{ID: "user-1", Name: "Dana", Email: "dana@example.com", Role: model.RoleEngineer}
	require.NoError(t, s.SaveProfile(ctx, user))

	loaded, err = s.LoadProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, user, *loaded)

	// Saving again replaces, never accumulates.
	other := model.User{ID: "user-2", Name: "Kim", Email: "kim@example.com", Role: model.RoleProductManager}
	require.NoError(t, s.SaveProfile(ctx, other))

	loaded, err = s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, other, *loaded)

	require.NoError(t, s.ClearProfile(ctx))
	loaded, err = s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestNotificationsRoundTripPreservesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	notifications := []model.Notification{
		{ID: "n3", Title: "Third", Message: "c", Severity: model.SeverityError, Timestamp: base, Read: false},
		{ID: "n2", Title: "Second", Message: "b", Severity: model.SeverityInfo, Timestamp: base, Read: true,
			EntityType: model.EntityItem, EntityID: "item-1"},
		{ID: "n1", Title: "First", Message: "a", Severity: model.SeveritySuccess, Timestamp: base.Add(-time.Hour), Read: true},
	}

	require.NoError(t, s.ReplaceNotifications(ctx, notifications))

	loaded, err := s.LoadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	// Order is positional, not timestamp-based: n3 and n2 share a
	// timestamp but must keep their relative order.
	assert.Equal(t, "n3", loaded[0].ID)
	assert.Equal(t, "n2", loaded[1].ID)
	assert.Equal(t, "n1", loaded[2].ID)

	assert.Equal(t, model.EntityItem, loaded[1].EntityType)
	assert.Equal(t, "item-1", loaded[1].EntityID)
	assert.True(t, loaded[1].Read)
	assert.False(t, loaded[0].Read)
}

func TestReplaceNotificationsIsSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := []model.Notification{{ID: "n1", Title: "Old", Timestamp: time.Now()}}
	require.NoError(t, s.ReplaceNotifications(ctx, first))

	second := []model.Notification{{ID: "n2", Title: "New", Timestamp: time.Now()}}
	require.NoError(t, s.ReplaceNotifications(ctx, second))

	loaded, err := s.LoadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "n2", loaded[0].ID)

	require.NoError(t, s.ClearNotifications(ctx))
	loaded, err = s.LoadNotifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
