package notify

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/store"
)

func newMemoryLog() *Log {
	return NewLog(nil, zerolog.Nop())
}

func entry(i int) model.Notification {
	return model.Notification{
		ID:        fmt.Sprintf("n%d", i),
		Title:     fmt.Sprintf("Event %d", i),
		Severity:  model.SeverityInfo,
		Timestamp: time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Second),
	}
}

func TestLogCapsAtFiftyNewestFirst(t *testing.T) {
	l := newMemoryLog()
	ctx := context.Background()

	for i := 1; i <= 60; i++ {
		l.Add(ctx, entry(i))
	}

	entries := l.All()
	require.Len(t, entries, MaxEntries)

	// The newest arrival is first; the ten oldest are gone.
	assert.Equal(t, "n60", entries[0].ID)
	assert.Equal(t, "n11", entries[len(entries)-1].ID)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.After(entries[i-1].Timestamp))
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	l := newMemoryLog()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		l.Add(ctx, entry(i))
	}
	assert.Equal(t, 3, l.UnreadCount())

	l.MarkRead(ctx, "n2")
	assert.Equal(t, 2, l.UnreadCount())

	// Marking an unknown id is a no-op.
	l.MarkRead(ctx, "missing")
	assert.Equal(t, 2, l.UnreadCount())

	l.MarkAllRead(ctx)
	assert.Zero(t, l.UnreadCount())
	assert.Equal(t, 3, l.Len())

	l.Clear(ctx)
	assert.Zero(t, l.Len())
}

func TestAllReturnsCopy(t *testing.T) {
	l := newMemoryLog()
	ctx := context.Background()
	l.Add(ctx, entry(1))

	entries := l.All()
	entries[0].Title = "mutated"

	assert.Equal(t, "Event 1", l.All()[0].Title)
}

func TestLogPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "state.db")

	s, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)

	l := NewLog(s, zerolog.Nop())
	for i := 1; i <= 5; i++ {
		l.Add(ctx, entry(i))
	}
	l.MarkRead(ctx, "n5")
	require.NoError(t, s.Close())

	// Reopen as a fresh process would.
	s, err = store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	restored := NewLog(s, zerolog.Nop())
	require.NoError(t, restored.Load(ctx))

	entries := restored.All()
	require.Len(t, entries, 5)
	assert.Equal(t, "n5", entries[0].ID)
	assert.True(t, entries[0].Read)
	assert.Equal(t, 4, restored.UnreadCount())
}
