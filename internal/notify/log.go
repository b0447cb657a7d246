// Package notify owns the in-app notification log. Push events append
// to it, the header widget reads it, and it survives restarts through
// the local state store. Nobody mutates the log except through its own
// methods.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/astrafab/prodtrack/internal/model"
)

// MaxEntries caps the log at the most recent notifications; older ones
// are discarded.
const MaxEntries = 50

// Persister is the slice of the state store the log needs.
type Persister interface {
	ReplaceNotifications(ctx context.Context, notifications []model.Notification) error
	LoadNotifications(ctx context.Context) ([]model.Notification, error)
	ClearNotifications(ctx context.Context) error
}

// Log is the bounded, newest-first notification list.
type Log struct {
	mu      sync.Mutex
	entries []model.Notification
	store   Persister
	log     zerolog.Logger
}

// NewLog creates an empty log backed by the given persister. A nil
// persister keeps the log in memory only.
func NewLog(store Persister, log zerolog.Logger) *Log {
	return &Log{store: store, log: log}
}

// Load restores the persisted log, trimming it to the cap.
func (l *Log) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}

	entries, err := l.store.LoadNotifications(ctx)
	if err != nil {
		return err
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
	return nil
}

// Add prepends a notification and drops the oldest entries beyond the
// cap.
func (l *Log) Add(ctx context.Context, n model.Notification) {
	l.mu.Lock()
	l.entries = append([]model.Notification{n}, l.entries...)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	l.mu.Unlock()

	l.persist(ctx)
}

// All returns a copy of the log, newest first.
func (l *Log) All() []model.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.Notification, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// UnreadCount returns the number of unread entries.
func (l *Log) UnreadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, n := range l.entries {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead flags a single notification as read.
func (l *Log) MarkRead(ctx context.Context, id string) {
	l.mu.Lock()
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i].Read = true
			break
		}
	}
	l.mu.Unlock()

	l.persist(ctx)
}

// MarkAllRead flags every notification as read.
func (l *Log) MarkAllRead(ctx context.Context) {
	l.mu.Lock()
	for i := range l.entries {
		l.entries[i].Read = true
	}
	l.mu.Unlock()

	l.persist(ctx)
}

// Clear empties the log, both in memory and in the state store.
func (l *Log) Clear(ctx context.Context) {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()

	if l.store == nil {
		return
	}
	if err := l.store.ClearNotifications(ctx); err != nil {
		l.log.Warn().Err(err).Msg("clearing persisted notifications")
	}
}

// persist writes the current snapshot to the state store. Persistence
// failures are logged, not surfaced: the in-memory log is the working
// copy.
func (l *Log) persist(ctx context.Context) {
	if l.store == nil {
		return
	}

	if err := l.store.ReplaceNotifications(ctx, l.All()); err != nil {
		l.log.Warn().Err(err).Msg("persisting notifications")
	}
}
