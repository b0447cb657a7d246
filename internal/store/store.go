// Package store is the client's local state: the cached user profile
// and the persisted notification log. It is the terminal equivalent of
// the browser's local storage; nothing in it is authoritative and all
// of it is discarded on logout.
package store

import (
	"context"

	"github.com/astrafab/prodtrack/internal/model"
)

// Store defines the local persistence interface.
type Store interface {
	// Profile caching. LoadProfile returns nil when no profile is
	// stored.
	SaveProfile(ctx context.Context, user model.User) error
	LoadProfile(ctx context.Context) (*model.User, error)
	ClearProfile(ctx context.Context) error

	// Notification log persistence. ReplaceNotifications stores the
	// full snapshot, newest first.
	ReplaceNotifications(ctx context.Context, notifications []model.Notification) error
	LoadNotifications(ctx context.Context) ([]model.Notification, error)
	ClearNotifications(ctx context.Context) error

	Close() error
}
