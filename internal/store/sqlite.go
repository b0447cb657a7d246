package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/astrafab/prodtrack/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating state directory %s: %w", dir, err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SaveProfile stores the authenticated user's profile, replacing any
// previous one. The profile table only ever holds one row.
func (s *SQLiteStore) SaveProfile(ctx context.Context, user model.User) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM profile"); err != nil {
		return fmt.Errorf("clearing profile: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO profile (id, name, email, role) VALUES (?, ?, ?, ?)",
		user.ID, user.Name, user.Email, string(user.Role),
	)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	return tx.Commit()
}

// LoadProfile returns the cached profile, or nil when none is stored.
func (s *SQLiteStore) LoadProfile(ctx context.Context) (*model.User, error) {
	var row struct {
		ID    string `db:"id"`
		Name  string `db:"name"`
		Email string `db:"email"`
		Role  string `db:"role"`
	}

	err := s.db.GetContext(ctx, &row, "SELECT id, name, email, role FROM profile LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	return &model.User{
		ID:    row.ID,
		Name:  row.Name,
		Email: row.Email,
		Role:  model.Role(row.Role),
	}, nil
}

// ClearProfile removes the cached profile.
func (s *SQLiteStore) ClearProfile(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM profile"); err != nil {
		return fmt.Errorf("clearing profile: %w", err)
	}
	return nil
}

// notificationRow is the database representation of a notification.
type notificationRow struct {
	ID         string    `db:"id"`
	Position   int       `db:"position"`
	Title      string    `db:"title"`
	Message    string    `db:"message"`
	Severity   string    `db:"severity"`
	Timestamp  time.Time `db:"timestamp"`
	Read       bool      `db:"read"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
}

// ReplaceNotifications stores the full notification snapshot. The
// position column preserves the log's newest-first ordering exactly,
// independent of timestamp ties.
func (s *SQLiteStore) ReplaceNotifications(ctx context.Context, notifications []model.Notification) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}

	const query = `
		INSERT INTO notifications (
			id, position, title, message, severity,
			timestamp, read, entity_type, entity_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for i, n := range notifications {
		_, err := stmt.ExecContext(ctx,
			n.ID, i, n.Title, n.Message, string(n.Severity),
			n.Timestamp, n.Read, string(n.EntityType), n.EntityID,
		)
		if err != nil {
			return fmt.Errorf("inserting notification %s: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// LoadNotifications returns the persisted log, newest first.
func (s *SQLiteStore) LoadNotifications(ctx context.Context) ([]model.Notification, error) {
	var rows []notificationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, position, title, message, severity,
		       timestamp, read, entity_type, entity_id
		FROM notifications
		ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("loading notifications: %w", err)
	}

	notifications := make([]model.Notification, len(rows))
	for i, row := range rows {
		notifications[i] = model.Notification{
			ID:         row.ID,
			Title:      row.Title,
			Message:    row.Message,
			Severity:   model.Severity(row.Severity),
			Timestamp:  row.Timestamp,
			Read:       row.Read,
			EntityType: model.EntityType(row.EntityType),
			EntityID:   row.EntityID,
		}
	}
	return notifications, nil
}

// ClearNotifications removes every persisted notification.
func (s *SQLiteStore) ClearNotifications(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}
	return nil
}
