package model

import "time"

// Severity tags a notification for display purposes.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// EntityType identifies the kind of entity a notification refers to.
type EntityType string

const (
	EntityProduct EntityType = "product"
	EntityProject EntityType = "project"
	EntityItem    EntityType = "item"
)

// Notification is an in-app notice created locally from a push event.
// Notifications are never fetched from the server; the log is owned by
// the client and capped at the most recent entries.
type Notification struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Severity  Severity  `json:"severity" db:"severity"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Read      bool      `json:"read" db:"read"`

	// EntityType and EntityID optionally reference the entity that
	// triggered the notification.
	EntityType EntityType `json:"entityType,omitempty" db:"entity_type"`
	EntityID   string     `json:"entityId,omitempty" db:"entity_id"`
}
