package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the production state of an item. The constants are wire
// values and must round-trip exactly.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
)

// Statuses lists all item statuses in workflow order.
var Statuses = []Status{
	StatusPending,
	StatusInProgress,
	StatusCompleted,
	StatusBlocked,
}

// ParseStatus converts a wire value into a Status, rejecting anything
// outside the enumeration.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusInProgress, StatusCompleted, StatusBlocked:
		return st, nil
	}
	return "", fmt.Errorf("unknown item status %q", s)
}

// Label returns the human-readable form of the status
// ("in_progress" -> "in progress").
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Item is a single tracked unit of production within a project.
type Item struct {
	ID           string     `json:"id"`
	SerialNumber string     `json:"serialNumber"`
	Status       Status     `json:"status"`
	ProjectID    string     `json:"projectId,omitempty"`
	ProjectName  string     `json:"projectName,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	CreatedBy    UserRef    `json:"createdBy"`
	Project      ProjectRef `json:"project"`
}

// ItemDetail is the expanded item returned by the single-item endpoint,
// carrying the owning project and its product.
type ItemDetail struct {
	ID           string    `json:"id"`
	SerialNumber string    `json:"serialNumber"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	CreatedBy    UserRef   `json:"createdBy"`
	Project      struct {
		ID          string     `json:"id"`
		Name        string     `json:"name"`
		Description string     `json:"description"`
		Product     ProductRef `json:"product"`
	} `json:"project"`
}
