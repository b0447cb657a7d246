package push

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/astrafab/prodtrack/internal/model"
)

// Event names pushed by the server.
const (
	EventNotification      = "notification"
	EventItemStatusChanged = "item:status_changed"
	EventProjectUpdated    = "project:updated"
	EventProductUpdated    = "product:updated"
)

// EventNames lists every recognized push event, for exhaustiveness checks.
var EventNames = []string{
	EventNotification,
	EventItemStatusChanged,
	EventProjectUpdated,
	EventProductUpdated,
}

// Envelope is the wire frame of a push event.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// transform builds a notification from an event's payload. One transform
// per event name; the table is the single place the mapping lives.
type transform func(data json.RawMessage) (model.Notification, error)

// transforms is the dispatch table from event name to notification
// construction. Events missing from the table are dropped.
var transforms = map[string]transform{
	EventNotification:      translateNotification,
	EventItemStatusChanged: translateItemStatusChanged,
	EventProjectUpdated:    translateProjectUpdated,
	EventProductUpdated:    translateProductUpdated,
}

// Translate converts a push envelope into a notification-log entry.
// The second return value is false for unrecognized event names.
func Translate(env Envelope) (model.Notification, bool, error) {
	fn, ok := transforms[env.Event]
	if !ok {
		return model.Notification{}, false, nil
	}

	n, err := fn(env.Data)
	if err != nil {
		return model.Notification{}, true, fmt.Errorf("translating %s event: %w", env.Event, err)
	}

	n.ID = uuid.NewString()
	n.Timestamp = time.Now()
	n.Read = false
	return n, true, nil
}

func translateNotification(data json.RawMessage) (model.Notification, error) {
	var payload struct {
		Title      string           `json:"title"`
		Message    string           `json:"message"`
		Type       model.Severity   `json:"type"`
		EntityType model.EntityType `json:"entityType"`
		EntityID   string           `json:"entityId"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return model.Notification{}, err
	}

	if payload.Title == "" {
		payload.Title = "New Update"
	}
	if payload.Message == "" {
		payload.Message = "Something has been updated"
	}
	if payload.Type == "" {
		payload.Type = model.SeverityInfo
	}

	return model.Notification{
		Title:      payload.Title,
		Message:    payload.Message,
		Severity:   payload.Type,
		EntityType: payload.EntityType,
		EntityID:   payload.EntityID,
	}, nil
}

func translateItemStatusChanged(data json.RawMessage) (model.Notification, error) {
	var payload struct {
		ID           string       `json:"id"`
		SerialNumber string       `json:"serialNumber"`
		Status       model.Status `json:"status"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return model.Notification{}, err
	}

	return model.Notification{
		Title:      "Item Status Updated",
		Message:    fmt.Sprintf("Item %s status changed to %s", payload.SerialNumber, payload.Status.Label()),
		Severity:   model.SeverityInfo,
		EntityType: model.EntityItem,
		EntityID:   payload.ID,
	}, nil
}

func translateProjectUpdated(data json.RawMessage) (model.Notification, error) {
	var payload struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return model.Notification{}, err
	}

	return model.Notification{
		Title:      "Project Updated",
		Message:    fmt.Sprintf("Project %q has been updated", payload.Name),
		Severity:   model.SeverityInfo,
		EntityType: model.EntityProject,
		EntityID:   payload.ID,
	}, nil
}

func translateProductUpdated(data json.RawMessage) (model.Notification, error) {
	var payload struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return model.Notification{}, err
	}

	return model.Notification{
		Title:      "Product Updated",
		Message:    fmt.Sprintf("Product %q has been updated", payload.Name),
		Severity:   model.SeverityInfo,
		EntityType: model.EntityProduct,
		EntityID:   payload.ID,
	}, nil
}
