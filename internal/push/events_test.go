package push

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrafab/prodtrack/internal/model"
)

func TestTransformTableCoversEveryEvent(t *testing.T) {
	for _, name := range EventNames {
		_, ok := transforms[name]
		assert.Truef(t, ok, "event %s has no transform", name)
	}
	assert.Len(t, transforms, len(EventNames))
}

func TestTranslateNotificationEvent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want model.Notification
	}{
		{
			name: "full payload",
			data: `{"title":"Deadline moved","message":"Project deadline shifted","type":"warning","entityType":"project","entityId":"proj-1"}`,
			want: model.Notification{
				Title:      "Deadline moved",
				Message:    "Project deadline shifted",
				Severity:   model.SeverityWarning,
				EntityType: model.EntityProject,
				EntityID:   "proj-1",
			},
		},
		{
			name: "empty payload falls back to defaults",
			data: `{}`,
			want: model.Notification{
				Title:    "New Update",
				Message:  "Something has been updated",
				Severity: model.SeverityInfo,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, known, err := Translate(Envelope{Event: EventNotification, Data: json.RawMessage(tt.data)})
			require.NoError(t, err)
			require.True(t, known)

			assert.NotEmpty(t, n.ID)
			assert.False(t, n.Timestamp.IsZero())
			assert.False(t, n.Read)

			n.ID = ""
			n.Timestamp = tt.want.Timestamp
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestTranslateItemStatusChanged(t *testing.T) {
	data := json.RawMessage(`{"id":"item-7","serialNumber":"SN-1138","status":"in_progress"}`)
	n, known, err := Translate(Envelope{Event: EventItemStatusChanged, Data: data})
	require.NoError(t, err)
	require.True(t, known)

	assert.Equal(t, "Item Status Updated", n.Title)
	assert.Equal(t, "Item SN-1138 status changed to in progress", n.Message)
	assert.Equal(t, model.SeverityInfo, n.Severity)
	assert.Equal(t, model.EntityItem, n.EntityType)
	assert.Equal(t, "item-7", n.EntityID)
}

func TestTranslateProjectAndProductUpdated(t *testing.T) {
	n, known, err := Translate(Envelope{
		Event: EventProjectUpdated,
		Data:  json.RawMessage(`{"id":"proj-2","name":"Avionics"}`),
	})
	require.NoError(t, err)
	require.True(t, known)
	assert.Equal(t, "Project Updated", n.Title)
	assert.Equal(t, `Project "Avionics" has been updated`, n.Message)
	assert.Equal(t, model.EntityProject, n.EntityType)

	n, known, err = Translate(Envelope{
		Event: EventProductUpdated,
		Data:  json.RawMessage(`{"id":"prod-3","name":"Talon"}`),
	})
	require.NoError(t, err)
	require.True(t, known)
	assert.Equal(t, "Product Updated", n.Title)
	assert.Equal(t, `Product "Talon" has been updated`, n.Message)
	assert.Equal(t, model.EntityProduct, n.EntityType)
}

func TestTranslateUnrecognizedEvent(t *testing.T) {
	_, known, err := Translate(Envelope{Event: "item:deleted", Data: json.RawMessage(`{}`)})
	require.NoError(t, err)
	assert.False(t, known)
}

func TestTranslateMalformedPayload(t *testing.T) {
	_, known, err := Translate(Envelope{Event: EventItemStatusChanged, Data: json.RawMessage(`"nope"`)})
	assert.True(t, known)
	assert.Error(t, err)
}

func TestSocketURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:3001", "ws://localhost:3001"},
		{"https://track.example.com", "wss://track.example.com"},
		{"ws://already-socket", "ws://already-socket"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SocketURL(tt.in))
	}
}
