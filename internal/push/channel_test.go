package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrafab/prodtrack/internal/model"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

// pushServer is a minimal stand-in for the service's WebSocket broker.
// It records the join envelope and then pushes the configured frames.
func pushServer(t *testing.T, frames []string, joined chan<- Envelope, tokens chan<- string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens <- r.URL.Query().Get("token")

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("websocket accept: %v", err)
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "done")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Errorf("reading join: %v", err)
			return
		}
		var join Envelope
		if err := json.Unmarshal(data, &join); err != nil {
			t.Errorf("decoding join: %v", err)
			return
		}
		joined <- join

		for _, frame := range frames {
			if err := conn.Write(ctx, websocket.MessageText, []byte(frame)); err != nil {
				return
			}
		}

		// Hold the connection open until the client goes away.
		conn.Read(ctx)
	}))
}

func TestChannelJoinsAndDeliversNotifications(t *testing.T) {
	frames := []string{
		`{"event":"item:status_changed","data":{"id":"item-1","serialNumber":"SN-9","status":"completed"}}`,
		`{"event":"unknown:event","data":{}}`,
		`{"event":"product:updated","data":{"id":"prod-1","name":"Talon"}}`,
		`not json`,
	}

	joined := make(chan Envelope, 1)
	tokens := make(chan string, 1)
	srv := pushServer(t, frames, joined, tokens)
	defer srv.Close()

	user := model.User{ID: "user-1", Role: model.RoleEngineer}
	ch := NewChannel(SocketURL(srv.URL), staticToken("tok-123"), user, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)
	defer ch.Close()

	// The bearer token travels in the query string.
	select {
	case token := <-tokens:
		assert.Equal(t, "tok-123", token)
	case <-time.After(5 * time.Second):
		t.Fatal("server never saw the dial")
	}

	// The join envelope carries user id and role.
	select {
	case join := <-joined:
		assert.Equal(t, "join", join.Event)
		var data map[string]string
		require.NoError(t, json.Unmarshal(join.Data, &data))
		assert.Equal(t, "user-1", data["userId"])
		assert.Equal(t, "ENGINEER", data["role"])
	case <-time.After(5 * time.Second):
		t.Fatal("server never received join")
	}

	// Only the two recognized, well-formed frames become notifications.
	var got []model.Notification
	timeout := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case n := <-ch.Notifications():
			got = append(got, n)
		case <-timeout:
			t.Fatalf("timed out with %d notifications", len(got))
		}
	}

	assert.Equal(t, "Item Status Updated", got[0].Title)
	assert.True(t, strings.Contains(got[0].Message, "SN-9"))
	assert.Equal(t, "Product Updated", got[1].Title)

	select {
	case n := <-ch.Notifications():
		t.Fatalf("unexpected extra notification: %+v", n)
	case <-time.After(100 * time.Millisecond):
	}
}
