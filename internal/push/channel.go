// Package push maintains the persistent WebSocket connection to the
// tracking service and turns server-pushed events into notification-log
// entries. It runs independently of the request/response cycle: a slow
// or failed API call never blocks event delivery, and vice versa.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/astrafab/prodtrack/internal/model"
)

// TokenSource supplies the bearer token used to authenticate the
// connection.
type TokenSource interface {
	Token() string
}

// maxBackoff caps the reconnect delay.
const maxBackoff = 30 * time.Second

// SocketURL derives the push-channel URL from an HTTP base URL when no
// explicit socket URL is configured.
func SocketURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	}
	return baseURL
}

// Channel is the client side of the push connection. Received events
// are translated and delivered on Notifications; delivery never blocks
// the read loop (events are dropped if the consumer falls behind).
type Channel struct {
	socketURL string
	tokens    TokenSource
	user      model.User
	log       zerolog.Logger

	notifications chan model.Notification

	mu        sync.Mutex
	cancel    context.CancelFunc
	connected bool
}

// NewChannel creates a channel for the given user. Run must be called
// to connect.
func NewChannel(socketURL string, tokens TokenSource, user model.User, log zerolog.Logger) *Channel {
	return &Channel{
		socketURL:     strings.TrimRight(socketURL, "/"),
		tokens:        tokens,
		user:          user,
		log:           log,
		notifications: make(chan model.Notification, 64),
	}
}

// Notifications is the stream of translated push events.
func (c *Channel) Notifications() <-chan model.Notification {
	return c.notifications
}

// Connected reports whether the channel currently holds an open
// connection.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Run connects and keeps the connection alive until ctx is cancelled or
// Close is called, reconnecting with exponential backoff on failure.
// It blocks and is meant to run on its own goroutine.
func (c *Channel) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	backoff := time.Second
	for {
		err := c.connectAndRead(ctx)
		if ctx.Err() != nil {
			return
		}

		c.log.Warn().Err(err).Dur("backoff", backoff).Msg("push channel disconnected")
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff *= 2; backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// Close tears down the connection and stops the reconnect loop.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// connectAndRead dials, announces the user with a join event, and reads
// envelopes until the connection drops.
func (c *Channel) connectAndRead(ctx context.Context) error {
	// The token travels as a query parameter: the browser WebSocket
	// API cannot set custom headers, so the server reads it from the
	// URL for all clients alike.
	dialURL := fmt.Sprintf("%s/ws?token=%s", c.socketURL, url.QueryEscape(c.tokens.Token()))

	conn, _, err := websocket.Dial(ctx, dialURL, nil)
	if err != nil {
		return fmt.Errorf("dialing push channel: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "client shutdown")

	if err := c.join(ctx, conn); err != nil {
		return err
	}

	c.setConnected(true)
	defer c.setConnected(false)
	c.log.Info().Str("url", c.socketURL).Msg("push channel connected")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("reading push event: %w", err)
		}
		c.handleFrame(data)
	}
}

// join announces the user id and role so the server can target
// room-based delivery.
func (c *Channel) join(ctx context.Context, conn *websocket.Conn) error {
	payload, err := json.Marshal(map[string]any{
		"event": "join",
		"data": map[string]string{
			"userId": c.user.ID,
			"role":   string(c.user.Role),
		},
	})
	if err != nil {
		return fmt.Errorf("marshaling join event: %w", err)
	}

	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("sending join event: %w", err)
	}
	return nil
}

// handleFrame translates one wire frame and queues the resulting
// notification without blocking.
func (c *Channel) handleFrame(data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.log.Debug().Err(err).Msg("discarding malformed push frame")
		return
	}

	n, known, err := Translate(env)
	if err != nil {
		c.log.Debug().Err(err).Str("event", env.Event).Msg("discarding push event")
		return
	}
	if !known {
		c.log.Debug().Str("event", env.Event).Msg("ignoring unrecognized push event")
		return
	}

	select {
	case c.notifications <- n:
	default:
		// Consumer is not keeping up; drop rather than block the
		// read loop.
		c.log.Warn().Msg("notification buffer full, dropping event")
	}
}

func (c *Channel) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}
