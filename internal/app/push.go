package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/astrafab/prodtrack/internal/cache"
	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/push"
)

// sessionStartedMsg is sent once the notification log is loaded and the
// push channel is connecting.
type sessionStartedMsg struct{}

// notificationMsg carries one translated push event into the UI loop.
type notificationMsg struct {
	n model.Notification
}

// newChannel builds a push channel for the authenticated user.
func (m Model) newChannel() *push.Channel {
	user := m.session.User()
	if user == nil {
		return nil
	}

	socketURL := m.cfg.Server.SocketURL
	if socketURL == "" {
		socketURL = push.SocketURL(m.cfg.Server.BaseURL)
	}
	return push.NewChannel(socketURL, m.session, *user, m.log)
}

// startSession brings up the authenticated parts of the app: the
// persisted notification log and the push channel. The channel itself
// is created in New or on login, where the model mutation sticks.
func (m Model) startSession() tea.Cmd {
	ch := m.channel
	log := m.notifLog
	logger := m.log
	return func() tea.Msg {
		if ch != nil {
			go ch.Run(context.Background())
		}
		if err := log.Load(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("could not load notification log")
		}
		return sessionStartedMsg{}
	}
}

// waitForNotification blocks on the push channel and resolves with the
// next event. The handler re-issues it, keeping exactly one reader on
// the channel.
func (m Model) waitForNotification() tea.Cmd {
	ch := m.channel
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch.Notifications()
		if !ok {
			return nil
		}
		return notificationMsg{n: n}
	}
}

// handleNotification records a pushed event and stales the queries its
// entity touches, so the next view render refetches.
func (m Model) handleNotification(msg notificationMsg) (tea.Model, tea.Cmd) {
	m.notifLog.Add(context.Background(), msg.n)

	switch msg.n.EntityType {
	case model.EntityItem:
		m.cache.ApplyMutation(cache.MutationItemStatusChange, cache.Target{ItemID: msg.n.EntityID})
	case model.EntityProject:
		m.cache.ApplyMutation(cache.MutationProjectUpdate, cache.Target{ProjectID: msg.n.EntityID})
	case model.EntityProduct:
		m.cache.ApplyMutation(cache.MutationProductUpdate, cache.Target{ProductID: msg.n.EntityID})
	}

	return m, tea.Batch(m.reloadListViews(), m.waitForNotification())
}
