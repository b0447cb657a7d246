// Package session holds the authenticated user's identity for the
// lifetime of the process. It is an explicit object handed to the
// components that need it, never ambient state: the API client and the
// push channel read the token through it, views read the user's role
// for permission checks.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/astrafab/prodtrack/internal/credential"
	"github.com/astrafab/prodtrack/internal/model"
)

// Credentials is the credential-store surface the session needs. The
// production implementation is the system keyring.
type Credentials interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Keyring adapts the credential package to the Credentials interface.
type Keyring struct{}

func (Keyring) Get(key string) (string, error) { return credential.Get(key) }
func (Keyring) Set(key, value string) error    { return credential.Set(key, value) }
func (Keyring) Delete(key string) error        { return credential.Delete(key) }

// ProfileStore is the slice of the state store holding the cached user
// profile.
type ProfileStore interface {
	SaveProfile(ctx context.Context, user model.User) error
	LoadProfile(ctx context.Context) (*model.User, error)
	ClearProfile(ctx context.Context) error
}

// Session is the process-wide authentication state.
type Session struct {
	mu       sync.Mutex
	token    string
	user     *model.User
	creds    Credentials
	profiles ProfileStore
}

// Restore builds a session from whatever token and profile survive from
// the previous run. A missing token simply yields an unauthenticated
// session.
func Restore(ctx context.Context, creds Credentials, profiles ProfileStore) (*Session, error) {
	s := &Session{creds: creds, profiles: profiles}

	token, err := creds.Get(credential.TokenKey)
	if err != nil {
		// No stored token: start unauthenticated.
		return s, nil
	}
	s.token = token

	user, err := profiles.LoadProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading cached profile: %w", err)
	}
	s.user = user
	return s, nil
}

// Token returns the current bearer token, empty when unauthenticated.
// Session satisfies the TokenSource interfaces of the API client and
// the push channel.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the authenticated user, or nil.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Role returns the authenticated user's role, or the empty role when
// unauthenticated, which holds no permissions.
func (s *Session) Role() model.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// Authenticated reports whether a token and profile are present.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

// Establish records a successful login: the token goes to the keyring,
// the profile to the state store.
func (s *Session) Establish(ctx context.Context, token string, user model.User) error {
	if err := s.creds.Set(credential.TokenKey, token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	if err := s.profiles.SaveProfile(ctx, user); err != nil {
		return fmt.Errorf("caching profile: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Clear drops all stored credentials. Used on logout and on an
// authentication failure that invalidates the token.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	// Best effort on the keyring: the entry may already be gone.
	_ = s.creds.Delete(credential.TokenKey)

	if err := s.profiles.ClearProfile(ctx); err != nil {
		return fmt.Errorf("clearing cached profile: %w", err)
	}
	return nil
}
