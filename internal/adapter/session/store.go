package session

import (
	"context"
	"fmt"
)

// Store is an opaque persistent key-value store.
type Store interface {
	// Get returns the value for key. The boolean is false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key without expiry.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Session is the explicit session context handed to protected components.
// It binds one session ID to one Store and uses exactly one key, the auth token.
type Session struct {
	id    string
	store Store
}

// New creates a session context for id backed by store.
func New(id string, store Store) *Session {
	return &Session{id: id, store: store}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// TokenKey returns the store key holding the token of session id.
func TokenKey(id string) string {
	return fmt.Sprintf("session:%s:token", id)
}

// Token returns the stored token, if any.
func (s *Session) Token(ctx context.Context) (string, bool, error) {
	token, ok, err := s.store.Get(ctx, TokenKey(s.id))
	if err != nil {
		return "", false, fmt.Errorf("failed to read session token: %w", err)
	}
	if !ok || token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// SetToken stores the token, marking the session authenticated.
func (s *Session) SetToken(ctx context.Context, token string) error {
	if err := s.store.Set(ctx, TokenKey(s.id), token); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	return nil
}

// Clear removes the token.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, TokenKey(s.id)); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}
