// Package session holds the client-side login cache that gates saving and
// survives restarts. Only identity and display fields are kept; credentials
// are never persisted.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotFound is returned by a Store that has never been written
	ErrNotFound = errors.New("session not found")
	// ErrMissingUsername is returned when signing in without an identity
	ErrMissingUsername = errors.New("username is required to sign in")
)

// State is the persisted session record
type State struct {
	LoggedIn  bool   `yaml:"logged_in" json:"logged_in"`
	Username  string `yaml:"username,omitempty" json:"username,omitempty"`
	FirstName string `yaml:"first_name,omitempty" json:"first_name,omitempty"`
}

// normalize enforces that identity fields exist iff the state is logged in
func (s State) normalize() State {
	if !s.LoggedIn || s.Username == "" {
		return State{}
	}
	return s
}

// Store persists a State between runs
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

// Reader is the read-only view handed to components that must not mutate the session
type Reader interface {
	LoggedIn() bool
	Username() string
	FirstName() string
	Snapshot() State
}

// Session is the in-memory cache backed by a Store
type Session struct {
	mu    sync.RWMutex
	state State
	store Store
}

// Open loads the persisted state, writing a logged-out record when none exists yet
func Open(ctx context.Context, store Store) (*Session, error) {
	state, err := store.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		state = State{}
		if err := store.Save(ctx, state); err != nil {
			return nil, fmt.Errorf("failed to initialise session: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return &Session{state: state.normalize(), store: store}, nil
}

// LoggedIn reports whether a user is signed in
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.LoggedIn
}

// Username returns the signed-in username or ""
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Username
}

// FirstName returns the signed-in display name or ""
func (s *Session) FirstName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.FirstName
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SignIn records a successful login or signup and persists it
func (s *Session) SignIn(ctx context.Context, username, firstName string) error {
	if username == "" {
		return ErrMissingUsername
	}
	return s.set(ctx, State{LoggedIn: true, Username: username, FirstName: firstName})
}

// SignOut clears the identity and persists the logged-out state
func (s *Session) SignOut(ctx context.Context) error {
	return s.set(ctx, State{})
}

// set persists first so memory never runs ahead of the store
func (s *Session) set(ctx context.Context, next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.state = next
	return nil
}
