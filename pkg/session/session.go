// Package session holds the client's authentication state.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"foundernet/pkg/users"
)

var ErrNotAuthenticated = errors.New("not authenticated")

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// State is a snapshot of the store. IsLoading is true until the first
// bootstrap, login or logout settles it.
type State struct {
	Status    bool
	User      *User
	IsLoading bool
}

// Fetcher resolves the current user. *client.Client satisfies it.
type Fetcher interface {
	Me(ctx context.Context) (users.User, bool, error)
}

type Store struct {
	mu       sync.RWMutex
	state    State
	identity IdentityStore
	logger   *slog.Logger
}

func NewStore(identity IdentityStore, logger *slog.Logger) *Store {
	return &Store{
		state:    State{IsLoading: true},
		identity: identity,
		logger:   logger,
	}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func fromUser(u users.User) User {
	return User{ID: u.UUID, Name: u.Name, Email: u.Email}
}

// LoggedIn marks the session authenticated without touching the identity file.
func (s *Store) LoggedIn(u User) {
	s.mu.Lock()
	s.state = State{Status: true, User: &u}
	s.mu.Unlock()
}

// Login records a successful sign-in and persists the identity.
func (s *Store) Login(res users.AuthResult) error {
	s.LoggedIn(fromUser(res.User))
	return s.identity.Save(Identity{UserID: res.User.UUID, Role: res.User.Role.Name})
}

// Logout clears the state and the identity file.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()
	return s.identity.Clear()
}

// Identity returns the persisted identity, zero when signed out.
func (s *Store) Identity() (Identity, error) {
	return s.identity.Load()
}

// Bootstrap asks the server who the caller is, exactly once. Any failure or an
// empty answer leaves the store signed out; the fetch error is returned.
func (s *Store) Bootstrap(ctx context.Context, f Fetcher) error {
	u, present, err := f.Me(ctx)
	if err == nil && present && u.UUID != "" {
		s.LoggedIn(fromUser(u))
		return nil
	}

	if clearErr := s.Logout(); clearErr != nil {
		s.logger.Warn("clear identity", "error", clearErr)
	}
	if err != nil {
		s.logger.Debug("session bootstrap failed", "error", err)
		return err
	}
	return ErrNotAuthenticated
}
