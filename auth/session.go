// Package auth holds the local user session.
// There are no credentials: logging in only identifies who is chatting.
package auth

import (
	"log/slog"
	"msn-reimagined/domain"
	"msn-reimagined/errors"
	"sync"
)

// Session is the authentication collaborator of the messenger.
// Teardown hooks run on Logout, in registration order.
type Session struct {
	mu       sync.RWMutex
	log      *slog.Logger
	user     *domain.LocalUser
	teardown []func()
}

func NewSession(log *slog.Logger) *Session {
	return &Session{log: log}
}

// OnLogout registers a hook run on every logout.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardown = append(s.teardown, fn)
}

func (s *Session) Login(req LoginRequest) (domain.LocalUser, error) {
	user, err := ValidateLogin(req)
	if err != nil {
		return domain.LocalUser{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		return domain.LocalUser{}, errors.ErrAlreadyLoggedIn
	}
	s.user = &user
	s.log.Info("User logged in", "name", user.Name, "presence", user.Presence)
	return user, nil
}

// Logout clears the user then runs the teardown hooks outside the lock.
func (s *Session) Logout() error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return errors.ErrNotAuthenticated
	}
	name := s.user.Name
	s.user = nil
	hooks := append([]func(){}, s.teardown...)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
	s.log.Info("User logged out", "name", name)
	return nil
}

func (s *Session) UpdateStatus(presence domain.Presence, statusMessage string) (domain.LocalUser, error) {
	if !presence.Valid() {
		_, err := domain.ParsePresence(presence.String())
		return domain.LocalUser{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domain.LocalUser{}, errors.ErrNotAuthenticated
	}
	s.user.Presence = presence
	s.user.StatusMessage = statusMessage
	return *s.user, nil
}

func (s *Session) User() (domain.LocalUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.LocalUser{}, false
	}
	return *s.user, true
}

func (s *Session) IsAuthenticated() bool {
	_, ok := s.User()
	return ok
}
