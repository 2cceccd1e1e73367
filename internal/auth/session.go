package auth

import (
	"context"
	"sync"

	"github.com/fekuna/stroymaterials/internal/model"
)

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}

// Session holds the current user between commands.
type Session struct {
	auth Authenticator

	mu      sync.RWMutex
	current *model.User
}

func NewSession(a Authenticator) *Session {
	return &Session{auth: a}
}

// Login replaces the current user on success. Bad credentials return
// false with a nil error and leave the session unchanged.
func (s *Session) Login(ctx context.Context, username, password string) (bool, error) {
	u, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, nil
	}

	s.mu.Lock()
	s.current = u
	s.mu.Unlock()
	return true, nil
}

func (s *Session) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *Session) Current() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Session) IsAdmin() bool { return s.Current().IsAdmin() }
func (s *Session) IsGuest() bool { return s.Current().IsGuest() }

// Context attaches the current user to ctx.
func (s *Session) Context(ctx context.Context) context.Context {
	return WithUser(ctx, s.Current())
}
