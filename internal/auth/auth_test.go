package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	users map[string]string
	err   error
}

func (f fakeAuth) Authenticate(_ context.Context, username, password string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if pw, ok := f.users[username]; ok && pw == password {
		role := model.RoleGuest
		if username == "admin" {
			role = model.RoleAdmin
		}
		return &model.User{Username: username, Role: role, IsActive: true}, nil
	}
	return nil, nil
}

func TestSessionLoginLogout(t *testing.T) {
	s := NewSession(fakeAuth{users: map[string]string{"admin": "1234", "guest": "guest123"}})
	ctx := context.Background()

	ok, err := s.Login(ctx, "admin", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, s.Current())

	ok, err = s.Login(ctx, "admin", "1234")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, s.IsAdmin())
	assert.False(t, s.IsGuest())

	ok, err = s.Login(ctx, "guest", "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "admin", s.Current().Username)

	s.Logout()
	assert.Nil(t, s.Current())
	assert.False(t, s.IsAdmin())
}

func TestSessionLoginError(t *testing.T) {
	boom := errors.New("database is locked")
	s := NewSession(fakeAuth{err: boom})
	_, err := s.Login(context.Background(), "admin", "1234")
	assert.ErrorIs(t, err, boom)
}

func TestRequireAdmin(t *testing.T) {
	ctx := context.Background()
	assert.ErrorIs(t, RequireAdmin(ctx), apperr.ErrUnauthenticated)

	guest := WithUser(ctx, &model.User{Username: "guest", Role: model.RoleGuest})
	assert.ErrorIs(t, RequireAdmin(guest), apperr.ErrForbidden)

	admin := WithUser(ctx, &model.User{Username: "admin", Role: model.RoleAdmin})
	assert.NoError(t, RequireAdmin(admin))
	assert.Equal(t, "admin", UserFrom(admin).Username)
}

func TestSessionContext(t *testing.T) {
	s := NewSession(fakeAuth{users: map[string]string{"guest": "guest123"}})
	_, err := s.Login(context.Background(), "guest", "guest123")
	require.NoError(t, err)

	u, err := RequireUser(s.Context(context.Background()))
	require.NoError(t, err)
	assert.True(t, u.IsGuest())
}
