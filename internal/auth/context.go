package auth

import (
	"context"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/model"
)

type ctxKey struct{}

// WithUser returns a context carrying the signed in user.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the user stored by WithUser, or nil.
func UserFrom(ctx context.Context) *model.User {
	u, _ := ctx.Value(ctxKey{}).(*model.User)
	return u
}

// RequireUser fails with apperr.ErrUnauthenticated when nobody is signed in.
func RequireUser(ctx context.Context) (*model.User, error) {
	u := UserFrom(ctx)
	if u == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return u, nil
}

// RequireAdmin guards mutations; guests get read-only access.
func RequireAdmin(ctx context.Context) error {
	u, err := RequireUser(ctx)
	if err != nil {
		return err
	}
	if !u.IsAdmin() {
		return apperr.ErrForbidden
	}
	return nil
}
