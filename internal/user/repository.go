package user

import (
	"context"

	"github.com/fekuna/stroymaterials/internal/model"
)

type Repository interface {
	Create(ctx context.Context, user *model.User) (int64, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// FindByUsername only returns active users.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindAnyByUsername(ctx context.Context, username string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, username, hash string) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}
