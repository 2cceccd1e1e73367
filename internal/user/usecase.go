package user

import (
	"context"

	"github.com/fekuna/stroymaterials/internal/livequery"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/user/dto"
)

type UseCase interface {
	CreateUser(ctx context.Context, input *dto.CreateUserInput) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	// GetByUsername also returns disabled accounts.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// Authenticate returns nil, nil on bad credentials.
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	ResetPassword(ctx context.Context, username, password string) error
	SetActive(ctx context.Context, id int64, active bool) error
	DeleteUser(ctx context.Context, id int64) error

	WatchAll() livequery.Query[[]model.User]
	Count(ctx context.Context) (int, error)
}
