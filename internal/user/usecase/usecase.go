package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/database"
	"github.com/fekuna/stroymaterials/internal/livequery"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/user"
	"github.com/fekuna/stroymaterials/internal/user/dto"
	"github.com/fekuna/stroymaterials/internal/validate"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type userUseCase struct {
	repo   user.Repository
	hub    *livequery.Hub
	logger logger.ZapLogger
	cost   int
}

func NewUserUseCase(repo user.Repository, hub *livequery.Hub, log logger.ZapLogger) user.UseCase {
	return &userUseCase{
		repo:   repo,
		hub:    hub,
		logger: log,
		cost:   bcrypt.DefaultCost,
	}
}

func (uc *userUseCase) CreateUser(ctx context.Context, input *dto.CreateUserInput) (*model.User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	hash, err := uc.hash(input.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Username:  strings.TrimSpace(input.Username),
		Password:  hash,
		Role:      input.Role,
		CreatedAt: time.Now().UTC(),
		IsActive:  true,
	}

	id, err := uc.repo.Create(ctx, u)
	if err != nil {
		uc.logger.Error("failed to create user", zap.String("username", u.Username), zap.Error(err))
		return nil, err
	}
	u.ID = id
	return u, nil
}

func (uc *userUseCase) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *userUseCase) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return uc.repo.FindAnyByUsername(ctx, username)
}

func (uc *userUseCase) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := uc.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.logger.Warn("stored password is not a bcrypt hash", zap.String("username", username), zap.Error(err))
		}
		return nil, nil
	}
	return u, nil
}

func (uc *userUseCase) ResetPassword(ctx context.Context, username, password string) error {
	if strings.TrimSpace(password) == "" {
		return apperr.NewValidation(map[string]string{"Password": "required"})
	}
	hash, err := uc.hash(password)
	if err != nil {
		return err
	}
	if err := uc.repo.UpdatePassword(ctx, username, hash); err != nil {
		uc.logger.Error("failed to reset password", zap.String("username", username), zap.Error(err))
		return err
	}
	return nil
}

func (uc *userUseCase) SetActive(ctx context.Context, id int64, active bool) error {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.NotFound("user", id)
	}
	u.IsActive = active
	return uc.repo.Update(ctx, u)
}

func (uc *userUseCase) DeleteUser(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *userUseCase) WatchAll() livequery.Query[[]model.User] {
	return livequery.New(uc.hub, uc.repo.FindAll, database.TableUsers)
}

func (uc *userUseCase) Count(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx)
}

func (uc *userUseCase) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), uc.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
