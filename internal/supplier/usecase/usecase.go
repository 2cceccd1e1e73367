package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/database"
	"github.com/fekuna/stroymaterials/internal/livequery"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/supplier"
	"github.com/fekuna/stroymaterials/internal/supplier/dto"
	"github.com/fekuna/stroymaterials/internal/validate"
	"go.uber.org/zap"
)

type supplierUseCase struct {
	repo   supplier.Repository
	hub    *livequery.Hub
	logger logger.ZapLogger
}

func NewSupplierUseCase(repo supplier.Repository, hub *livequery.Hub, log logger.ZapLogger) supplier.UseCase {
	return &supplierUseCase{
		repo:   repo,
		hub:    hub,
		logger: log,
	}
}

func (uc *supplierUseCase) CreateSupplier(ctx context.Context, input *dto.CreateSupplierInput) (*model.Supplier, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s := &model.Supplier{
		Name:             strings.TrimSpace(input.Name),
		ContactPerson:    strings.TrimSpace(input.ContactPerson),
		Phone:            strings.TrimSpace(input.Phone),
		Email:            optional(input.Email),
		Address:          strings.TrimSpace(input.Address),
		City:             optional(input.City),
		Rating:           model.ClampRating(input.Rating),
		DeliveryTimeDays: input.DeliveryTimeDays,
		PaymentTerms:     optional(input.PaymentTerms),
		Notes:            optional(input.Notes),
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	id, err := uc.repo.Create(ctx, s)
	if err != nil {
		uc.logger.Error("failed to create supplier", zap.String("name", s.Name), zap.Error(err))
		return nil, err
	}
	s.ID = id
	return s, nil
}

func (uc *supplierUseCase) GetSupplier(ctx context.Context, id int64) (*model.Supplier, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *supplierUseCase) UpdateSupplier(ctx context.Context, input *dto.UpdateSupplierInput) (*model.Supplier, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	s, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperr.NotFound("supplier", input.ID)
	}

	s.Name = strings.TrimSpace(input.Name)
	s.ContactPerson = strings.TrimSpace(input.ContactPerson)
	s.Phone = strings.TrimSpace(input.Phone)
	s.Email = optional(input.Email)
	s.Address = strings.TrimSpace(input.Address)
	s.City = optional(input.City)
	s.Rating = model.ClampRating(input.Rating)
	s.DeliveryTimeDays = input.DeliveryTimeDays
	s.PaymentTerms = optional(input.PaymentTerms)
	s.Notes = optional(input.Notes)
	s.IsActive = input.IsActive
	s.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, s); err != nil {
		uc.logger.Error("failed to update supplier", zap.Int64("supplier_id", s.ID), zap.Error(err))
		return nil, err
	}
	return s, nil
}

// ToggleActive flips the active flag and returns the stored supplier.
func (uc *supplierUseCase) ToggleActive(ctx context.Context, id int64) (*model.Supplier, error) {
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperr.NotFound("supplier", id)
	}
	if err := uc.repo.SetActive(ctx, id, !s.IsActive); err != nil {
		uc.logger.Error("failed to toggle supplier", zap.Int64("supplier_id", id), zap.Error(err))
		return nil, err
	}
	return uc.repo.FindByID(ctx, id)
}

func (uc *supplierUseCase) DeleteSupplier(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("failed to delete supplier", zap.Int64("supplier_id", id), zap.Error(err))
		return err
	}
	uc.logger.Info("supplier deleted", zap.Int64("supplier_id", id))
	return nil
}

func (uc *supplierUseCase) WatchAll() livequery.Query[[]model.Supplier] {
	return uc.watch(&dto.SupplierFilters{})
}

func (uc *supplierUseCase) WatchSearch(term string) livequery.Query[[]model.Supplier] {
	if strings.TrimSpace(term) == "" {
		return uc.WatchAll()
	}
	return uc.watch(&dto.SupplierFilters{Search: term})
}

func (uc *supplierUseCase) WatchActive() livequery.Query[[]model.Supplier] {
	active := true
	return uc.watch(&dto.SupplierFilters{IsActive: &active})
}

func (uc *supplierUseCase) WatchTop(limit int) livequery.Query[[]model.Supplier] {
	return livequery.New(uc.hub, func(ctx context.Context) ([]model.Supplier, error) {
		return uc.repo.FindTop(ctx, limit)
	}, database.TableSuppliers)
}

func (uc *supplierUseCase) watch(f *dto.SupplierFilters) livequery.Query[[]model.Supplier] {
	return livequery.New(uc.hub, func(ctx context.Context) ([]model.Supplier, error) {
		return uc.repo.FindAll(ctx, f)
	}, database.TableSuppliers)
}

func (uc *supplierUseCase) Count(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx)
}

func (uc *supplierUseCase) CountActive(ctx context.Context) (int, error) {
	return uc.repo.CountActive(ctx)
}

func (uc *supplierUseCase) Statistics(ctx context.Context) (*dto.SupplierStatistics, error) {
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := uc.repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SupplierStatistics{Total: total, Active: active, Inactive: total - active}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
