package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/database"
	"github.com/fekuna/stroymaterials/internal/livequery"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/material"
	"github.com/fekuna/stroymaterials/internal/material/dto"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/validate"
	"go.uber.org/zap"
)

type materialUseCase struct {
	repo   material.Repository
	hub    *livequery.Hub
	logger logger.ZapLogger
}

func NewMaterialUseCase(repo material.Repository, hub *livequery.Hub, log logger.ZapLogger) material.UseCase {
	return &materialUseCase{
		repo:   repo,
		hub:    hub,
		logger: log,
	}
}

func (uc *materialUseCase) CreateMaterial(ctx context.Context, input *dto.CreateMaterialInput) (*model.Material, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if err := checkStockLevels(input.MinStockLevel, input.MaxStockLevel); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &model.Material{
		Name:              strings.TrimSpace(input.Name),
		Type:              strings.TrimSpace(input.Type),
		Unit:              strings.TrimSpace(input.Unit),
		Quantity:          input.Quantity,
		Price:             input.Price,
		SupplierID:        input.SupplierID,
		LastDeliveryDate:  input.LastDeliveryDate,
		MinStockLevel:     input.MinStockLevel,
		MaxStockLevel:     input.MaxStockLevel,
		WarehouseLocation: optional(input.WarehouseLocation),
		ImageURI:          optional(input.ImageURI),
		Description:       optional(input.Description),
		CreatedAt:         now,
		UpdatedAt:         now,
		IsActive:          true,
	}

	id, err := uc.repo.Create(ctx, m)
	if err != nil {
		uc.logger.Error("failed to create material", zap.String("name", m.Name), zap.Error(err))
		return nil, err
	}
	m.ID = id
	return m, nil
}

func (uc *materialUseCase) GetMaterial(ctx context.Context, id int64) (*model.Material, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *materialUseCase) UpdateMaterial(ctx context.Context, input *dto.UpdateMaterialInput) (*model.Material, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if err := checkStockLevels(input.MinStockLevel, input.MaxStockLevel); err != nil {
		return nil, err
	}

	m, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound("material", input.ID)
	}

	m.Name = strings.TrimSpace(input.Name)
	m.Type = strings.TrimSpace(input.Type)
	m.Unit = strings.TrimSpace(input.Unit)
	m.Quantity = input.Quantity
	m.Price = input.Price
	m.SupplierID = input.SupplierID
	m.LastDeliveryDate = input.LastDeliveryDate
	m.MinStockLevel = input.MinStockLevel
	m.MaxStockLevel = input.MaxStockLevel
	m.WarehouseLocation = optional(input.WarehouseLocation)
	m.ImageURI = optional(input.ImageURI)
	m.Description = optional(input.Description)
	m.IsActive = input.IsActive
	m.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, m); err != nil {
		uc.logger.Error("failed to update material", zap.Int64("material_id", m.ID), zap.Error(err))
		return nil, err
	}
	return m, nil
}

func (uc *materialUseCase) DeleteMaterial(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("failed to delete material", zap.Int64("material_id", id), zap.Error(err))
		return err
	}
	uc.logger.Info("material deleted", zap.Int64("material_id", id))
	return nil
}

func (uc *materialUseCase) AdjustQuantity(ctx context.Context, id int64, amount float64) error {
	if err := uc.repo.AdjustQuantity(ctx, id, amount); err != nil {
		uc.logger.Error("failed to adjust quantity",
			zap.Int64("material_id", id), zap.Float64("amount", amount), zap.Error(err))
		return err
	}
	return nil
}

func (uc *materialUseCase) WatchAll() livequery.Query[[]model.Material] {
	return uc.watch(&dto.MaterialFilters{})
}

// WatchSearch routes a blank term to WatchAll.
func (uc *materialUseCase) WatchSearch(term string) livequery.Query[[]model.Material] {
	if strings.TrimSpace(term) == "" {
		return uc.WatchAll()
	}
	return uc.watch(&dto.MaterialFilters{Search: term})
}

func (uc *materialUseCase) WatchLowStock() livequery.Query[[]model.Material] {
	return uc.watch(&dto.MaterialFilters{LowStock: true})
}

func (uc *materialUseCase) WatchByType(materialType string) livequery.Query[[]model.Material] {
	return uc.watch(&dto.MaterialFilters{Type: materialType})
}

func (uc *materialUseCase) WatchActive() livequery.Query[[]model.Material] {
	active := true
	return uc.watch(&dto.MaterialFilters{IsActive: &active})
}

func (uc *materialUseCase) WatchTypes() livequery.Query[[]string] {
	return livequery.New(uc.hub, uc.repo.Types, database.TableMaterials)
}

func (uc *materialUseCase) watch(f *dto.MaterialFilters) livequery.Query[[]model.Material] {
	return livequery.New(uc.hub, func(ctx context.Context) ([]model.Material, error) {
		return uc.repo.FindAll(ctx, f)
	}, database.TableMaterials)
}

func (uc *materialUseCase) Count(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx)
}

func (uc *materialUseCase) TotalInventoryValue(ctx context.Context) (float64, error) {
	return uc.repo.TotalInventoryValue(ctx)
}

func (uc *materialUseCase) Statistics(ctx context.Context) (*dto.MaterialStatistics, error) {
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	value, err := uc.repo.TotalInventoryValue(ctx)
	if err != nil {
		return nil, err
	}
	low, err := uc.repo.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.MaterialStatistics{
		TotalMaterials:      total,
		TotalInventoryValue: value,
		LowStockCount:       low,
	}, nil
}

func checkStockLevels(lo float64, hi *float64) error {
	if hi != nil && *hi < lo {
		return apperr.NewValidation(map[string]string{"MaxStockLevel": "must be gte MinStockLevel"})
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
