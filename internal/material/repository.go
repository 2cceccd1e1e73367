package material

import (
	"context"

	"github.com/fekuna/stroymaterials/internal/material/dto"
	"github.com/fekuna/stroymaterials/internal/model"
)

type Repository interface {
	Create(ctx context.Context, material *model.Material) (int64, error)
	FindByID(ctx context.Context, id int64) (*model.Material, error)
	FindAll(ctx context.Context, filters *dto.MaterialFilters) ([]model.Material, error)
	Update(ctx context.Context, material *model.Material) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error

	// Stock
	AdjustQuantity(ctx context.Context, id int64, amount float64) error

	// Aggregates
	Types(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	CountLowStock(ctx context.Context) (int, error)
	TotalInventoryValue(ctx context.Context) (float64, error)
}
