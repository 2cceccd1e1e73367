package supplier

import (
	"context"

	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/supplier/dto"
)

type Repository interface {
	Create(ctx context.Context, supplier *model.Supplier) (int64, error)
	FindByID(ctx context.Context, id int64) (*model.Supplier, error)
	FindAll(ctx context.Context, filters *dto.SupplierFilters) ([]model.Supplier, error)
	FindTop(ctx context.Context, limit int) ([]model.Supplier, error)
	Update(ctx context.Context, supplier *model.Supplier) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error

	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
}
