package supplier

import (
	"context"

	"github.com/fekuna/stroymaterials/internal/livequery"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/supplier/dto"
)

type UseCase interface {
	CreateSupplier(ctx context.Context, input *dto.CreateSupplierInput) (*model.Supplier, error)
	GetSupplier(ctx context.Context, id int64) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, input *dto.UpdateSupplierInput) (*model.Supplier, error)
	ToggleActive(ctx context.Context, id int64) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error

	WatchAll() livequery.Query[[]model.Supplier]
	WatchSearch(term string) livequery.Query[[]model.Supplier]
	WatchActive() livequery.Query[[]model.Supplier]
	WatchTop(limit int) livequery.Query[[]model.Supplier]

	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
	Statistics(ctx context.Context) (*dto.SupplierStatistics, error)
}
