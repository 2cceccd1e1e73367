package material

import (
	"context"

	"github.com/fekuna/stroymaterials/internal/livequery"
	"github.com/fekuna/stroymaterials/internal/material/dto"
	"github.com/fekuna/stroymaterials/internal/model"
)

type UseCase interface {
	CreateMaterial(ctx context.Context, input *dto.CreateMaterialInput) (*model.Material, error)
	GetMaterial(ctx context.Context, id int64) (*model.Material, error)
	UpdateMaterial(ctx context.Context, input *dto.UpdateMaterialInput) (*model.Material, error)
	DeleteMaterial(ctx context.Context, id int64) error
	AdjustQuantity(ctx context.Context, id int64, amount float64) error

	// Live queries
	WatchAll() livequery.Query[[]model.Material]
	WatchSearch(term string) livequery.Query[[]model.Material]
	WatchLowStock() livequery.Query[[]model.Material]
	WatchByType(materialType string) livequery.Query[[]model.Material]
	WatchActive() livequery.Query[[]model.Material]
	WatchTypes() livequery.Query[[]string]

	// Aggregates
	Count(ctx context.Context) (int, error)
	TotalInventoryValue(ctx context.Context) (float64, error)
	Statistics(ctx context.Context) (*dto.MaterialStatistics, error)
}
