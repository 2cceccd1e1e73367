package delivery

import (
	"context"
	"time"

	"github.com/fekuna/stroymaterials/internal/delivery/dto"
	"github.com/fekuna/stroymaterials/internal/livequery"
	"github.com/fekuna/stroymaterials/internal/model"
)

type UseCase interface {
	CreateDelivery(ctx context.Context, input *dto.CreateDeliveryInput) (*model.Delivery, error)
	GetDelivery(ctx context.Context, id int64) (*model.Delivery, error)
	UpdateDelivery(ctx context.Context, input *dto.UpdateDeliveryInput) (*model.Delivery, error)
	UpdateStatus(ctx context.Context, id int64, status model.DeliveryStatus) error
	DeleteDelivery(ctx context.Context, id int64) error

	WatchAll() livequery.Query[[]model.Delivery]
	WatchSearch(term string) livequery.Query[[]model.Delivery]
	WatchByStatus(status model.DeliveryStatus) livequery.Query[[]model.Delivery]
	WatchPending() livequery.Query[[]model.Delivery]
	WatchDelivered() livequery.Query[[]model.Delivery]
	WatchByMaterial(materialID int64) livequery.Query[[]model.Delivery]
	WatchBySupplier(supplierID int64) livequery.Query[[]model.Delivery]
	WatchByDateRange(from, to time.Time) livequery.Query[[]model.Delivery]
	WatchStatistics() livequery.Query[*dto.DeliveryStatistics]

	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status model.DeliveryStatus) (int, error)
	CostForPeriod(ctx context.Context, from, to time.Time) (float64, error)
	CostThisMonth(ctx context.Context) (float64, error)
	Statistics(ctx context.Context) (*dto.DeliveryStatistics, error)
}
