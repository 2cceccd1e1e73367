package delivery

import (
	"context"
	"time"

	"github.com/fekuna/stroymaterials/internal/delivery/dto"
	"github.com/fekuna/stroymaterials/internal/model"
)

type Repository interface {
	Create(ctx context.Context, delivery *model.Delivery) (int64, error)
	FindByID(ctx context.Context, id int64) (*model.Delivery, error)
	FindAll(ctx context.Context, filters *dto.DeliveryFilters) ([]model.Delivery, error)
	Update(ctx context.Context, delivery *model.Delivery) error
	UpdateStatus(ctx context.Context, id int64, status model.DeliveryStatus) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error

	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status model.DeliveryStatus) (int, error)
	// DeliveredCost sums total_cost of delivered rows with delivery_date in [from, to].
	DeliveredCost(ctx context.Context, from, to time.Time) (float64, error)
}
