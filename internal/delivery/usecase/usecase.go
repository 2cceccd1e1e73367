package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/database"
	"github.com/fekuna/stroymaterials/internal/delivery"
	"github.com/fekuna/stroymaterials/internal/delivery/dto"
	"github.com/fekuna/stroymaterials/internal/livequery"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/validate"
	"go.uber.org/zap"
)

type deliveryUseCase struct {
	repo   delivery.Repository
	hub    *livequery.Hub
	logger logger.ZapLogger
	now    func() time.Time
}

func NewDeliveryUseCase(repo delivery.Repository, hub *livequery.Hub, log logger.ZapLogger) delivery.UseCase {
	return &deliveryUseCase{
		repo:   repo,
		hub:    hub,
		logger: log,
		now:    time.Now,
	}
}

func (uc *deliveryUseCase) CreateDelivery(ctx context.Context, input *dto.CreateDeliveryInput) (*model.Delivery, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	status := model.DeliveryStatus(input.Status)
	if status == "" {
		status = model.StatusPending
	}

	now := uc.now().UTC()
	d := &model.Delivery{
		MaterialID:    input.MaterialID,
		SupplierID:    input.SupplierID,
		Quantity:      input.Quantity,
		DeliveryDate:  input.DeliveryDate,
		ExpectedDate:  input.ExpectedDate,
		Status:        status,
		InvoiceNumber: strings.TrimSpace(input.InvoiceNumber),
		TotalCost:     input.TotalCost,
		Notes:         optional(input.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	id, err := uc.repo.Create(ctx, d)
	if err != nil {
		uc.logger.Error("failed to create delivery", zap.String("invoice", d.InvoiceNumber), zap.Error(err))
		return nil, err
	}
	d.ID = id
	return d, nil
}

func (uc *deliveryUseCase) GetDelivery(ctx context.Context, id int64) (*model.Delivery, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *deliveryUseCase) UpdateDelivery(ctx context.Context, input *dto.UpdateDeliveryInput) (*model.Delivery, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	d, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("delivery", input.ID)
	}

	d.MaterialID = input.MaterialID
	d.SupplierID = input.SupplierID
	d.Quantity = input.Quantity
	d.DeliveryDate = input.DeliveryDate
	d.ExpectedDate = input.ExpectedDate
	d.Status = model.DeliveryStatus(input.Status)
	d.InvoiceNumber = strings.TrimSpace(input.InvoiceNumber)
	d.TotalCost = input.TotalCost
	d.Notes = optional(input.Notes)
	d.UpdatedAt = uc.now().UTC()

	if err := uc.repo.Update(ctx, d); err != nil {
		uc.logger.Error("failed to update delivery", zap.Int64("delivery_id", d.ID), zap.Error(err))
		return nil, err
	}
	return d, nil
}

// UpdateStatus only accepts the known statuses; rows already holding an
// unknown raw value keep it until overwritten here.
func (uc *deliveryUseCase) UpdateStatus(ctx context.Context, id int64, status model.DeliveryStatus) error {
	if !status.Known() {
		return apperr.NewValidation(map[string]string{"Status": "unknown status " + string(status)})
	}
	if err := uc.repo.UpdateStatus(ctx, id, status); err != nil {
		uc.logger.Error("failed to update delivery status",
			zap.Int64("delivery_id", id), zap.String("status", string(status)), zap.Error(err))
		return err
	}
	return nil
}

func (uc *deliveryUseCase) DeleteDelivery(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("failed to delete delivery", zap.Int64("delivery_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (uc *deliveryUseCase) WatchAll() livequery.Query[[]model.Delivery] {
	return uc.watch(&dto.DeliveryFilters{})
}

func (uc *deliveryUseCase) WatchSearch(term string) livequery.Query[[]model.Delivery] {
	if strings.TrimSpace(term) == "" {
		return uc.WatchAll()
	}
	return uc.watch(&dto.DeliveryFilters{Search: term})
}

func (uc *deliveryUseCase) WatchByStatus(status model.DeliveryStatus) livequery.Query[[]model.Delivery] {
	if status == "" {
		return uc.WatchAll()
	}
	return uc.watch(&dto.DeliveryFilters{Status: status, ByExpected: true})
}

func (uc *deliveryUseCase) WatchPending() livequery.Query[[]model.Delivery] {
	return uc.WatchByStatus(model.StatusPending)
}

func (uc *deliveryUseCase) WatchDelivered() livequery.Query[[]model.Delivery] {
	return uc.watch(&dto.DeliveryFilters{Status: model.StatusDelivered})
}

func (uc *deliveryUseCase) WatchByMaterial(materialID int64) livequery.Query[[]model.Delivery] {
	return uc.watch(&dto.DeliveryFilters{MaterialID: materialID})
}

func (uc *deliveryUseCase) WatchBySupplier(supplierID int64) livequery.Query[[]model.Delivery] {
	return uc.watch(&dto.DeliveryFilters{SupplierID: supplierID})
}

func (uc *deliveryUseCase) WatchByDateRange(from, to time.Time) livequery.Query[[]model.Delivery] {
	return uc.watch(&dto.DeliveryFilters{From: &from, To: &to})
}

func (uc *deliveryUseCase) WatchStatistics() livequery.Query[*dto.DeliveryStatistics] {
	return livequery.New(uc.hub, uc.Statistics, database.TableDeliveries)
}

func (uc *deliveryUseCase) watch(f *dto.DeliveryFilters) livequery.Query[[]model.Delivery] {
	return livequery.New(uc.hub, func(ctx context.Context) ([]model.Delivery, error) {
		return uc.repo.FindAll(ctx, f)
	}, database.TableDeliveries)
}

func (uc *deliveryUseCase) Count(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx)
}

func (uc *deliveryUseCase) CountByStatus(ctx context.Context, status model.DeliveryStatus) (int, error) {
	return uc.repo.CountByStatus(ctx, status)
}

func (uc *deliveryUseCase) CostForPeriod(ctx context.Context, from, to time.Time) (float64, error) {
	return uc.repo.DeliveredCost(ctx, from, to)
}

// CostThisMonth covers the local calendar month up to now.
func (uc *deliveryUseCase) CostThisMonth(ctx context.Context) (float64, error) {
	now := uc.now()
	return uc.repo.DeliveredCost(ctx, StartOfMonth(now), now)
}

func (uc *deliveryUseCase) Statistics(ctx context.Context) (*dto.DeliveryStatistics, error) {
	pending, err := uc.repo.CountByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, err
	}
	delivered, err := uc.repo.CountByStatus(ctx, model.StatusDelivered)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	cost, err := uc.CostThisMonth(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.DeliveryStatistics{
		PendingCount:       pending,
		DeliveredCount:     delivered,
		TotalCount:         total,
		TotalCostThisMonth: cost,
	}, nil
}

// StartOfMonth is midnight on the first day of t's month, in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
