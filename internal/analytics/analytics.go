// Package analytics assembles the dashboard snapshot from the per-entity
// aggregates.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type MaterialCounter interface {
	Count(ctx context.Context) (int, error)
	TotalInventoryValue(ctx context.Context) (float64, error)
}

type SupplierCounter interface {
	Count(ctx context.Context) (int, error)
}

type DeliveryCounter interface {
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status model.DeliveryStatus) (int, error)
	CostForPeriod(ctx context.Context, from, to time.Time) (float64, error)
}

type Snapshot struct {
	MaterialCount       int
	SupplierCount       int
	DeliveryCount       int
	TotalInventoryValue float64
	PendingDeliveries   int
	DeliveredDeliveries int
	CostThisMonth       float64
	TakenAt             time.Time
}

type Service struct {
	materials MaterialCounter
	suppliers SupplierCounter
	shipments DeliveryCounter
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewService(m MaterialCounter, s SupplierCounter, d DeliveryCounter, log logger.ZapLogger) *Service {
	return &Service{materials: m, suppliers: s, shipments: d, logger: log, now: time.Now}
}

// Snapshot runs every aggregate concurrently. Any failure fails the whole
// snapshot; there is no partial result.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	snap := &Snapshot{TakenAt: now}

	g, ctx := errgroup.WithContext(ctx)
	run := func(name string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}

	run("material count", func() (err error) {
		snap.MaterialCount, err = s.materials.Count(ctx)
		return err
	})
	run("inventory value", func() (err error) {
		snap.TotalInventoryValue, err = s.materials.TotalInventoryValue(ctx)
		return err
	})
	run("supplier count", func() (err error) {
		snap.SupplierCount, err = s.suppliers.Count(ctx)
		return err
	})
	run("delivery count", func() (err error) {
		snap.DeliveryCount, err = s.shipments.Count(ctx)
		return err
	})
	run("pending deliveries", func() (err error) {
		snap.PendingDeliveries, err = s.shipments.CountByStatus(ctx, model.StatusPending)
		return err
	})
	run("delivered deliveries", func() (err error) {
		snap.DeliveredDeliveries, err = s.shipments.CountByStatus(ctx, model.StatusDelivered)
		return err
	})
	run("cost this month", func() (err error) {
		snap.CostThisMonth, err = s.shipments.CostForPeriod(ctx, monthStart, now)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("analytics snapshot failed", zap.Error(err))
		return nil, err
	}
	return snap, nil
}
