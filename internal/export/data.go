// Package export writes the inventory to CSV and XLSX files and produces
// timestamped database backups.
package export

import (
	"context"

	"github.com/fekuna/stroymaterials/internal/livequery"
	"github.com/fekuna/stroymaterials/internal/model"
	"golang.org/x/sync/errgroup"
)

type MaterialSource interface {
	WatchAll() livequery.Query[[]model.Material]
}

type SupplierSource interface {
	WatchAll() livequery.Query[[]model.Supplier]
}

type DeliverySource interface {
	WatchAll() livequery.Query[[]model.Delivery]
}

// Data is one consistent-per-table read of the three business tables, in
// list order.
type Data struct {
	Materials  []model.Material
	Suppliers  []model.Supplier
	Deliveries []model.Delivery
}

func Load(ctx context.Context, m MaterialSource, s SupplierSource, d DeliverySource) (*Data, error) {
	data := &Data{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Materials, err = m.WatchAll().Get(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.Suppliers, err = s.WatchAll().Get(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.Deliveries, err = d.WatchAll().Get(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}
