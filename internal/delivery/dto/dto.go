package dto

import (
	"time"

	"github.com/fekuna/stroymaterials/internal/model"
)

type DeliveryFilters struct {
	Search     string // invoice number, status, notes
	MaterialID int64
	SupplierID int64
	Status     model.DeliveryStatus
	From       *time.Time // delivery_date, inclusive
	To         *time.Time
	ByExpected bool // expected_date ascending instead of delivery_date descending
}

// DeliveryStatistics is assembled from four separate queries and may mix
// values from slightly different instants when writes race with the read.
type DeliveryStatistics struct {
	PendingCount       int
	DeliveredCount     int
	TotalCount         int
	TotalCostThisMonth float64
}
