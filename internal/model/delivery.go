package model

import "time"

// DeliveryStatus is stored as a free string. Kind maps anything outside the
// known set to StatusUnknown while the raw value stays untouched.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "pending"
	StatusInTransit DeliveryStatus = "in_transit"
	StatusDelivered DeliveryStatus = "delivered"
	StatusCancelled DeliveryStatus = "cancelled"
	StatusUnknown   DeliveryStatus = "unknown"
)

var KnownStatuses = []DeliveryStatus{StatusPending, StatusInTransit, StatusDelivered, StatusCancelled}

func (s DeliveryStatus) Kind() DeliveryStatus {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusCancelled:
		return s
	}
	return StatusUnknown
}

func (s DeliveryStatus) Known() bool {
	return s.Kind() != StatusUnknown
}

func (s DeliveryStatus) Label() string {
	switch s.Kind() {
	case StatusPending:
		return "Ожидается"
	case StatusInTransit:
		return "В пути"
	case StatusDelivered:
		return "Доставлено"
	case StatusCancelled:
		return "Отменено"
	}
	return string(s)
}

type Delivery struct {
	ID            int64          `db:"id" json:"id"`
	MaterialID    int64          `db:"material_id" json:"material_id"`
	SupplierID    int64          `db:"supplier_id" json:"supplier_id"`
	Quantity      float64        `db:"quantity" json:"quantity"`
	DeliveryDate  time.Time      `db:"delivery_date" json:"delivery_date"`
	ExpectedDate  time.Time      `db:"expected_date" json:"expected_date"`
	Status        DeliveryStatus `db:"status" json:"status"`
	InvoiceNumber string         `db:"invoice_number" json:"invoice_number"`
	TotalCost     float64        `db:"total_cost" json:"total_cost"`
	Notes         *string        `db:"notes" json:"notes"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}
