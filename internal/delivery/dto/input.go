package dto

import "time"

type CreateDeliveryInput struct {
	MaterialID    int64     `validate:"gt=0"`
	SupplierID    int64     `validate:"gt=0"`
	Quantity      float64   `validate:"gt=0"`
	DeliveryDate  time.Time `validate:"required"`
	ExpectedDate  time.Time `validate:"required"`
	Status        string    `validate:"omitempty,oneof=pending in_transit delivered cancelled"` // pending when empty
	InvoiceNumber string    `validate:"required"`
	TotalCost     float64   `validate:"gte=0"`
	Notes         string
}

type UpdateDeliveryInput struct {
	ID            int64     `validate:"gt=0"`
	MaterialID    int64     `validate:"gt=0"`
	SupplierID    int64     `validate:"gt=0"`
	Quantity      float64   `validate:"gt=0"`
	DeliveryDate  time.Time `validate:"required"`
	ExpectedDate  time.Time `validate:"required"`
	Status        string    `validate:"required,oneof=pending in_transit delivered cancelled"`
	InvoiceNumber string    `validate:"required"`
	TotalCost     float64   `validate:"gte=0"`
	Notes         string
}
