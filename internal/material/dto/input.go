package dto

import "time"

type CreateMaterialInput struct {
	Name              string     `validate:"required"`
	Type              string     `validate:"required"`
	Unit              string     `validate:"required"`
	Quantity          float64    `validate:"gte=0"`
	Price             float64    `validate:"gte=0"`
	SupplierID        int64      `validate:"gt=0"`
	LastDeliveryDate  *time.Time
	MinStockLevel     float64    `validate:"gte=0"`
	MaxStockLevel     *float64   `validate:"omitempty,gte=0"`
	WarehouseLocation string
	ImageURI          string
	Description       string
}

type UpdateMaterialInput struct {
	ID                int64      `validate:"gt=0"`
	Name              string     `validate:"required"`
	Type              string     `validate:"required"`
	Unit              string     `validate:"required"`
	Quantity          float64    `validate:"gte=0"`
	Price             float64    `validate:"gte=0"`
	SupplierID        int64      `validate:"gt=0"`
	LastDeliveryDate  *time.Time
	MinStockLevel     float64    `validate:"gte=0"`
	MaxStockLevel     *float64   `validate:"omitempty,gte=0"`
	WarehouseLocation string
	ImageURI          string
	Description       string
	IsActive          bool
}
