package model

import "time"

type Material struct {
	ID                int64      `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	Type              string     `db:"type" json:"type"`
	Unit              string     `db:"unit" json:"unit"`
	Quantity          float64    `db:"quantity" json:"quantity"`
	Price             float64    `db:"price" json:"price"` // per unit
	SupplierID        int64      `db:"supplier_id" json:"supplier_id"`
	LastDeliveryDate  *time.Time `db:"last_delivery_date" json:"last_delivery_date"`
	MinStockLevel     float64    `db:"min_stock_level" json:"min_stock_level"`
	MaxStockLevel     *float64   `db:"max_stock_level" json:"max_stock_level"`
	WarehouseLocation *string    `db:"warehouse_location" json:"warehouse_location"`
	ImageURI          *string    `db:"image_uri" json:"image_uri"`
	Description       *string    `db:"description" json:"description"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
	IsActive          bool       `db:"is_active" json:"is_active"`
}

// IsLowStock reports quantity at or below the minimum threshold.
func (m *Material) IsLowStock() bool {
	return m.Quantity <= m.MinStockLevel
}

// IsOverstock reports quantity at or above the maximum threshold, when one is set.
func (m *Material) IsOverstock() bool {
	return m.MaxStockLevel != nil && m.Quantity >= *m.MaxStockLevel
}

// Value is quantity times unit price.
func (m *Material) Value() float64 {
	return m.Quantity * m.Price
}
