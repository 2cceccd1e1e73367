package dto

type MaterialFilters struct {
	Search   string // name, type, description
	Type     string
	LowStock bool // quantity <= min_stock_level
	IsActive *bool
}

type MaterialStatistics struct {
	TotalMaterials      int
	TotalInventoryValue float64
	LowStockCount       int
}
