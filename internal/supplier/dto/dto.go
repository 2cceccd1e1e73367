package dto

type SupplierFilters struct {
	Search   string // name, contact person, phone, email
	IsActive *bool
}

type SupplierStatistics struct {
	Total    int
	Active   int
	Inactive int
}
