package dto

type CreateSupplierInput struct {
	Name             string `validate:"required"`
	ContactPerson    string
	Phone            string `validate:"omitempty,phone"`
	Email            string `validate:"omitempty,loose_email"`
	Address          string
	City             string
	Rating           int // clamped to 1..5
	DeliveryTimeDays int `validate:"gte=0"`
	PaymentTerms     string
	Notes            string
}

type UpdateSupplierInput struct {
	ID               int64  `validate:"gt=0"`
	Name             string `validate:"required"`
	ContactPerson    string
	Phone            string `validate:"omitempty,phone"`
	Email            string `validate:"omitempty,loose_email"`
	Address          string
	City             string
	Rating           int
	DeliveryTimeDays int `validate:"gte=0"`
	PaymentTerms     string
	Notes            string
	IsActive         bool
}
