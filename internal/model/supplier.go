package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Supplier struct {
	ID               int64     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	ContactPerson    string    `db:"contact_person" json:"contact_person"`
	Phone            string    `db:"phone" json:"phone"`
	Email            *string   `db:"email" json:"email"`
	Address          string    `db:"address" json:"address"`
	City             *string   `db:"city" json:"city"`
	Rating           int       `db:"rating" json:"rating"`
	DeliveryTimeDays int       `db:"delivery_time_days" json:"delivery_time_days"` // average
	PaymentTerms     *string   `db:"payment_terms" json:"payment_terms"`
	Notes            *string   `db:"notes" json:"notes"`
	IsActive         bool      `db:"is_active" json:"is_active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// ClampRating bounds a rating to [MinRating, MaxRating].
func ClampRating(r int) int {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}
