package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaterialStockSignals(t *testing.T) {
	max := 100.0
	tests := []struct {
		name      string
		m         Material
		low, over bool
	}{
		{"below min", Material{Quantity: 4, MinStockLevel: 5}, true, false},
		{"equal min", Material{Quantity: 5, MinStockLevel: 5}, true, false},
		{"normal", Material{Quantity: 50, MinStockLevel: 5, MaxStockLevel: &max}, false, false},
		{"at max", Material{Quantity: 100, MinStockLevel: 5, MaxStockLevel: &max}, false, true},
		{"no max set", Material{Quantity: 1e9, MinStockLevel: 5}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.low, tt.m.IsLowStock())
			assert.Equal(t, tt.over, tt.m.IsOverstock())
		})
	}
}

func TestDeliveryStatusKind(t *testing.T) {
	for _, s := range KnownStatuses {
		assert.Equal(t, s, s.Kind())
		assert.True(t, s.Known())
	}

	raw := DeliveryStatus("returned")
	assert.Equal(t, StatusUnknown, raw.Kind())
	assert.False(t, raw.Known())
	assert.Equal(t, "returned", raw.Label())
	assert.Equal(t, "В пути", StatusInTransit.Label())
}

func TestClampRating(t *testing.T) {
	assert.Equal(t, 1, ClampRating(-3))
	assert.Equal(t, 3, ClampRating(3))
	assert.Equal(t, 5, ClampRating(9))
}

func TestUserRoles(t *testing.T) {
	var nobody *User
	assert.False(t, nobody.IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.True(t, (&User{Role: RoleGuest}).IsGuest())
}
