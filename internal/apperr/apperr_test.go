package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundWraps(t *testing.T) {
	err := NotFound("material", 42)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "material 42: record not found", err.Error())
}

func TestValidationErrorMessageIsSorted(t *testing.T) {
	err := NewValidation(map[string]string{"phone": "invalid", "name": "required"})
	assert.Equal(t, "validation failed: name: required; phone: invalid", err.Error())

	wrapped := fmt.Errorf("create supplier: %w", err)
	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsValidation(ErrConflict))
}
