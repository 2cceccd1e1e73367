package handler

import (
	"bytes"
	"context"
	"testing"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/auth"
	"github.com/fekuna/stroymaterials/internal/database"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/supplier"
	"github.com/fekuna/stroymaterials/internal/supplier/repository"
	"github.com/fekuna/stroymaterials/internal/supplier/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin = auth.WithUser(context.Background(), &model.User{Username: "admin", Role: model.RoleAdmin})
	guest = auth.WithUser(context.Background(), &model.User{Username: "guest", Role: model.RoleGuest})
)

func newHandler(t *testing.T) (*SupplierHandler, supplier.UseCase, *bytes.Buffer) {
	t.Helper()
	db, err := database.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	uc := usecase.NewSupplierUseCase(repository.NewSQLRepository(db), db.Hub, logger.NewNop())
	out := &bytes.Buffer{}
	return NewSupplierHandler(uc, out, logger.NewNop()), uc, out
}

func TestCreateValidatesContacts(t *testing.T) {
	h, _, _ := newHandler(t)

	err := h.Run(admin, []string{"create", "-name", "ООО Альфа", "-phone", "123"})
	assert.True(t, apperr.IsValidation(err), "got %v", err)

	err = h.Run(admin, []string{"create", "-name", "ООО Альфа", "-email", "info.alfa.ru"})
	assert.True(t, apperr.IsValidation(err), "got %v", err)

	assert.ErrorIs(t, h.Run(guest, []string{"create", "-name", "ООО Альфа"}), apperr.ErrForbidden)
}

func TestCreateListTop(t *testing.T) {
	h, _, out := newHandler(t)
	require.NoError(t, h.Run(admin, []string{"create", "-name", "ООО Альфа", "-phone", "+79161234567", "-rating", "3"}))
	require.NoError(t, h.Run(admin, []string{"create", "-name", "ООО Бета", "-rating", "9"}))

	out.Reset()
	require.NoError(t, h.Run(guest, []string{"list", "-top", "1"}))
	assert.Contains(t, out.String(), "ООО Бета")
	assert.Contains(t, out.String(), "★★★★★")
	assert.NotContains(t, out.String(), "ООО Альфа")

	out.Reset()
	require.NoError(t, h.Run(guest, []string{"list", "-q", "9161"}))
	assert.Contains(t, out.String(), "ООО Альфа")
	assert.NotContains(t, out.String(), "ООО Бета")
}

func TestToggleAndUpdate(t *testing.T) {
	h, uc, out := newHandler(t)
	ctx := context.Background()
	require.NoError(t, h.Run(admin, []string{"create", "-name", "ООО Альфа", "-city", "Казань"}))

	out.Reset()
	require.NoError(t, h.Run(admin, []string{"toggle", "1"}))
	assert.Contains(t, out.String(), "active: нет")

	require.NoError(t, h.Run(admin, []string{"update", "-days", "3", "1"}))
	s, err := uc.GetSupplier(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, s.DeliveryTimeDays)
	assert.False(t, s.IsActive)
	require.NotNil(t, s.City)
	assert.Equal(t, "Казань", *s.City)

	assert.ErrorIs(t, h.Run(admin, []string{"toggle", "7"}), apperr.ErrNotFound)
}

func TestStats(t *testing.T) {
	h, _, out := newHandler(t)
	require.NoError(t, h.Run(admin, []string{"create", "-name", "ООО Альфа"}))
	require.NoError(t, h.Run(admin, []string{"create", "-name", "ООО Бета", "-active=false"}))

	out.Reset()
	require.NoError(t, h.Run(guest, []string{"stats"}))
	assert.Regexp(t, `Поставщиков\s+2`, out.String())
	assert.Regexp(t, `Неактивных\s+1`, out.String())
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", stars(3))
	assert.Equal(t, "★☆☆☆☆", stars(0))
}
