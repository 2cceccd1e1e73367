package handler

import (
	"bytes"
	"context"
	"testing"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/auth"
	"github.com/fekuna/stroymaterials/internal/database"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/material"
	"github.com/fekuna/stroymaterials/internal/material/repository"
	"github.com/fekuna/stroymaterials/internal/material/usecase"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin = auth.WithUser(context.Background(), &model.User{Username: "admin", Role: model.RoleAdmin})
	guest = auth.WithUser(context.Background(), &model.User{Username: "guest", Role: model.RoleGuest})
)

func newHandler(t *testing.T) (*MaterialHandler, material.UseCase, *bytes.Buffer) {
	t.Helper()
	db, err := database.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	uc := usecase.NewMaterialUseCase(repository.NewSQLRepository(db), db.Hub, logger.NewNop())
	out := &bytes.Buffer{}
	return NewMaterialHandler(uc, out, logger.NewNop()), uc, out
}

func TestCreateRequiresAdmin(t *testing.T) {
	h, _, _ := newHandler(t)
	args := []string{"create", "-name", "Песок", "-type", "Сыпучие", "-unit", "м³", "-supplier", "1"}

	assert.ErrorIs(t, h.Run(guest, args), apperr.ErrForbidden)
	assert.ErrorIs(t, h.Run(context.Background(), args), apperr.ErrUnauthenticated)
	require.NoError(t, h.Run(admin, args))
}

func TestCreateAndList(t *testing.T) {
	h, _, out := newHandler(t)

	require.NoError(t, h.Run(admin, []string{"create", "-name", "Цемент М500", "-type", "Цемент", "-unit", "мешок",
		"-supplier", "1", "-qty", "12,5", "-price", "450", "-min", "20"}))
	assert.Contains(t, out.String(), "created material 1")

	out.Reset()
	require.NoError(t, h.Run(guest, []string{"list", "-low"}))
	assert.Contains(t, out.String(), "Цемент М500")
	assert.Contains(t, out.String(), "12.5")
	assert.Contains(t, out.String(), "мало")

	out.Reset()
	require.NoError(t, h.Run(guest, []string{"list", "-q", "ЦЕМЕНТ"}))
	assert.Contains(t, out.String(), "Цемент М500")

	out.Reset()
	require.NoError(t, h.Run(guest, []string{"types"}))
	assert.Equal(t, "Цемент\n", out.String())
}

func TestCreateRejectsBadNumbers(t *testing.T) {
	h, _, _ := newHandler(t)
	err := h.Run(admin, []string{"create", "-name", "Песок", "-type", "Сыпучие", "-unit", "м³",
		"-supplier", "1", "-price", "дорого"})
	assert.True(t, apperr.IsValidation(err), "got %v", err)
}

func TestUpdateAppliesOnlyGivenFlags(t *testing.T) {
	h, uc, _ := newHandler(t)
	require.NoError(t, h.Run(admin, []string{"create", "-name", "Кирпич", "-type", "Кирпич", "-unit", "шт",
		"-supplier", "2", "-qty", "1000", "-price", "15", "-description", "красный"}))

	require.NoError(t, h.Run(admin, []string{"update", "-price", "17,5", "-active=false", "1"}))

	m, err := uc.GetMaterial(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Кирпич", m.Name)
	assert.Equal(t, 1000.0, m.Quantity)
	assert.Equal(t, 17.5, m.Price)
	assert.False(t, m.IsActive)
	require.NotNil(t, m.Description)
	assert.Equal(t, "красный", *m.Description)
}

func TestMissingRows(t *testing.T) {
	h, _, _ := newHandler(t)

	assert.ErrorIs(t, h.Run(admin, []string{"update", "-qty", "1", "9"}), apperr.ErrNotFound)
	assert.ErrorIs(t, h.Run(admin, []string{"delete", "9"}), apperr.ErrNotFound)
	assert.ErrorIs(t, h.Run(guest, []string{"show", "9"}), apperr.ErrNotFound)
}

func TestAdjust(t *testing.T) {
	h, uc, _ := newHandler(t)
	require.NoError(t, h.Run(admin, []string{"create", "-name", "Щебень", "-type", "Сыпучие", "-unit", "т",
		"-supplier", "1", "-qty", "10"}))

	require.NoError(t, h.Run(admin, []string{"adjust", "-by", "-2,5", "1"}))
	m, err := uc.GetMaterial(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 7.5, m.Quantity)

	assert.ErrorIs(t, h.Run(guest, []string{"adjust", "-by", "1", "1"}), apperr.ErrForbidden)
}

func TestStats(t *testing.T) {
	h, _, out := newHandler(t)
	require.NoError(t, h.Run(admin, []string{"create", "-name", "Щебень", "-type", "Сыпучие", "-unit", "т",
		"-supplier", "1", "-qty", "10", "-price", "2000", "-min", "5"}))

	out.Reset()
	require.NoError(t, h.Run(guest, []string{"stats"}))
	assert.Contains(t, out.String(), "20000")
}
