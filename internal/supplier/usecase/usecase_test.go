package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/database"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/supplier"
	"github.com/fekuna/stroymaterials/internal/supplier/dto"
	"github.com/fekuna/stroymaterials/internal/supplier/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase(t *testing.T) supplier.UseCase {
	t.Helper()
	db, err := database.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSupplierUseCase(repository.NewSQLRepository(db), db.Hub, logger.NewNop())
}

func TestCreateSupplierClampsRating(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	high, err := uc.CreateSupplier(ctx, &dto.CreateSupplierInput{Name: "ООО Альфа", Rating: 9})
	require.NoError(t, err)
	assert.Equal(t, 5, high.Rating)

	low, err := uc.CreateSupplier(ctx, &dto.CreateSupplierInput{Name: "ООО Бета", Rating: -3})
	require.NoError(t, err)
	assert.Equal(t, 1, low.Rating)
	assert.True(t, low.IsActive)
	assert.Nil(t, low.Email)
}

func TestCreateSupplierValidates(t *testing.T) {
	uc := newUseCase(t)
	_, err := uc.CreateSupplier(context.Background(), &dto.CreateSupplierInput{
		Name: "ООО Гамма", Phone: "8-800", Email: "no-at-sign",
	})
	require.Error(t, err)

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "Phone")
	assert.Contains(t, verr.Fields, "Email")
}

func TestUpdateSupplier(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	s, err := uc.CreateSupplier(ctx, &dto.CreateSupplierInput{Name: "ООО Дельта", Rating: 3})
	require.NoError(t, err)

	updated, err := uc.UpdateSupplier(ctx, &dto.UpdateSupplierInput{
		ID: s.ID, Name: "ООО Дельта-Строй", Rating: 4, City: "Москва", IsActive: true,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.City)
	assert.Equal(t, "Москва", *updated.City)

	_, err = uc.UpdateSupplier(ctx, &dto.UpdateSupplierInput{ID: 404, Name: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateSupplierKeepsFormattedPhone(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	s, err := uc.CreateSupplier(ctx, &dto.CreateSupplierInput{
		Name: "ООО 'Кирпич-Торг'", Phone: "+7 (812) 987-65-43", Rating: 5,
	})
	require.NoError(t, err)

	updated, err := uc.UpdateSupplier(ctx, &dto.UpdateSupplierInput{
		ID: s.ID, Name: s.Name, Phone: s.Phone, Rating: 4, IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "+7 (812) 987-65-43", updated.Phone)
}

func TestToggleActiveAndStatistics(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	a, err := uc.CreateSupplier(ctx, &dto.CreateSupplierInput{Name: "А"})
	require.NoError(t, err)
	_, err = uc.CreateSupplier(ctx, &dto.CreateSupplierInput{Name: "Б"})
	require.NoError(t, err)

	toggled, err := uc.ToggleActive(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	stats, err := uc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, &dto.SupplierStatistics{Total: 2, Active: 1, Inactive: 1}, stats)

	active, err := uc.WatchActive().Get(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Б", active[0].Name)

	_, err = uc.ToggleActive(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestWatchSearchFollowsWrites(t *testing.T) {
	uc := newUseCase(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := uc.WatchSearch("бетон").Subscribe(ctx)
	first := <-ch
	require.NoError(t, first.Err)
	assert.Empty(t, first.Value)

	_, err := uc.CreateSupplier(ctx, &dto.CreateSupplierInput{Name: "АО Бетон-Сервис"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		select {
		case r := <-ch:
			return r.Err == nil && len(r.Value) == 1
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	blank, err := uc.WatchSearch(" ").Get(ctx)
	require.NoError(t, err)
	all, err := uc.WatchAll().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, blank)
}
