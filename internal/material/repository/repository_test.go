package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/database"
	"github.com/fekuna/stroymaterials/internal/livequery"
	"github.com/fekuna/stroymaterials/internal/material/dto"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*SQLRepository, *database.DB) {
	t.Helper()
	db, err := database.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLRepository(db), db
}

func ptr[T any](v T) *T { return &v }

func sample(name string, qty, minLevel float64) *model.Material {
	now := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	return &model.Material{
		Name:          name,
		Type:          "Цемент",
		Unit:          "мешок",
		Quantity:      qty,
		Price:         450,
		SupplierID:    1,
		MinStockLevel: minLevel,
		CreatedAt:     now,
		UpdatedAt:     now,
		IsActive:      true,
	}
}

func TestCreateThenFindByIDRoundTrips(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	delivered := time.Date(2024, 2, 20, 8, 0, 0, 0, time.UTC)
	m := sample("Цемент М500", 150, 50)
	m.LastDeliveryDate = &delivered
	m.MaxStockLevel = ptr(500.0)
	m.WarehouseLocation = ptr("Склад А, секция 1")
	m.Description = ptr("Портландцемент высокой прочности")

	id, err := repo.Create(ctx, m)
	require.NoError(t, err)
	m.ID = id

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, m, got)
}

func TestFindByIDMissingReturnsNil(t *testing.T) {
	repo, _ := newRepo(t)
	got, err := repo.FindByID(context.Background(), 999)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindAllOrdersByName(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Песок речной", "Арматура А500С", "Кирпич красный"} {
		_, err := repo.Create(ctx, sample(name, 10, 0))
		require.NoError(t, err)
	}

	all, err := repo.FindAll(ctx, &dto.MaterialFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Арматура А500С", all[0].Name)
	assert.Equal(t, "Кирпич красный", all[1].Name)
	assert.Equal(t, "Песок речной", all[2].Name)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, sample("Цемент М500", 10, 0))
	require.NoError(t, err)
	brick := sample("Кирпич", 10, 0)
	brick.Type = "Кирпич"
	brick.Description = ptr("Облицовочный, 100% керамика")
	_, err = repo.Create(ctx, brick)
	require.NoError(t, err)

	found, err := repo.FindAll(ctx, &dto.MaterialFilters{Search: "цемент"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Цемент М500", found[0].Name)

	found, err = repo.FindAll(ctx, &dto.MaterialFilters{Search: "100%"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Кирпич", found[0].Name)

	found, err = repo.FindAll(ctx, &dto.MaterialFilters{Search: "0%"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestLowStockSet(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	for _, m := range []*model.Material{
		sample("Щебень", 5, 10),
		sample("Гипс", 10, 10),
		sample("Брус", 50, 10),
		sample("Арматура", 0, 1),
	} {
		_, err := repo.Create(ctx, m)
		require.NoError(t, err)
	}

	low, err := repo.FindAll(ctx, &dto.MaterialFilters{LowStock: true})
	require.NoError(t, err)
	names := []string{}
	for _, m := range low {
		assert.True(t, m.IsLowStock())
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Арматура", "Гипс", "Щебень"}, names)

	n, err := repo.CountLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestUpdateAndDeleteMissingRow(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	m := sample("Нет такого", 1, 0)
	m.ID = 42
	assert.ErrorIs(t, repo.Update(ctx, m), apperr.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 42), apperr.ErrNotFound)
	assert.ErrorIs(t, repo.AdjustQuantity(ctx, 42, 1), apperr.ErrNotFound)
}

func TestAdjustQuantityAndAggregates(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	total, err := repo.TotalInventoryValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)

	m := sample("Цемент", 10, 0)
	m.Price = 5
	id, err := repo.Create(ctx, m)
	require.NoError(t, err)

	total, err = repo.TotalInventoryValue(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, total, 1e-9)

	require.NoError(t, repo.AdjustQuantity(ctx, id, -4))
	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 6.0, got.Quantity)

	types, err := repo.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Цемент"}, types)

	require.NoError(t, repo.DeleteAll(ctx))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTypesSkipsBlank(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	untyped := sample("Без типа", 1, 0)
	untyped.Type = ""
	for _, m := range []*model.Material{sample("Цемент М500", 1, 0), untyped, sample("Цемент М400", 1, 0)} {
		_, err := repo.Create(ctx, m)
		require.NoError(t, err)
	}
	brick := sample("Кирпич", 1, 0)
	brick.Type = "Кирпич"
	_, err := repo.Create(ctx, brick)
	require.NoError(t, err)

	types, err := repo.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Кирпич", "Цемент"}, types)
}

func TestDeleteCascadesToDeliveries(t *testing.T) {
	repo, db := newRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	_, err := db.ExecContext(ctx, `INSERT INTO suppliers (id, name, created_at, updated_at) VALUES (1, 'ООО Стройматериалы', ?, ?)`, now, now)
	require.NoError(t, err)
	id, err := repo.Create(ctx, sample("Цемент", 10, 0))
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO deliveries (material_id, supplier_id, quantity, delivery_date, expected_date, status, created_at, updated_at)
        VALUES (?, 1, 5, ?, ?, 'pending', ?, ?)`, id, now, now, now, now)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	var n int
	require.NoError(t, db.GetContext(ctx, &n, `SELECT COUNT(*) FROM deliveries`))
	assert.Zero(t, n)
}

func TestWritesNotifyHub(t *testing.T) {
	repo, db := newRepo(t)
	ctx := context.Background()

	q := liveCount(db)
	sub, cancel := context.WithCancel(ctx)
	defer cancel()
	ch := q.Subscribe(sub)
	<-ch

	_, err := repo.Create(ctx, sample("Цемент", 10, 0))
	require.NoError(t, err)

	select {
	case r := <-ch:
		require.NoError(t, r.Err)
		assert.Equal(t, 1, r.Value)
	case <-time.After(2 * time.Second):
		t.Fatal("no emission after insert")
	}
}

func liveCount(db *database.DB) livequery.Query[int] {
	return livequery.New(db.Hub, func(ctx context.Context) (int, error) {
		var n int
		err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM materials`)
		return n, err
	}, database.TableMaterials)
}
