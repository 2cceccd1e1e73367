package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/stroymaterials/internal/analytics"
	"github.com/fekuna/stroymaterials/internal/database"
	deliveryrepo "github.com/fekuna/stroymaterials/internal/delivery/repository"
	deliveryuc "github.com/fekuna/stroymaterials/internal/delivery/usecase"
	"github.com/fekuna/stroymaterials/internal/logger"
	materialrepo "github.com/fekuna/stroymaterials/internal/material/repository"
	materialuc "github.com/fekuna/stroymaterials/internal/material/usecase"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/seed"
	"github.com/fekuna/stroymaterials/internal/supplier"
	supplierdto "github.com/fekuna/stroymaterials/internal/supplier/dto"
	supplierrepo "github.com/fekuna/stroymaterials/internal/supplier/repository"
	supplieruc "github.com/fekuna/stroymaterials/internal/supplier/usecase"
	userrepo "github.com/fekuna/stroymaterials/internal/user/repository"
	useruc "github.com/fekuna/stroymaterials/internal/user/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db     *database.DB
	seeder *seed.Seeder
	stats  *analytics.Service
	users  interface {
		Authenticate(ctx context.Context, username, password string) (*model.User, error)
		Count(ctx context.Context) (int, error)
		GetByUsername(ctx context.Context, username string) (*model.User, error)
		SetActive(ctx context.Context, id int64, active bool) error
	}
	deliveries *deliveryrepo.SQLRepository
	suppliers  supplier.UseCase
}

func setup(t *testing.T) fixture {
	t.Helper()
	db, err := database.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewNop()
	mRepo := materialrepo.NewSQLRepository(db)
	sRepo := supplierrepo.NewSQLRepository(db)
	dRepo := deliveryrepo.NewSQLRepository(db)
	users := useruc.NewUserUseCase(userrepo.NewSQLRepository(db), db.Hub, log)
	suppliers := supplieruc.NewSupplierUseCase(sRepo, db.Hub, log)

	return fixture{
		db:     db,
		seeder: seed.NewSeeder(mRepo, sRepo, dRepo, users, log),
		stats: analytics.NewService(
			materialuc.NewMaterialUseCase(mRepo, db.Hub, log),
			suppliers,
			deliveryuc.NewDeliveryUseCase(dRepo, db.Hub, log),
			log,
		),
		users:      users,
		deliveries: dRepo,
		suppliers:  suppliers,
	}
}

func TestReseedLoadsFixture(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.seeder.Reseed(ctx, time.Now()))

	snap, err := f.stats.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, snap.MaterialCount)
	assert.Equal(t, 5, snap.SupplierCount)
	assert.Equal(t, 8, snap.DeliveryCount)
	assert.Equal(t, 2, snap.PendingDeliveries)
	assert.Equal(t, 5, snap.DeliveredDeliveries)

	inTransit, err := f.deliveries.CountByStatus(ctx, model.StatusInTransit)
	require.NoError(t, err)
	assert.Equal(t, 1, inTransit)

	// 5000*45 + 25*1200 + 15000*12.5 + 8.5*45000 + 15*18000 + 40*1500 + 120*450 + 500*280 + 800*120 + 30*4200
	assert.InDelta(t, 1571000.0, snap.TotalInventoryValue, 1e-6)
}

func TestReseedIsRepeatable(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.seeder.Reseed(ctx, time.Now()))
	require.NoError(t, f.seeder.Reseed(ctx, time.Now()))

	snap, err := f.stats.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, snap.MaterialCount)
	assert.Equal(t, 8, snap.DeliveryCount)

	n, err := f.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDeliveryDatesFollowSharedCalendar(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	require.NoError(t, f.seeder.Reseed(ctx, now))

	all, err := f.deliveries.FindAll(ctx, nil)
	require.NoError(t, err)
	byInvoice := map[string]model.Delivery{}
	for _, d := range all {
		byInvoice[d.InvoiceNumber] = d
	}

	first := byInvoice["INV-2024-001"]
	assert.True(t, first.DeliveryDate.Equal(now.AddDate(0, 0, -15)))
	assert.True(t, first.ExpectedDate.Equal(now.AddDate(0, 0, -32)))

	second := byInvoice["INV-2024-002"]
	assert.True(t, second.DeliveryDate.Equal(now.AddDate(0, 0, -42)))
	assert.True(t, second.ExpectedDate.Equal(now.AddDate(0, 0, -54)))

	last := byInvoice["INV-2024-008"]
	assert.True(t, last.DeliveryDate.Equal(now.AddDate(0, 0, -54)))
	assert.True(t, last.ExpectedDate.Equal(now.AddDate(0, 0, -47)))
}

func TestInitializeUsers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.seeder.InitializeUsers(ctx))
	require.NoError(t, f.seeder.InitializeUsers(ctx))

	admin, err := f.users.Authenticate(ctx, "admin", "1234")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.IsAdmin())

	guest, err := f.users.Authenticate(ctx, "guest", "guest123")
	require.NoError(t, err)
	require.NotNil(t, guest)
	assert.True(t, guest.IsGuest())

	wrong, err := f.users.Authenticate(ctx, "admin", "12345")
	assert.NoError(t, err)
	assert.Nil(t, wrong)
}

func TestInitializeUsersReenablesDisabledAdmin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.seeder.InitializeUsers(ctx))
	admin, err := f.users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	require.NoError(t, f.users.SetActive(ctx, admin.ID, false))

	disabled, err := f.users.Authenticate(ctx, "admin", "1234")
	require.NoError(t, err)
	assert.Nil(t, disabled)

	require.NoError(t, f.seeder.InitializeUsers(ctx))

	again, err := f.users.Authenticate(ctx, "admin", "1234")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, admin.ID, again.ID)

	n, err := f.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestInitializeUsersKeepsDisabledGuest(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.seeder.InitializeUsers(ctx))
	guest, err := f.users.GetByUsername(ctx, "guest")
	require.NoError(t, err)
	require.NotNil(t, guest)
	require.NoError(t, f.users.SetActive(ctx, guest.ID, false))

	require.NoError(t, f.seeder.InitializeUsers(ctx))

	got, err := f.users.GetByUsername(ctx, "guest")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsActive)
}

func TestReseededSuppliersAreEditable(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.seeder.Reseed(ctx, time.Now()))

	all, err := f.suppliers.WatchAll().Get(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)

	for _, s := range all {
		updated, err := f.suppliers.UpdateSupplier(ctx, &supplierdto.UpdateSupplierInput{
			ID:               s.ID,
			Name:             s.Name,
			ContactPerson:    s.ContactPerson,
			Phone:            s.Phone,
			Email:            deref(s.Email),
			Address:          s.Address,
			City:             deref(s.City),
			Rating:           4,
			DeliveryTimeDays: s.DeliveryTimeDays,
			PaymentTerms:     deref(s.PaymentTerms),
			Notes:            deref(s.Notes),
			IsActive:         s.IsActive,
		})
		require.NoError(t, err, s.Name)
		assert.Equal(t, 4, updated.Rating)
		assert.Equal(t, s.Phone, updated.Phone)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
