// Package seed bootstraps the default accounts and loads the demo data set.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/stroymaterials/internal/delivery"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/material"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/supplier"
	"github.com/fekuna/stroymaterials/internal/user"
	"github.com/fekuna/stroymaterials/internal/user/dto"
	"go.uber.org/zap"
)

type Seeder struct {
	materials  material.Repository
	suppliers  supplier.Repository
	deliveries delivery.Repository
	users      user.UseCase
	logger     logger.ZapLogger
}

func NewSeeder(m material.Repository, s supplier.Repository, d delivery.Repository, u user.UseCase, log logger.ZapLogger) *Seeder {
	return &Seeder{materials: m, suppliers: s, deliveries: d, users: u, logger: log}
}

// InitializeUsers creates the admin and guest accounts when missing. The
// admin password is reset and the account re-enabled on every call.
func (s *Seeder) InitializeUsers(ctx context.Context) error {
	for _, f := range users {
		existing, err := s.users.GetByUsername(ctx, f.username)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", f.username, err)
		}

		switch {
		case existing == nil:
			if _, err := s.users.CreateUser(ctx, &dto.CreateUserInput{
				Username: f.username, Password: f.password, Role: f.role,
			}); err != nil {
				return fmt.Errorf("create %s: %w", f.username, err)
			}
			s.logger.Info("user created", zap.String("username", f.username))
		case f.resetPassword:
			if err := s.users.ResetPassword(ctx, f.username, f.password); err != nil {
				return fmt.Errorf("reset %s: %w", f.username, err)
			}
			s.logger.Info("user password reset", zap.String("username", f.username))
			if !existing.IsActive {
				if err := s.users.SetActive(ctx, existing.ID, true); err != nil {
					return fmt.Errorf("enable %s: %w", f.username, err)
				}
				s.logger.Info("user re-enabled", zap.String("username", f.username))
			}
		}
	}
	return nil
}

// Reseed wipes deliveries, materials and suppliers and loads the fixture set
// with dates relative to now.
func (s *Seeder) Reseed(ctx context.Context, now time.Time) error {
	if err := s.deliveries.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear deliveries: %w", err)
	}
	if err := s.materials.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear materials: %w", err)
	}
	if err := s.suppliers.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear suppliers: %w", err)
	}
	if err := s.InitializeUsers(ctx); err != nil {
		return err
	}

	stamp := time.Now().UTC()

	supplierIDs := make([]int64, 0, len(suppliers))
	for _, f := range suppliers {
		id, err := s.suppliers.Create(ctx, &model.Supplier{
			Name:             f.name,
			ContactPerson:    f.contact,
			Phone:            f.phone,
			Email:            str(f.email),
			Address:          f.address,
			City:             str(f.city),
			Rating:           f.rating,
			DeliveryTimeDays: f.days,
			PaymentTerms:     str(f.terms),
			Notes:            str(f.notes),
			IsActive:         true,
			CreatedAt:        stamp,
			UpdatedAt:        stamp,
		})
		if err != nil {
			return fmt.Errorf("insert supplier %q: %w", f.name, err)
		}
		supplierIDs = append(supplierIDs, id)
	}

	materialIDs := make([]int64, 0, len(materials))
	for _, f := range materials {
		maxStock := f.maxStock
		id, err := s.materials.Create(ctx, &model.Material{
			Name:              f.name,
			Type:              f.kind,
			Unit:              f.unit,
			Quantity:          f.quantity,
			Price:             f.price,
			SupplierID:        supplierIDs[f.supplier],
			MinStockLevel:     f.minStock,
			MaxStockLevel:     &maxStock,
			WarehouseLocation: str(f.location),
			Description:       str(f.description),
			CreatedAt:         stamp,
			UpdatedAt:         stamp,
			IsActive:          true,
		})
		if err != nil {
			return fmt.Errorf("insert material %q: %w", f.name, err)
		}
		materialIDs = append(materialIDs, id)
	}

	calendar := now
	for _, f := range deliveries {
		calendar = calendar.AddDate(0, 0, f.deliveryShift)
		deliveredAt := calendar
		calendar = calendar.AddDate(0, 0, f.expectedShift)
		expectedAt := calendar

		if _, err := s.deliveries.Create(ctx, &model.Delivery{
			MaterialID:    materialIDs[f.material],
			SupplierID:    supplierIDs[f.supplier],
			Quantity:      f.quantity,
			DeliveryDate:  deliveredAt,
			ExpectedDate:  expectedAt,
			Status:        f.status,
			InvoiceNumber: f.invoice,
			TotalCost:     f.cost,
			Notes:         str(f.notes),
			CreatedAt:     stamp,
			UpdatedAt:     stamp,
		}); err != nil {
			return fmt.Errorf("insert delivery %s: %w", f.invoice, err)
		}
	}

	s.logger.Info("database reseeded",
		zap.Int("suppliers", len(supplierIDs)),
		zap.Int("materials", len(materialIDs)),
		zap.Int("deliveries", len(deliveries)))
	return nil
}

func str(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
