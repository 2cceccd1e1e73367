package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/database"
	"github.com/fekuna/stroymaterials/internal/material/dto"
	"github.com/fekuna/stroymaterials/internal/model"
)

const orderBy = " ORDER BY name ASC, id ASC"

type SQLRepository struct {
	DB *database.DB
}

func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, m *model.Material) (int64, error) {
	query := `
        INSERT INTO materials (
            name, type, unit, quantity, price, supplier_id, last_delivery_date,
            min_stock_level, max_stock_level, warehouse_location, image_uri,
            description, created_at, updated_at, is_active
        )
        VALUES (
            :name, :type, :unit, :quantity, :price, :supplier_id, :last_delivery_date,
            :min_stock_level, :max_stock_level, :warehouse_location, :image_uri,
            :description, :created_at, :updated_at, :is_active
        )`

	toUTC(m)
	id, err := r.DB.InsertReturningID(ctx, query, m)
	if err != nil {
		return 0, err
	}
	r.DB.Changed(database.TableMaterials)
	return id, nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Material, error) {
	var m model.Material
	query := r.DB.Rebind(`SELECT * FROM materials WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	toUTC(&m)
	return &m, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.MaterialFilters) ([]model.Material, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f != nil {
		if f.Search != "" {
			conditions = append(conditions, r.DB.Dialect.Contains("search", "name", "type", "description"))
			args["search"] = database.LikePattern(f.Search)
		}
		if f.Type != "" {
			conditions = append(conditions, "type = :type")
			args["type"] = f.Type
		}
		if f.LowStock {
			conditions = append(conditions, "quantity <= min_stock_level")
		}
		if f.IsActive != nil {
			conditions = append(conditions, "is_active = :is_active")
			args["is_active"] = *f.IsActive
		}
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query, params, err := r.DB.BindNamed("SELECT * FROM materials"+whereClause+orderBy, args)
	if err != nil {
		return nil, err
	}

	materials := []model.Material{}
	if err := r.DB.SelectContext(ctx, &materials, query, params...); err != nil {
		return nil, err
	}
	for i := range materials {
		toUTC(&materials[i])
	}
	return materials, nil
}

func (r *SQLRepository) Update(ctx context.Context, m *model.Material) error {
	query := `
        UPDATE materials
        SET name = :name,
            type = :type,
            unit = :unit,
            quantity = :quantity,
            price = :price,
            supplier_id = :supplier_id,
            last_delivery_date = :last_delivery_date,
            min_stock_level = :min_stock_level,
            max_stock_level = :max_stock_level,
            warehouse_location = :warehouse_location,
            image_uri = :image_uri,
            description = :description,
            created_at = :created_at,
            updated_at = :updated_at,
            is_active = :is_active
        WHERE id = :id`

	toUTC(m)
	res, err := r.DB.NamedExecContext(ctx, query, m)
	if err != nil {
		return r.DB.Translate(err)
	}
	if err := affected(res, m.ID); err != nil {
		return err
	}
	r.DB.Changed(database.TableMaterials)
	return nil
}

// Delete removes the material and, through the foreign key, its deliveries.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM materials WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if err := affected(res, id); err != nil {
		return err
	}
	r.DB.Changed(database.TableMaterials, database.TableDeliveries)
	return nil
}

func (r *SQLRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM materials`); err != nil {
		return err
	}
	r.DB.Changed(database.TableMaterials, database.TableDeliveries)
	return nil
}

// AdjustQuantity adds amount (possibly negative) to the stored quantity.
func (r *SQLRepository) AdjustQuantity(ctx context.Context, id int64, amount float64) error {
	query := r.DB.Rebind(`UPDATE materials SET quantity = quantity + ?, updated_at = ? WHERE id = ?`)
	res, err := r.DB.ExecContext(ctx, query, amount, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if err := affected(res, id); err != nil {
		return err
	}
	r.DB.Changed(database.TableMaterials)
	return nil
}

func (r *SQLRepository) Types(ctx context.Context) ([]string, error) {
	types := []string{}
	err := r.DB.SelectContext(ctx, &types, `
        SELECT DISTINCT type FROM materials
        WHERE type IS NOT NULL AND type != ''
        ORDER BY type ASC`)
	return types, err
}

func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM materials`)
	return count, err
}

func (r *SQLRepository) CountLowStock(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM materials WHERE quantity <= min_stock_level`)
	return count, err
}

func (r *SQLRepository) TotalInventoryValue(ctx context.Context) (float64, error) {
	var total sql.NullFloat64
	if err := r.DB.GetContext(ctx, &total, `SELECT SUM(quantity * price) FROM materials`); err != nil {
		return 0, err
	}
	return total.Float64, nil
}

func affected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("material", id)
	}
	return nil
}

func toUTC(m *model.Material) {
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	if m.LastDeliveryDate != nil {
		t := m.LastDeliveryDate.UTC()
		m.LastDeliveryDate = &t
	}
}
