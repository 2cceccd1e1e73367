package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/database"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/supplier/dto"
)

type SQLRepository struct {
	DB *database.DB
}

func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, s *model.Supplier) (int64, error) {
	query := `
        INSERT INTO suppliers (
            name, contact_person, phone, email, address, city, rating,
            delivery_time_days, payment_terms, notes, is_active, created_at, updated_at
        )
        VALUES (
            :name, :contact_person, :phone, :email, :address, :city, :rating,
            :delivery_time_days, :payment_terms, :notes, :is_active, :created_at, :updated_at
        )`

	toUTC(s)
	id, err := r.DB.InsertReturningID(ctx, query, s)
	if err != nil {
		return 0, err
	}
	r.DB.Changed(database.TableSuppliers)
	return id, nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Supplier, error) {
	var s model.Supplier
	err := r.DB.GetContext(ctx, &s, r.DB.Rebind(`SELECT * FROM suppliers WHERE id = ? LIMIT 1`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	toUTC(&s)
	return &s, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.SupplierFilters) ([]model.Supplier, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f != nil {
		if f.Search != "" {
			conditions = append(conditions, r.DB.Dialect.Contains("search", "name", "contact_person", "phone", "email"))
			args["search"] = database.LikePattern(f.Search)
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

	return r.selectNamed(ctx, "SELECT * FROM suppliers"+whereClause+" ORDER BY name ASC, id ASC", args)
}

// FindTop lists active suppliers, best rated first.
func (r *SQLRepository) FindTop(ctx context.Context, limit int) ([]model.Supplier, error) {
	if limit <= 0 {
		return []model.Supplier{}, nil
	}
	query := `SELECT * FROM suppliers WHERE is_active = :is_active
        ORDER BY rating DESC, name ASC, id ASC LIMIT :limit`
	return r.selectNamed(ctx, query, map[string]interface{}{"is_active": true, "limit": limit})
}

func (r *SQLRepository) selectNamed(ctx context.Context, query string, args map[string]interface{}) ([]model.Supplier, error) {
	q, params, err := r.DB.BindNamed(query, args)
	if err != nil {
		return nil, err
	}
	suppliers := []model.Supplier{}
	if err := r.DB.SelectContext(ctx, &suppliers, q, params...); err != nil {
		return nil, err
	}
	for i := range suppliers {
		toUTC(&suppliers[i])
	}
	return suppliers, nil
}

func (r *SQLRepository) Update(ctx context.Context, s *model.Supplier) error {
	query := `
        UPDATE suppliers
        SET name = :name,
            contact_person = :contact_person,
            phone = :phone,
            email = :email,
            address = :address,
            city = :city,
            rating = :rating,
            delivery_time_days = :delivery_time_days,
            payment_terms = :payment_terms,
            notes = :notes,
            is_active = :is_active,
            created_at = :created_at,
            updated_at = :updated_at
        WHERE id = :id`

	toUTC(s)
	res, err := r.DB.NamedExecContext(ctx, query, s)
	if err != nil {
		return r.DB.Translate(err)
	}
	if err := affected(res, s.ID); err != nil {
		return err
	}
	r.DB.Changed(database.TableSuppliers)
	return nil
}

func (r *SQLRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := r.DB.Rebind(`UPDATE suppliers SET is_active = ?, updated_at = ? WHERE id = ?`)
	res, err := r.DB.ExecContext(ctx, query, active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if err := affected(res, id); err != nil {
		return err
	}
	r.DB.Changed(database.TableSuppliers)
	return nil
}

// Delete removes the supplier together with its deliveries. Materials that
// reference it keep their supplier_id.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM suppliers WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if err := affected(res, id); err != nil {
		return err
	}
	r.DB.Changed(database.TableSuppliers, database.TableDeliveries)
	return nil
}

func (r *SQLRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM suppliers`); err != nil {
		return err
	}
	r.DB.Changed(database.TableSuppliers, database.TableDeliveries)
	return nil
}

func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM suppliers`)
	return count, err
}

func (r *SQLRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, r.DB.Rebind(`SELECT COUNT(*) FROM suppliers WHERE is_active = ?`), true)
	return count, err
}

func affected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("supplier", id)
	}
	return nil
}

func toUTC(s *model.Supplier) {
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
}
