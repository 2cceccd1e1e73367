package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/database"
	"github.com/fekuna/stroymaterials/internal/delivery/dto"
	"github.com/fekuna/stroymaterials/internal/model"
)

type SQLRepository struct {
	DB *database.DB
}

func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, d *model.Delivery) (int64, error) {
	query := `
        INSERT INTO deliveries (
            material_id, supplier_id, quantity, delivery_date, expected_date, status,
            invoice_number, total_cost, notes, created_at, updated_at
        )
        VALUES (
            :material_id, :supplier_id, :quantity, :delivery_date, :expected_date, :status,
            :invoice_number, :total_cost, :notes, :created_at, :updated_at
        )`

	toUTC(d)
	id, err := r.DB.InsertReturningID(ctx, query, d)
	if err != nil {
		return 0, err
	}
	r.DB.Changed(database.TableDeliveries)
	return id, nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Delivery, error) {
	var d model.Delivery
	err := r.DB.GetContext(ctx, &d, r.DB.Rebind(`SELECT * FROM deliveries WHERE id = ? LIMIT 1`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	toUTC(&d)
	return &d, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.DeliveryFilters) ([]model.Delivery, error) {
	if f == nil {
		f = &dto.DeliveryFilters{}
	}

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Search != "" {
		conditions = append(conditions, r.DB.Dialect.Contains("search", "invoice_number", "status", "notes"))
		args["search"] = database.LikePattern(f.Search)
	}
	if f.MaterialID > 0 {
		conditions = append(conditions, "material_id = :material_id")
		args["material_id"] = f.MaterialID
	}
	if f.SupplierID > 0 {
		conditions = append(conditions, "supplier_id = :supplier_id")
		args["supplier_id"] = f.SupplierID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = string(f.Status)
	}
	if f.From != nil {
		conditions = append(conditions, "delivery_date >= :from")
		args["from"] = f.From.UTC()
	}
	if f.To != nil {
		conditions = append(conditions, "delivery_date <= :to")
		args["to"] = f.To.UTC()
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy := " ORDER BY delivery_date DESC, id DESC"
	if f.ByExpected {
		orderBy = " ORDER BY expected_date ASC, id ASC"
	}

	query, params, err := r.DB.BindNamed("SELECT * FROM deliveries"+whereClause+orderBy, args)
	if err != nil {
		return nil, err
	}

	deliveries := []model.Delivery{}
	if err := r.DB.SelectContext(ctx, &deliveries, query, params...); err != nil {
		return nil, err
	}
	for i := range deliveries {
		toUTC(&deliveries[i])
	}
	return deliveries, nil
}

func (r *SQLRepository) Update(ctx context.Context, d *model.Delivery) error {
	query := `
        UPDATE deliveries
        SET material_id = :material_id,
            supplier_id = :supplier_id,
            quantity = :quantity,
            delivery_date = :delivery_date,
            expected_date = :expected_date,
            status = :status,
            invoice_number = :invoice_number,
            total_cost = :total_cost,
            notes = :notes,
            created_at = :created_at,
            updated_at = :updated_at
        WHERE id = :id`

	toUTC(d)
	res, err := r.DB.NamedExecContext(ctx, query, d)
	if err != nil {
		return r.DB.Translate(err)
	}
	if err := affected(res, d.ID); err != nil {
		return err
	}
	r.DB.Changed(database.TableDeliveries)
	return nil
}

func (r *SQLRepository) UpdateStatus(ctx context.Context, id int64, status model.DeliveryStatus) error {
	query := r.DB.Rebind(`UPDATE deliveries SET status = ?, updated_at = ? WHERE id = ?`)
	res, err := r.DB.ExecContext(ctx, query, string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if err := affected(res, id); err != nil {
		return err
	}
	r.DB.Changed(database.TableDeliveries)
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM deliveries WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if err := affected(res, id); err != nil {
		return err
	}
	r.DB.Changed(database.TableDeliveries)
	return nil
}

func (r *SQLRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM deliveries`); err != nil {
		return err
	}
	r.DB.Changed(database.TableDeliveries)
	return nil
}

func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM deliveries`)
	return count, err
}

func (r *SQLRepository) CountByStatus(ctx context.Context, status model.DeliveryStatus) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, r.DB.Rebind(`SELECT COUNT(*) FROM deliveries WHERE status = ?`), string(status))
	return count, err
}

func (r *SQLRepository) DeliveredCost(ctx context.Context, from, to time.Time) (float64, error) {
	var total sql.NullFloat64
	query := r.DB.Rebind(`SELECT SUM(total_cost) FROM deliveries
        WHERE status = ? AND delivery_date BETWEEN ? AND ?`)
	if err := r.DB.GetContext(ctx, &total, query, string(model.StatusDelivered), from.UTC(), to.UTC()); err != nil {
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
		return apperr.NotFound("delivery", id)
	}
	return nil
}

func toUTC(d *model.Delivery) {
	d.DeliveryDate = d.DeliveryDate.UTC()
	d.ExpectedDate = d.ExpectedDate.UTC()
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
}
