package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/database"
	"github.com/fekuna/stroymaterials/internal/model"
)

type SQLRepository struct {
	DB *database.DB
}

func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, u *model.User) (int64, error) {
	query := `
        INSERT INTO users (username, password, role, created_at, is_active)
        VALUES (:username, :password, :role, :created_at, :is_active)`

	u.CreatedAt = u.CreatedAt.UTC()
	id, err := r.DB.InsertReturningID(ctx, query, u)
	if err != nil {
		return 0, err
	}
	r.DB.Changed(database.TableUsers)
	return id, nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.get(ctx, `SELECT * FROM users WHERE id = ? LIMIT 1`, id)
}

func (r *SQLRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.get(ctx, `SELECT * FROM users WHERE username = ? AND is_active = ? LIMIT 1`, username, true)
}

func (r *SQLRepository) FindAnyByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.get(ctx, `SELECT * FROM users WHERE username = ? LIMIT 1`, username)
}

func (r *SQLRepository) get(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	var u model.User
	if err := r.DB.GetContext(ctx, &u, r.DB.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func (r *SQLRepository) FindAll(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := r.DB.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY username ASC`); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].CreatedAt = users[i].CreatedAt.UTC()
	}
	return users, nil
}

func (r *SQLRepository) Update(ctx context.Context, u *model.User) error {
	query := `
        UPDATE users
        SET username = :username,
            password = :password,
            role = :role,
            created_at = :created_at,
            is_active = :is_active
        WHERE id = :id`

	u.CreatedAt = u.CreatedAt.UTC()
	res, err := r.DB.NamedExecContext(ctx, query, u)
	if err != nil {
		return r.DB.Translate(err)
	}
	if err := affected(res, u.ID); err != nil {
		return err
	}
	r.DB.Changed(database.TableUsers)
	return nil
}

func (r *SQLRepository) UpdatePassword(ctx context.Context, username, hash string) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`UPDATE users SET password = ? WHERE username = ?`), hash, username)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %q: %w", username, apperr.ErrNotFound)
	}
	r.DB.Changed(database.TableUsers)
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if err := affected(res, id); err != nil {
		return err
	}
	r.DB.Changed(database.TableUsers)
	return nil
}

func (r *SQLRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return err
	}
	r.DB.Changed(database.TableUsers)
	return nil
}

func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	return count, err
}

func affected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("user", id)
	}
	return nil
}
