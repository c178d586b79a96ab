package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/inspection-case-backend/internal/model"
)

// UserRepo stores users in the relational `users` table.
type UserRepo struct {
	db      *sql.DB
	dialect Dialect
}

func NewUserRepo(db *sql.DB, d Dialect) *UserRepo { return &UserRepo{db: db, dialect: d} }

const userColumns = "id,name,email,password_hash,role,is_active,created_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}

// Insert persists u and fills in its generated id and creation time.  A
// unique-index violation on email is reported as ErrEmailExists.
func (r *UserRepo) Insert(ctx context.Context, u *model.User) error {
	id, err := r.dialect.insert(ctx, r.db,
		"INSERT INTO users (name, email, password_hash, role, is_active) VALUES (?,?,?,?,?)",
		u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive)
	if err != nil {
		if IsDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	stored, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	*u = stored
	return nil
}

// FindByEmail fetches a user by exact email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		r.dialect.Rebind("SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1"), email))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// FindByID fetches a user by id.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		r.dialect.Rebind("SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Delete removes the user if present.  Zero affected rows is not an error.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind("DELETE FROM users WHERE id=?"), id)
	return err
}

// UpdateRole overwrites the role of user id; last write wins.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind("UPDATE users SET role=? WHERE id=?"), role, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports 0 when the value is unchanged; confirm the row exists.
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
