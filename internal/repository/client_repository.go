package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/inspection-case-backend/internal/model"
)

// ClientRepo stores commissioning companies in the `clients` table.
type ClientRepo struct {
	db      *sql.DB
	dialect Dialect
}

func NewClientRepo(db *sql.DB, d Dialect) *ClientRepo { return &ClientRepo{db: db, dialect: d} }

const clientColumns = "id, company_name, contact_name, email, phone, address, created_at"

// Insert persists c and reloads it to pick up id and created_at.
func (r *ClientRepo) Insert(ctx context.Context, c *model.Client) error {
	id, err := r.dialect.insert(ctx, r.db,
		"INSERT INTO clients (company_name, contact_name, email, phone, address) VALUES (?,?,?,?,?)",
		c.CompanyName, c.ContactName, c.Email, c.Phone, c.Address)
	if err != nil {
		return err
	}
	var out model.Client
	err = r.db.QueryRowContext(ctx, r.dialect.Rebind("SELECT "+clientColumns+" FROM clients WHERE id=?"), id).
		Scan(&out.ID, &out.CompanyName, &out.ContactName, &out.Email, &out.Phone, &out.Address, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	*c = out
	return nil
}

// List returns all clients ordered by id.
func (r *ClientRepo) List(ctx context.Context) ([]model.Client, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+clientColumns+" FROM clients ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Client{}
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.CompanyName, &c.ContactName, &c.Email, &c.Phone, &c.Address, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes the client if present.  Cases referencing it are kept.
func (r *ClientRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind("DELETE FROM clients WHERE id=?"), id)
	return err
}
