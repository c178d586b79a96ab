package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/inspection-case-backend/internal/model"
)

// CaseRepo stores inspection cases in the relational `cases` table.  The
// case number is derived from the surrogate key right after the insert.
type CaseRepo struct {
	db      *sql.DB
	dialect Dialect
}

func NewCaseRepo(db *sql.DB, d Dialect) *CaseRepo { return &CaseRepo{db: db, dialect: d} }

const caseColumns = `id, case_number, title, description, inspector_id, inspector_name, client_id,
	priority, status, file_reference, order_date, deadline, location, internal_note, created_at`

func scanCase(row interface{ Scan(...any) error }) (model.Case, error) {
	var c model.Case
	err := row.Scan(&c.ID, &c.CaseNumber, &c.Title, &c.Description, &c.InspectorID, &c.InspectorName,
		&c.ClientID, &c.Priority, &c.Status, &c.FileReference, &c.OrderDate, &c.Deadline,
		&c.Location, &c.InternalNote, &c.CreatedAt)
	return c, err
}

// Insert persists c, assigns its id and case number and reloads the row so
// the caller receives database defaults such as created_at.  The three
// statements share one transaction so a failure never leaves a row without
// its case number.
func (r *CaseRepo) Insert(ctx context.Context, c *model.Case) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO cases (case_number, title, description, inspector_id, inspector_name, client_id,
		priority, status, file_reference, order_date, deadline, location, internal_note)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`
	id, err := r.dialect.insert(ctx, tx, q,
		"", c.Title, c.Description, c.InspectorID, c.InspectorName, c.ClientID,
		c.Priority, c.Status, c.FileReference, c.OrderDate, c.Deadline, c.Location, c.InternalNote)
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, r.dialect.Rebind("UPDATE cases SET case_number=? WHERE id=?"),
		model.FormatCaseNumber(id), id); err != nil {
		return err
	}
	stored, err := r.get(ctx, tx, id)
	if err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	*c = stored
	return nil
}

// Get fetches a case by id.
func (r *CaseRepo) Get(ctx context.Context, id uint64) (model.Case, error) {
	return r.get(ctx, r.db, id)
}

func (r *CaseRepo) get(ctx context.Context, q querier, id uint64) (model.Case, error) {
	c, err := scanCase(q.QueryRowContext(ctx,
		r.dialect.Rebind("SELECT "+caseColumns+" FROM cases WHERE id=?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Case{}, ErrNotFound
	}
	return c, err
}

// List returns all cases ordered by id.
func (r *CaseRepo) List(ctx context.Context) ([]model.Case, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+caseColumns+" FROM cases ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Case{}
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update applies p to case id and returns the stored result.  Concurrent
// updates are last-write-wins.
func (r *CaseRepo) Update(ctx context.Context, id uint64, p model.CasePatch) (model.Case, error) {
	c, err := r.Get(ctx, id)
	if err != nil {
		return model.Case{}, err
	}
	p.Apply(&c)
	if _, err := r.db.ExecContext(ctx,
		r.dialect.Rebind("UPDATE cases SET title=?, description=?, status=?, priority=? WHERE id=?"),
		c.Title, c.Description, c.Status, c.Priority, id); err != nil {
		return model.Case{}, err
	}
	return c, nil
}

// Delete removes the case if present and reports whether a row was removed.
func (r *CaseRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind("DELETE FROM cases WHERE id=?"), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
