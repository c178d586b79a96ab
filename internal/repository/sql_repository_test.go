package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/inspection-case-backend/internal/model"
)

var userCols = []string{"id", "name", "email", "password_hash", "role", "is_active", "created_at"}

func TestRebind(t *testing.T) {
	q := "UPDATE users SET role=? WHERE id=?"
	assert.Equal(t, q, MySQL.Rebind(q))
	assert.Equal(t, "UPDATE users SET role=$1 WHERE id=$2", Postgres.Rebind(q))
}

func TestParseDialect(t *testing.T) {
	d, ok := ParseDialect("MySQL")
	assert.True(t, ok)
	assert.Equal(t, MySQL, d)
	d, ok = ParseDialect("postgres")
	assert.True(t, ok)
	assert.Equal(t, Postgres, d)
	_, ok = ParseDialect("memory")
	assert.False(t, ok)
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, IsDuplicate(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, IsDuplicate(&mysql.MySQLError{Number: 1146}))
	assert.True(t, IsDuplicate(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsDuplicate(errors.New("boom")))
}

func TestUserRepoInsertMySQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewUserRepo(db, MySQL)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, role, is_active) VALUES (?,?,?,?,?)")).
		WithArgs("Alice", "alice@x.com", "hash", "CASEWORKER", true).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id,name,email,password_hash,role,is_active,created_at FROM users WHERE id=? LIMIT 1")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(7, "Alice", "alice@x.com", "hash", "CASEWORKER", true, now))

	u := model.User{Name: "Alice", Email: "alice@x.com", PasswordHash: "hash", Role: "CASEWORKER", IsActive: true}
	require.NoError(t, r.Insert(context.Background(), &u))
	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, now, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoInsertDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewUserRepo(db, MySQL)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice@x.com'"})

	u := model.User{Name: "Alice", Email: "alice@x.com"}
	assert.ErrorIs(t, r.Insert(context.Background(), &u), ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoFindByEmailNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewUserRepo(db, Postgres)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=$1 LIMIT 1")).
		WithArgs("ghost@x.com").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err = r.FindByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoDeleteMissingRowIsNotAnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewUserRepo(db, MySQL)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id=?")).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, r.Delete(context.Background(), 99))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoUpdateRoleMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewUserRepo(db, MySQL)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role=? WHERE id=?")).
		WithArgs("ADMIN", 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=? LIMIT 1")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(userCols))

	assert.ErrorIs(t, r.UpdateRole(context.Background(), 5, "ADMIN"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepoInsertAssignsNumberFromID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewCaseRepo(db, MySQL)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO cases").WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE cases SET case_number=? WHERE id=?")).
		WithArgs("CASE-00012", 12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM cases WHERE id=?")).
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "case_number", "title", "description", "inspector_id", "inspector_name", "client_id",
			"priority", "status", "file_reference", "order_date", "deadline", "location", "internal_note", "created_at",
		}).AddRow(12, "CASE-00012", nil, "Water damage", 3, "Ingo", nil,
			"MEDIUM", "OPEN", "AZ-1", "2026-10-19", nil, nil, nil, now))
	mock.ExpectCommit()

	c := model.Case{Description: "Water damage", InspectorID: 3, InspectorName: "Ingo", Priority: "MEDIUM", Status: "OPEN", OrderDate: "2026-10-19"}
	require.NoError(t, r.Insert(context.Background(), &c))
	assert.Equal(t, uint64(12), c.ID)
	assert.Equal(t, "CASE-00012", c.CaseNumber)
	assert.Nil(t, c.ClientID)
	assert.Nil(t, c.Title)
	require.NotNil(t, c.FileReference)
	assert.Equal(t, "AZ-1", *c.FileReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepoInsertRollsBackWhenNumberingFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewCaseRepo(db, Postgres)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)INSERT INTO cases.*RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE cases SET case_number=$1 WHERE id=$2")).
		WithArgs("CASE-00005", 5).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	c := model.Case{Description: "Storm", InspectorID: 1, InspectorName: "Ingo", Priority: "MEDIUM", Status: "OPEN", OrderDate: "2026-10-19"}
	assert.EqualError(t, r.Insert(context.Background(), &c), "connection reset")
	assert.Zero(t, c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepoDeleteReportsRemoval(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewCaseRepo(db, MySQL)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cases WHERE id=?")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cases WHERE id=?")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := r.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = r.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepoInsertPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewClientRepo(db, Postgres)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO clients (company_name, contact_name, email, phone, address) VALUES ($1,$2,$3,$4,$5) RETURNING id")).
		WithArgs("ACME GmbH", nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta("FROM clients WHERE id=$1")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_name", "contact_name", "email", "phone", "address", "created_at"}).
			AddRow(4, "ACME GmbH", nil, nil, nil, nil, now))

	c := model.Client{CompanyName: "ACME GmbH"}
	require.NoError(t, r.Insert(context.Background(), &c))
	assert.Equal(t, uint64(4), c.ID)
	assert.Nil(t, c.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}
