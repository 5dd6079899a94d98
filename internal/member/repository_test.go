package member

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewRepository(sqlxDB), mock, func() { sqlxDB.Close() }
}

func memberRows(id uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "phone", "address", "emergency_contact", "user_id", "created_at", "updated_at"}).
		AddRow(id, "Aung Aung", "+95911111111", nil, nil, nil, now, now)
}

func TestCreateMember(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO members (name, phone, address, emergency_contact, user_id) VALUES ($1, $2, $3, $4, $5) RETURNING id, name, phone, address, emergency_contact, user_id, created_at, updated_at")).
		WithArgs("Aung Aung", "+95911111111", nil, nil, nil).
		WillReturnRows(memberRows(id))

	m, err := repo.Create(context.Background(), CreateMemberRequest{Name: "Aung Aung", Phone: "+95911111111"})
	require.NoError(t, err)
	require.Equal(t, id, m.ID)
}

func TestGetMemberByID(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, phone, address, emergency_contact, user_id, created_at, updated_at FROM members WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(memberRows(id))

	m, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "Aung Aung", m.Name)

	// missing member maps to ErrMemberNotFound
	missing := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, phone, address, emergency_contact, user_id, created_at, updated_at FROM members WHERE id = $1")).
		WithArgs(missing).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByID(context.Background(), missing)
	require.ErrorIs(t, err, ErrMemberNotFound)
}

func TestListMembersWithSearch(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM members WHERE name ILIKE $1 OR phone ILIKE $1")).
		WithArgs("%aung%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, phone, address, emergency_contact, user_id, created_at, updated_at FROM members WHERE name ILIKE $1 OR phone ILIKE $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs("%aung%", 10, 0).
		WillReturnRows(memberRows(uuid.New()))

	members, total, err := repo.List(context.Background(), "aung", 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, members, 1)
}

func TestDeleteMember(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM members WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), id))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM members WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), id), ErrMemberNotFound)
}
