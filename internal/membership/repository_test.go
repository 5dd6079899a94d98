package membership

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewRepository(sqlxDB), mock, func() { sqlxDB.Close() }
}

func packageRows(id uuid.UUID, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "title", "description", "price", "duration_days", "is_active", "created_at", "updated_at"}).
		AddRow(id, "Monthly", nil, "50000.00", 30, active, now, now)
}

func TestCreatePackage(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	id := uuid.New()
	price := decimal.RequireFromString("50000.00")
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO membership_packages (title, description, price, duration_days) VALUES ($1, $2, $3, $4) RETURNING id, title, description, price, duration_days, is_active, created_at, updated_at")).
		WithArgs("Monthly", nil, price, 30).
		WillReturnRows(packageRows(id, true))

	p, err := repo.Create(context.Background(), "Monthly", nil, price, 30)
	require.NoError(t, err)
	require.Equal(t, id, p.ID)
	require.True(t, p.Price.Equal(price))
}

func TestGetActivePackageByID(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description, price, duration_days, is_active, created_at, updated_at FROM membership_packages WHERE id = $1 AND is_active = TRUE")).
		WithArgs(id).
		WillReturnRows(packageRows(id, true))

	p, err := repo.GetActiveByID(context.Background(), id)
	require.NoError(t, err)
	require.True(t, p.IsActive)

	// inactive packages are invisible to the active lookup
	inactive := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description, price, duration_days, is_active, created_at, updated_at FROM membership_packages WHERE id = $1 AND is_active = TRUE")).
		WithArgs(inactive).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetActiveByID(context.Background(), inactive)
	require.ErrorIs(t, err, ErrPackageNotFound)
}

func TestListActivePackages(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM membership_packages WHERE is_active = TRUE")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description, price, duration_days, is_active, created_at, updated_at FROM membership_packages WHERE is_active = TRUE ORDER BY created_at DESC LIMIT $1 OFFSET $2")).
		WithArgs(10, 0).
		WillReturnRows(packageRows(uuid.New(), true))

	packages, total, err := repo.ListActive(context.Background(), "", 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, packages, 1)
}

func TestSetPackageActive(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE membership_packages SET is_active = $2, updated_at = NOW() WHERE id = $1 RETURNING id, title, description, price, duration_days, is_active, created_at, updated_at")).
		WithArgs(id, false).
		WillReturnRows(packageRows(id, false))

	p, err := repo.SetActive(context.Background(), id, false)
	require.NoError(t, err)
	require.False(t, p.IsActive)
}
