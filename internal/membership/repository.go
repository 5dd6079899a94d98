package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var ErrPackageNotFound = errors.New("membership package not found")

const packageColumns = `id, title, description, price, duration_days, is_active, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, title string, description *string, price decimal.Decimal, durationDays int) (*Package, error) {
	query := `
		INSERT INTO membership_packages (title, description, price, duration_days)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + packageColumns

	var p Package
	err := r.db.GetContext(ctx, &p, query, title, description, price, durationDays)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Package, error) {
	return r.getOne(ctx, `SELECT `+packageColumns+` FROM membership_packages WHERE id = $1`, id)
}

func (r *repository) GetActiveByID(ctx context.Context, id uuid.UUID) (*Package, error) {
	return r.getOne(ctx, `SELECT `+packageColumns+` FROM membership_packages WHERE id = $1 AND is_active = TRUE`, id)
}

func (r *repository) getOne(ctx context.Context, query string, id uuid.UUID) (*Package, error) {
	var p Package
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, search string, limit, offset int) ([]Package, int, error) {
	return r.list(ctx, "", search, limit, offset)
}

func (r *repository) ListActive(ctx context.Context, search string, limit, offset int) ([]Package, int, error) {
	return r.list(ctx, "is_active = TRUE", search, limit, offset)
}

func (r *repository) list(ctx context.Context, filter, search string, limit, offset int) ([]Package, int, error) {
	where := ""
	args := []interface{}{}

	switch {
	case filter != "" && search != "":
		where = `WHERE ` + filter + ` AND (title ILIKE $1 OR description ILIKE $1)`
		args = append(args, "%"+search+"%")
	case filter != "":
		where = `WHERE ` + filter
	case search != "":
		where = `WHERE title ILIKE $1 OR description ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM membership_packages `+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT %s FROM membership_packages %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		packageColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	packages := []Package{}
	if err := r.db.SelectContext(ctx, &packages, query, args...); err != nil {
		return nil, 0, err
	}

	return packages, total, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, req UpdatePackageRequest) (*Package, error) {
	var price *decimal.Decimal
	if req.Price != nil {
		parsed, err := decimal.NewFromString(*req.Price)
		if err != nil {
			return nil, err
		}
		price = &parsed
	}

	query := `
		UPDATE membership_packages
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    price = COALESCE($4, price),
		    duration_days = COALESCE($5, duration_days),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + packageColumns

	var p Package
	err := r.db.GetContext(ctx, &p, query, id, req.Title, req.Description, price, req.DurationDays)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Package, error) {
	query := `
		UPDATE membership_packages
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + packageColumns

	var p Package
	err := r.db.GetContext(ctx, &p, query, id, active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM membership_packages WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPackageNotFound
	}

	return nil
}
