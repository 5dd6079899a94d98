package trainer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var ErrTrainerNotFound = errors.New("trainer not found")

const trainerColumns = `id, name, specialization, bio, price_per_month, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, specialization string, bio *string, pricePerMonth decimal.Decimal) (*Trainer, error) {
	query := `
		INSERT INTO trainers (name, specialization, bio, price_per_month)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + trainerColumns

	var tr Trainer
	err := r.db.GetContext(ctx, &tr, query, name, specialization, bio, pricePerMonth)
	if err != nil {
		return nil, err
	}

	return &tr, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Trainer, error) {
	var tr Trainer
	err := r.db.GetContext(ctx, &tr, `SELECT `+trainerColumns+` FROM trainers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	return &tr, nil
}

func (r *repository) List(ctx context.Context, search string, limit, offset int) ([]Trainer, int, error) {
	where := ""
	args := []interface{}{}
	if search != "" {
		where = `WHERE name ILIKE $1 OR specialization ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM trainers `+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT %s FROM trainers %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		trainerColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	trainers := []Trainer{}
	if err := r.db.SelectContext(ctx, &trainers, query, args...); err != nil {
		return nil, 0, err
	}

	return trainers, total, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, req UpdateTrainerRequest) (*Trainer, error) {
	var price *decimal.Decimal
	if req.PricePerMonth != nil {
		parsed, err := decimal.NewFromString(*req.PricePerMonth)
		if err != nil {
			return nil, err
		}
		price = &parsed
	}

	query := `
		UPDATE trainers
		SET name = COALESCE($2, name),
		    specialization = COALESCE($3, specialization),
		    bio = COALESCE($4, bio),
		    price_per_month = COALESCE($5, price_per_month),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + trainerColumns

	var tr Trainer
	err := r.db.GetContext(ctx, &tr, query, id, req.Name, req.Specialization, req.Bio, price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	return &tr, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trainers WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTrainerNotFound
	}

	return nil
}
