package trainersub

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Linn-Htet123/mini-gym-api/internal/subscription"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var ErrTrainerSubNotFound = errors.New("trainer subscription not found")

const trainerSubColumns = `id, member_id, trainer_id, start_date, end_date, months, amount, payment_proof_url, status, created_at, updated_at`

const detailColumns = `ts.id, ts.member_id, ts.trainer_id, ts.start_date, ts.end_date, ts.months, ts.amount, ts.payment_proof_url, ts.status, ts.created_at, ts.updated_at,
	m.name AS member_name, t.name AS trainer_name, m.user_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, memberID, trainerID uuid.UUID, start, end time.Time, months int, amount decimal.Decimal, paymentProof *string) (*TrainerSubscription, error) {
	query := `
		INSERT INTO trainer_subscriptions (member_id, trainer_id, start_date, end_date, months, amount, payment_proof_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'active')
		RETURNING ` + trainerSubColumns

	var ts TrainerSubscription
	err := r.db.GetContext(ctx, &ts, query, memberID, trainerID, start, end, months, amount, paymentProof)
	if err != nil {
		return nil, err
	}

	return &ts, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*TrainerSubscription, error) {
	var ts TrainerSubscription
	err := r.db.GetContext(ctx, &ts, `SELECT `+trainerSubColumns+` FROM trainer_subscriptions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainerSubNotFound
		}
		return nil, err
	}

	return &ts, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to subscription.Status) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE trainer_subscriptions
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *repository) SetStatus(ctx context.Context, id uuid.UUID, to subscription.Status) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE trainer_subscriptions
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`, id, to)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTrainerSubNotFound
	}

	return nil
}

func (r *repository) FindActiveByMember(ctx context.Context, memberID uuid.UUID) (*TrainerSubscription, error) {
	var ts TrainerSubscription
	err := r.db.GetContext(ctx, &ts, `
		SELECT `+trainerSubColumns+`
		FROM trainer_subscriptions
		WHERE member_id = $1 AND status = 'active'
		ORDER BY created_at DESC
		LIMIT 1
	`, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainerSubNotFound
		}
		return nil, err
	}

	return &ts, nil
}

func (r *repository) FindExpiredActive(ctx context.Context, asOf time.Time) ([]Detail, error) {
	details := []Detail{}
	err := r.db.SelectContext(ctx, &details, `
		SELECT `+detailColumns+`
		FROM trainer_subscriptions ts
		JOIN members m ON m.id = ts.member_id
		JOIN trainers t ON t.id = ts.trainer_id
		WHERE ts.status = 'active' AND ts.end_date < $1
		ORDER BY ts.end_date ASC
	`, asOf)
	return details, err
}

func (r *repository) FindExpiringBetween(ctx context.Context, from, to time.Time) ([]Detail, error) {
	details := []Detail{}
	err := r.db.SelectContext(ctx, &details, `
		SELECT `+detailColumns+`
		FROM trainer_subscriptions ts
		JOIN members m ON m.id = ts.member_id
		JOIN trainers t ON t.id = ts.trainer_id
		WHERE ts.status = 'active' AND ts.end_date >= $1 AND ts.end_date <= $2
		ORDER BY ts.end_date ASC
	`, from, to)
	return details, err
}

func (r *repository) List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		where = `WHERE ts.status = $1`
		args = append(args, status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM trainer_subscriptions ts `+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM trainer_subscriptions ts
		JOIN members m ON m.id = ts.member_id
		JOIN trainers t ON t.id = ts.trainer_id
		%s
		ORDER BY ts.created_at DESC
		LIMIT $%d OFFSET $%d
	`, detailColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	details := []Detail{}
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, 0, err
	}

	return details, total, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trainer_subscriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTrainerSubNotFound
	}

	return nil
}
