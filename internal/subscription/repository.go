package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

const subscriptionColumns = `id, member_id, package_id, registration_id, start_date, end_date, status, payment_amount, payment_proof_url, created_at, updated_at`

const detailColumns = `s.id, s.member_id, s.package_id, s.registration_id, s.start_date, s.end_date, s.status, s.payment_amount, s.payment_proof_url, s.created_at, s.updated_at,
	m.name AS member_name, p.title AS package_title, m.user_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p CreateParams) (*Subscription, error) {
	query := `
		INSERT INTO subscriptions (member_id, package_id, registration_id, start_date, end_date, status, payment_amount, payment_proof_url)
		VALUES ($1, $2, $3, $4, $5, 'active', $6, $7)
		RETURNING ` + subscriptionColumns

	var s Subscription
	err := r.db.GetContext(ctx, &s, query,
		p.MemberID, p.PackageID, p.RegistrationID, p.Start, p.End, p.Amount, p.PaymentProof)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	var s Subscription
	err := r.db.GetContext(ctx, &s, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
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

func (r *repository) SetStatus(ctx context.Context, id uuid.UUID, to Status) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
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
		return ErrSubscriptionNotFound
	}

	return nil
}

func (r *repository) FindActiveByMember(ctx context.Context, memberID uuid.UUID) (*Subscription, error) {
	var s Subscription
	err := r.db.GetContext(ctx, &s, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE member_id = $1 AND status = 'active'
		ORDER BY created_at DESC
		LIMIT 1
	`, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *repository) FindExpiredActive(ctx context.Context, asOf time.Time) ([]Detail, error) {
	details := []Detail{}
	err := r.db.SelectContext(ctx, &details, `
		SELECT `+detailColumns+`
		FROM subscriptions s
		JOIN members m ON m.id = s.member_id
		JOIN membership_packages p ON p.id = s.package_id
		WHERE s.status = 'active' AND s.end_date < $1
		ORDER BY s.end_date ASC
	`, asOf)
	return details, err
}

func (r *repository) FindExpiringBetween(ctx context.Context, from, to time.Time) ([]Detail, error) {
	details := []Detail{}
	err := r.db.SelectContext(ctx, &details, `
		SELECT `+detailColumns+`
		FROM subscriptions s
		JOIN members m ON m.id = s.member_id
		JOIN membership_packages p ON p.id = s.package_id
		WHERE s.status = 'active' AND s.end_date >= $1 AND s.end_date <= $2
		ORDER BY s.end_date ASC
	`, from, to)
	return details, err
}

func (r *repository) List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		where = `WHERE s.status = $1`
		args = append(args, status)
	}

	countQuery := `SELECT COUNT(*) FROM subscriptions s ` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM subscriptions s
		JOIN members m ON m.id = s.member_id
		JOIN membership_packages p ON p.id = s.package_id
		%s
		ORDER BY s.created_at DESC
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
	result, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}
