package checkin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrCheckInNotFound  = errors.New("check-in not found")
	ErrAlreadyCheckedIn = errors.New("member already checked in today")
)

const checkInColumns = `id, member_id, subscription_id, check_in_time, check_in_status, denied_reason, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, memberID uuid.UUID, subscriptionID *uuid.UUID, status Status, deniedReason *string, at time.Time) (*CheckIn, error) {
	query := `
		INSERT INTO check_ins (member_id, subscription_id, check_in_time, check_in_status, denied_reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + checkInColumns

	var ci CheckIn
	err := r.db.GetContext(ctx, &ci, query, memberID, subscriptionID, at, status, deniedReason)
	if err != nil {
		// the partial unique index backstops the one-allowed-per-day rule
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}

	return &ci, nil
}

func (r *repository) HasAllowedCheckInBetween(ctx context.Context, memberID uuid.UUID, from, to time.Time) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM check_ins
			WHERE member_id = $1
			  AND check_in_status = 'allowed'
			  AND check_in_time >= $2
			  AND check_in_time < $3
		)
	`, memberID, from, to)
	return exists, err
}

func (r *repository) ListByMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]HistoryEntry, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM check_ins WHERE member_id = $1`, memberID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT c.id, c.member_id, c.subscription_id, c.check_in_time, c.check_in_status, c.denied_reason, c.created_at,
			s.start_date AS sub_start_date, s.end_date AS sub_end_date, p.title AS package_title
		FROM check_ins c
		LEFT JOIN subscriptions s ON s.id = c.subscription_id
		LEFT JOIN membership_packages p ON p.id = s.package_id
		WHERE c.member_id = $1
		ORDER BY c.check_in_time DESC
		LIMIT $2 OFFSET $3
	`

	entries := []HistoryEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, memberID, limit, offset); err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *repository) List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		where = `WHERE c.check_in_status = $1`
		args = append(args, status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM check_ins c `+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.member_id, c.subscription_id, c.check_in_time, c.check_in_status, c.denied_reason, c.created_at,
			m.name AS member_name
		FROM check_ins c
		JOIN members m ON m.id = c.member_id
		%s
		ORDER BY c.check_in_time DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	details := []Detail{}
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, 0, err
	}

	return details, total, nil
}
