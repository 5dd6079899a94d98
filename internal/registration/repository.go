package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrRegistrationNotFound = errors.New("registration not found")

const registrationColumns = `id, member_id, package_id, status, payment_screenshot, reject_reason, decided_at, created_at, updated_at`

const detailColumns = `r.id, r.member_id, r.package_id, r.status, r.payment_screenshot, r.reject_reason, r.decided_at, r.created_at, r.updated_at,
	m.name AS member_name, p.title AS package_title, m.user_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, memberID, packageID uuid.UUID, paymentScreenshot *string) (*Registration, error) {
	query := `
		INSERT INTO registrations (member_id, package_id, status, payment_screenshot)
		VALUES ($1, $2, 'pending', $3)
		RETURNING ` + registrationColumns

	var reg Registration
	err := r.db.GetContext(ctx, &reg, query, memberID, packageID, paymentScreenshot)
	if err != nil {
		return nil, err
	}

	return &reg, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Registration, error) {
	var reg Registration
	err := r.db.GetContext(ctx, &reg, `SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	return &reg, nil
}

func (r *repository) Decide(ctx context.Context, id uuid.UUID, status Status, rejectReason *string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE registrations
		SET status = $2, reject_reason = $3, decided_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, id, status, rejectReason)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *repository) List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		where = `WHERE r.status = $1`
		args = append(args, status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM registrations r `+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM registrations r
		JOIN members m ON m.id = r.member_id
		JOIN membership_packages p ON p.id = r.package_id
		%s
		ORDER BY r.created_at DESC
		LIMIT $%d OFFSET $%d
	`, detailColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	details := []Detail{}
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, 0, err
	}

	return details, total, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]Registration, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM registrations WHERE member_id = $1`, memberID); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE member_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	regs := []Registration{}
	if err := r.db.SelectContext(ctx, &regs, query, memberID, limit, offset); err != nil {
		return nil, 0, err
	}

	return regs, total, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRegistrationNotFound
	}

	return nil
}
