package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrMemberNotFound = errors.New("member not found")

const memberColumns = `id, name, phone, address, emergency_contact, user_id, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req CreateMemberRequest) (*Member, error) {
	query := `
		INSERT INTO members (name, phone, address, emergency_contact, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + memberColumns

	var userID *uuid.UUID
	if req.UserID != nil {
		parsed, err := uuid.Parse(*req.UserID)
		if err != nil {
			return nil, err
		}
		userID = &parsed
	}

	var m Member
	err := r.db.GetContext(ctx, &m, query, req.Name, req.Phone, req.Address, req.EmergencyContact, userID)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	var m Member
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE user_id = $1`

	var m Member
	err := r.db.GetContext(ctx, &m, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) List(ctx context.Context, search string, limit, offset int) ([]Member, int, error) {
	where := ""
	args := []interface{}{}
	if search != "" {
		where = `WHERE name ILIKE $1 OR phone ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM members ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT ` + memberColumns + ` FROM members ` + where +
		` ORDER BY created_at DESC` +
		` LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	args = append(args, limit, offset)

	members := []Member{}
	if err := r.db.SelectContext(ctx, &members, listQuery, args...); err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*Member, error) {
	query := `
		UPDATE members
		SET name = COALESCE($2, name),
		    phone = COALESCE($3, phone),
		    address = COALESCE($4, address),
		    emergency_contact = COALESCE($5, emergency_contact),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + memberColumns

	var m Member
	err := r.db.GetContext(ctx, &m, query, id, req.Name, req.Phone, req.Address, req.EmergencyContact)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
