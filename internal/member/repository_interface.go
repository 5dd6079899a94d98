package member

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, req CreateMemberRequest) (*Member, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Member, error)
	List(ctx context.Context, search string, limit, offset int) ([]Member, int, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
