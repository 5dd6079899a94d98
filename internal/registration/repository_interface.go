package registration

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, memberID, packageID uuid.UUID, paymentScreenshot *string) (*Registration, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Registration, error)
	// Decide moves a pending registration to its final status. Returns
	// false when the registration was already decided.
	Decide(ctx context.Context, id uuid.UUID, status Status, rejectReason *string) (bool, error)
	List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error)
	ListByMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]Registration, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
