package membership

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, title string, description *string, price decimal.Decimal, durationDays int) (*Package, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Package, error)
	// GetActiveByID returns the package only when it is active.
	GetActiveByID(ctx context.Context, id uuid.UUID) (*Package, error)
	List(ctx context.Context, search string, limit, offset int) ([]Package, int, error)
	ListActive(ctx context.Context, search string, limit, offset int) ([]Package, int, error)
	Update(ctx context.Context, id uuid.UUID, req UpdatePackageRequest) (*Package, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*Package, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
