package trainer

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, name, specialization string, bio *string, pricePerMonth decimal.Decimal) (*Trainer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Trainer, error)
	List(ctx context.Context, search string, limit, offset int) ([]Trainer, int, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateTrainerRequest) (*Trainer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
