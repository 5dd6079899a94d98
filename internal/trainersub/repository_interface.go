package trainersub

import (
	"context"
	"time"

	"github.com/Linn-Htet123/mini-gym-api/internal/subscription"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, memberID, trainerID uuid.UUID, start, end time.Time, months int, amount decimal.Decimal, paymentProof *string) (*TrainerSubscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TrainerSubscription, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to subscription.Status) (bool, error)
	SetStatus(ctx context.Context, id uuid.UUID, to subscription.Status) error
	FindActiveByMember(ctx context.Context, memberID uuid.UUID) (*TrainerSubscription, error)
	FindExpiredActive(ctx context.Context, asOf time.Time) ([]Detail, error)
	FindExpiringBetween(ctx context.Context, from, to time.Time) ([]Detail, error)
	List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
