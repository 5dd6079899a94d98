package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateParams carries everything the insert records. RegistrationID
// and PaymentProof stay nil on subscriptions without a registration
// precursor.
type CreateParams struct {
	MemberID       uuid.UUID
	PackageID      uuid.UUID
	RegistrationID *uuid.UUID
	Start          time.Time
	End            time.Time
	Amount         decimal.Decimal
	PaymentProof   *string
}

type Repository interface {
	Create(ctx context.Context, p CreateParams) (*Subscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	// UpdateStatus transitions only rows currently in the from status.
	// Returns false when the row was already past that status, which
	// makes expiry idempotent under concurrent passes.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)
	// SetStatus overwrites the status unconditionally.
	SetStatus(ctx context.Context, id uuid.UUID, to Status) error
	// FindActiveByMember returns the newest active subscription.
	FindActiveByMember(ctx context.Context, memberID uuid.UUID) (*Subscription, error)
	FindExpiredActive(ctx context.Context, asOf time.Time) ([]Detail, error)
	FindExpiringBetween(ctx context.Context, from, to time.Time) ([]Detail, error)
	List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
