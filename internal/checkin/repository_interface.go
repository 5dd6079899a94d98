package checkin

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, memberID uuid.UUID, subscriptionID *uuid.UUID, status Status, deniedReason *string, at time.Time) (*CheckIn, error)
	// HasAllowedCheckInBetween reports whether the member already holds
	// an allowed check-in inside [from, to).
	HasAllowedCheckInBetween(ctx context.Context, memberID uuid.UUID, from, to time.Time) (bool, error)
	// ListByMember joins each row with the subscription and package
	// that admitted it, newest first.
	ListByMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]HistoryEntry, int, error)
	List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error)
}
