package subscription

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// Subscription ties a member to a package for a date range. Dates are
// calendar dates stored at midnight; the end date is inclusive. The
// registration link is set only on subscriptions spawned by an
// approval, and each registration spawns at most one subscription.
// PaymentAmount freezes the package price at approval time.
type Subscription struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	MemberID        uuid.UUID       `db:"member_id" json:"member_id"`
	PackageID       uuid.UUID       `db:"package_id" json:"package_id"`
	RegistrationID  *uuid.UUID      `db:"registration_id" json:"registration_id,omitempty"`
	StartDate       time.Time       `db:"start_date" json:"start_date"`
	EndDate         time.Time       `db:"end_date" json:"end_date"`
	Status          Status          `db:"status" json:"status"`
	PaymentAmount   decimal.Decimal `db:"payment_amount" json:"payment_amount"`
	PaymentProofURL *string         `db:"payment_proof_url" json:"payment_proof_url,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// Detail is the admin list row with the joined member and package.
type Detail struct {
	Subscription
	MemberName   string     `db:"member_name" json:"member_name"`
	PackageTitle string     `db:"package_title" json:"package_title"`
	UserID       *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
}

type CreateSubscriptionRequest struct {
	MemberID       string  `json:"member_id" binding:"required,uuid"`
	PackageID      string  `json:"package_id" binding:"required,uuid"`
	RegistrationID string  `json:"registration_id" binding:"omitempty,uuid"`
	PaymentProof   *string `json:"payment_proof,omitempty"`
}
