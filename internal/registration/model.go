package registration

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Registration is a member's request to join a package, waiting on an
// admin decision. The payment screenshot is the proof of bank transfer.
type Registration struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	MemberID          uuid.UUID  `db:"member_id" json:"member_id"`
	PackageID         uuid.UUID  `db:"package_id" json:"package_id"`
	Status            Status     `db:"status" json:"status"`
	PaymentScreenshot *string    `db:"payment_screenshot" json:"payment_screenshot,omitempty"`
	RejectReason      *string    `db:"reject_reason" json:"reject_reason,omitempty"`
	DecidedAt         *time.Time `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

type Detail struct {
	Registration
	MemberName   string     `db:"member_name" json:"member_name"`
	PackageTitle string     `db:"package_title" json:"package_title"`
	UserID       *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}
