package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies what happened. Stored verbatim in the notifications
// table and sent to clients over the stream.
type Type string

const (
	TypeRegistrationSubmitted Type = "registration_submitted"
	TypeRegistrationApproved  Type = "registration_approved"
	TypeRegistrationRejected  Type = "registration_rejected"
	TypeSubscriptionExpiring  Type = "subscription_expiring"
	TypeSubscriptionExpired   Type = "subscription_expired"
	TypeMembershipRegistered  Type = "membership_registered"
	TypeCheckInDenied         Type = "check_in_denied"
	TypeCheckInSuccess        Type = "check_in_success"
	TypeAnnouncement          Type = "announcement"
)

type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Type      Type      `db:"type" json:"type"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Event is the queued form of a notification, one per recipient.
// Tries counts delivery attempts so the dispatcher can give up.
type Event struct {
	UserID  uuid.UUID `json:"user_id"`
	Type    Type      `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type BroadcastRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}
