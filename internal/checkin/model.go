package checkin

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusAllowed Status = "allowed"
	StatusDenied  Status = "denied"
)

// Denial reasons stored on denied rows and echoed to the member.
const (
	ReasonNoActiveSubscription = "No active subscription found"
	ReasonSubscriptionExpired  = "Subscription expired"
)

// CheckIn is one gate attempt, allowed or denied. Denied rows keep the
// reason; allowed rows keep the subscription that admitted the member.
type CheckIn struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	MemberID       uuid.UUID  `db:"member_id" json:"member_id"`
	SubscriptionID *uuid.UUID `db:"subscription_id" json:"subscription_id,omitempty"`
	CheckInTime    time.Time  `db:"check_in_time" json:"check_in_time"`
	Status         Status     `db:"check_in_status" json:"status"`
	DeniedReason   *string    `db:"denied_reason" json:"denied_reason,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

type Detail struct {
	CheckIn
	MemberName string `db:"member_name" json:"member_name"`
}

// HistoryEntry is a check-in row joined with the subscription and
// package that admitted it. The joined fields stay nil on denied rows
// and on rows whose subscription was deleted.
type HistoryEntry struct {
	CheckIn
	SubscriptionStart *time.Time `db:"sub_start_date" json:"subscription_start_date,omitempty"`
	SubscriptionEnd   *time.Time `db:"sub_end_date" json:"subscription_end_date,omitempty"`
	PackageTitle      *string    `db:"package_title" json:"package_title,omitempty"`
}

type MemberSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// SubscriptionSummary describes the subscription that admitted the
// member, including how many days it still has.
type SubscriptionSummary struct {
	ID            uuid.UUID `json:"id"`
	PackageID     uuid.UUID `json:"package_id"`
	PackageTitle  string    `json:"package_title"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	DaysRemaining int       `json:"days_remaining"`
}

// Result is what the gate sees: the recorded attempt, who it was for,
// and the admitting subscription when the member got in.
type Result struct {
	CheckIn      CheckIn              `json:"check_in"`
	Allowed      bool                 `json:"allowed"`
	Member       MemberSummary        `json:"member"`
	Subscription *SubscriptionSummary `json:"subscription,omitempty"`
	DeniedReason string               `json:"denied_reason,omitempty"`
}

type CheckInRequest struct {
	MemberID string `json:"member_id" binding:"required,uuid"`
}
