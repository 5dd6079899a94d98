package trainersub

import (
	"time"

	"github.com/Linn-Htet123/mini-gym-api/internal/subscription"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrainerSubscription books a personal trainer for a whole number of
// months. Amount is the trainer's monthly rate times the months,
// captured at purchase time.
type TrainerSubscription struct {
	ID              uuid.UUID           `db:"id" json:"id"`
	MemberID        uuid.UUID           `db:"member_id" json:"member_id"`
	TrainerID       uuid.UUID           `db:"trainer_id" json:"trainer_id"`
	StartDate       time.Time           `db:"start_date" json:"start_date"`
	EndDate         time.Time           `db:"end_date" json:"end_date"`
	Months          int                 `db:"months" json:"months"`
	Amount          decimal.Decimal     `db:"amount" json:"amount"`
	PaymentProofURL *string             `db:"payment_proof_url" json:"payment_proof_url,omitempty"`
	Status          subscription.Status `db:"status" json:"status"`
	CreatedAt       time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at" json:"updated_at"`
}

type Detail struct {
	TrainerSubscription
	MemberName  string     `db:"member_name" json:"member_name"`
	TrainerName string     `db:"trainer_name" json:"trainer_name"`
	UserID      *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
}

type CreateRequest struct {
	MemberID     string  `json:"member_id" binding:"required,uuid"`
	TrainerID    string  `json:"trainer_id" binding:"required,uuid"`
	Months       int     `json:"months" binding:"required,min=1"`
	PaymentProof *string `json:"payment_proof,omitempty"`
}
