package trainer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Trainer struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	Specialization string          `db:"specialization" json:"specialization"`
	Bio            *string         `db:"bio" json:"bio,omitempty"`
	PricePerMonth  decimal.Decimal `db:"price_per_month" json:"price_per_month"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

type CreateTrainerRequest struct {
	Name           string  `json:"name" binding:"required"`
	Specialization string  `json:"specialization" binding:"required"`
	Bio            *string `json:"bio"`
	PricePerMonth  string  `json:"price_per_month" binding:"required"`
}

type UpdateTrainerRequest struct {
	Name           *string `json:"name"`
	Specialization *string `json:"specialization"`
	Bio            *string `json:"bio"`
	PricePerMonth  *string `json:"price_per_month"`
}
