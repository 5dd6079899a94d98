package membership

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Package is a purchasable membership plan. Price is stored as a
// numeric(10,2); duration is whole calendar days.
type Package struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	Title        string          `db:"title" json:"title"`
	Description  *string         `db:"description" json:"description,omitempty"`
	Price        decimal.Decimal `db:"price" json:"price"`
	DurationDays int             `db:"duration_days" json:"duration_days"`
	IsActive     bool            `db:"is_active" json:"is_active"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

type CreatePackageRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  *string `json:"description"`
	Price        string  `json:"price" binding:"required"`
	DurationDays int     `json:"duration_days" binding:"required,min=1"`
}

type UpdatePackageRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Price        *string `json:"price"`
	DurationDays *int    `json:"duration_days"`
}

type UpdatePackageStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
