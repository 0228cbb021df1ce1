package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReferralTransaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReferrerID    string          `gorm:"size:64;not null;index"`
	InvitedUserID string          `gorm:"size:64;not null;index"`
	Tier          int             `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,9);not null"`
	CreatedAt     time.Time
}

// Registration is an append-only audit row, never read back on startup.
type Registration struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"size:64;not null;uniqueIndex"`
	DisplayName string    `gorm:"size:255"`
	TeamAddress string    `gorm:"size:64;not null"`
	ReferredBy  *string   `gorm:"size:64;index"`
	CreatedAt   time.Time
}
