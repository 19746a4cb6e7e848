package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GiftCode struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string     `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Points      int        `gorm:"not null" json:"points"`
	Description string     `gorm:"size:255" json:"description"`
	Active      bool       `gorm:"not null" json:"active"`
	ExpiresAt   time.Time  `gorm:"not null" json:"expires_at"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Redemptions []GiftCodeRedemption `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (g *GiftCode) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

func (g *GiftCode) Expired(now time.Time) bool {
	return !now.Before(g.ExpiresAt)
}

// GiftCodeRedemption records one account redeeming one code. The composite
// unique index is what enforces at-most-once redemption per account, even
// under concurrent redeem calls.
type GiftCodeRedemption struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GiftCodeID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_code_user;not null" json:"gift_code_id"`
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_code_user;not null" json:"user_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
