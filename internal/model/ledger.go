package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReasonCheckin         = "checkin"
	ReasonGame            = "game"
	ReasonGiftCode        = "gift_code"
	ReasonExchangeSpend   = "exchange_spend"
	ReasonExchangeRefund  = "exchange_refund"
	ReasonAdminAdjustment = "admin_adjustment"
)

// LedgerEntry is an immutable record of a single point-value change for one
// account. Entries are append-only: corrections are posted as offsetting
// admin_adjustment entries, never as updates or deletes.
type LedgerEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index:idx_ledger_user_date,priority:1;not null" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	Amount      int       `gorm:"not null" json:"amount"` // positive = credit, negative = debit
	Reason      string    `gorm:"size:50;not null" json:"reason"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"index:idx_ledger_user_date,priority:2" json:"created_at"`
}
