package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records every successful admin mutation: who did what to which
// row. A failed authorization check never produces an audit row.
type AuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ActorID     uuid.UUID `gorm:"type:uuid;index;not null" json:"actor_id"`
	Action      string    `gorm:"size:50;not null" json:"action"`
	TargetTable string    `gorm:"size:50;not null" json:"target_table"`
	TargetID    string    `gorm:"size:64" json:"target_id"`
	Payload     string    `gorm:"type:text" json:"payload"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
