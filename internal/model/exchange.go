package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ExchangePending   = "pending"
	ExchangeApproved  = "approved"
	ExchangeCompleted = "completed"
	ExchangeRejected  = "rejected"
)

// ExchangeRequest is the transactional record of a points-for-product
// exchange. TotalPrice is fixed at creation time and never recomputed.
// Status only moves pending -> approved -> completed or pending -> rejected.
type ExchangeRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"-"`
	ProductID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"product_id"`
	Product     Product    `gorm:"foreignKey:ProductID" json:"product"`
	Quantity    int        `gorm:"not null;default:1" json:"quantity"`
	TotalPrice  int        `gorm:"not null" json:"total_price"`
	Status      string     `gorm:"size:20;not null;default:pending" json:"status"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	ProcessedBy *uuid.UUID `gorm:"type:uuid" json:"processed_by,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (e *ExchangeRequest) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
