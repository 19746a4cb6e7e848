package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleVIP   = "vip"
	RoleAdmin = "admin"

	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusInactive  = "inactive"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// User is the account entity: identity, role, and the cached points balance.
// Points is only ever mutated through the ledger repository, which keeps it
// equal to the sum of the account's ledger entries.
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username      string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email         string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash  string     `gorm:"size:255;not null" json:"-"`
	DisplayName   string     `gorm:"size:100" json:"display_name"`
	RoleID        *uint      `json:"role_id"`
	Role          Role       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`
	Status        string     `gorm:"size:20;not null;default:active" json:"status"`
	Points        int        `gorm:"not null;default:0" json:"points"`
	VIPLevel      int        `gorm:"column:vip_level;not null;default:0" json:"vip_level"`
	CheckinStreak int        `gorm:"not null;default:0" json:"checkin_streak"`
	LastCheckIn   *time.Time `json:"last_check_in,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role.Name == RoleAdmin
}
