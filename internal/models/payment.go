package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is one purchase attempt for one item. At most one COMPLETED payment
// may exist per (user, item type, item id); the fulfillment path flips status
// PENDING -> COMPLETED exactly once via a guarded update.
type Payment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	Currency    string         `gorm:"size:3;default:'NGN'" json:"currency"`
	Status      string         `gorm:"size:20;not null;index" json:"status"`    // PENDING, COMPLETED, FAILED, REFUNDED
	ItemType    string         `gorm:"size:20;not null;index" json:"item_type"` // COURSE, SERVICE, ONE_ON_ONE
	ItemID      uint           `gorm:"not null;index" json:"item_id"`
	ProviderRef string         `gorm:"size:255;index" json:"provider_ref"` // gateway transaction reference
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Payment) TableName() string { return "payments" }
