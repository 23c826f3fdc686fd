package models

import (
	"time"

	"gorm.io/gorm"
)

// WalletTransaction is an append-only record of a single balance-affecting
// event. Status may advance PENDING -> COMPLETED; rows are never otherwise
// mutated.
type WalletTransaction struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	WalletID    uint           `gorm:"not null;index" json:"wallet_id"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	Type        string         `gorm:"size:30;not null;index" json:"type"`   // COURSE_PURCHASE, WITHDRAWAL, PLATFORM_FEE, EARNINGS, REFERRAL_BONUS
	Status      string         `gorm:"size:20;not null;index" json:"status"` // PENDING, COMPLETED, FAILED
	Reference   string         `gorm:"size:128;uniqueIndex" json:"reference"`
	Metadata    string         `gorm:"type:text" json:"metadata"` // JSON: course_id, payment_id, withdrawal_id, bank details
	Description string         `gorm:"size:255" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Wallet Wallet `gorm:"foreignKey:WalletID" json:"-"`
}

func (WalletTransaction) TableName() string { return "wallet_transactions" }
