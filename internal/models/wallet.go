package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet holds a user's earnings ledger. BalanceCents is the spendable amount,
// EarnedCents and WithdrawnCents are lifetime totals.
type Wallet struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	BalanceCents   int64          `gorm:"not null;default:0" json:"balance_cents"`
	EarnedCents    int64          `gorm:"not null;default:0" json:"earned_cents"`
	WithdrawnCents int64          `gorm:"not null;default:0" json:"withdrawn_cents"`
	Currency       string         `gorm:"size:3;default:'NGN'" json:"currency"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string { return "wallets" }
