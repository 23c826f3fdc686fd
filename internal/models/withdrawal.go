package models

import (
	"time"

	"gorm.io/gorm"
)

type Withdrawal struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	WalletID      uint           `gorm:"not null;index" json:"wallet_id"`
	TransactionID uint           `gorm:"not null;uniqueIndex" json:"transaction_id"`
	AmountCents   int64          `gorm:"not null" json:"amount_cents"`
	BankName      string         `gorm:"size:128;not null" json:"bank_name"`
	AccountNumber string         `gorm:"size:32;not null" json:"account_number"`
	AccountName   string         `gorm:"size:128;not null" json:"account_name"`
	Status        string         `gorm:"size:20;not null;index" json:"status"` // PENDING, PROCESSING, COMPLETED, FAILED
	Reference     string         `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	CompletedAt   *time.Time     `json:"completed_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	User        User              `gorm:"foreignKey:UserID" json:"-"`
	Transaction WalletTransaction `gorm:"foreignKey:TransactionID" json:"-"`
}

func (Withdrawal) TableName() string { return "withdrawals" }
