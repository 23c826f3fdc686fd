package models

import (
	"time"

	"gorm.io/gorm"
)

// TutorSubscription is a 30-day one-on-one subscription between a student and
// a tutor. Repurchase reactivates the row and refreshes the expiry.
type TutorSubscription struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_sub_user_tutor" json:"user_id"`
	TutorID   uint           `gorm:"not null;uniqueIndex:idx_sub_user_tutor;index" json:"tutor_id"`
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`
	ExpiresAt time.Time      `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User  User `gorm:"foreignKey:UserID" json:"-"`
	Tutor User `gorm:"foreignKey:TutorID" json:"-"`
}

func (TutorSubscription) TableName() string { return "tutor_subscriptions" }
