package models

import (
	"time"

	"gorm.io/gorm"
)

// TutorService is a purchasable marketplace service offered by a tutor
// (e.g. CV review, mock interview).
type TutorService struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TutorID     uint           `gorm:"not null;index" json:"tutor_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	PriceCents  int64          `gorm:"not null;default:0" json:"price_cents"`
	Currency    string         `gorm:"size:3;default:'NGN'" json:"currency"`
	Active      bool           `gorm:"default:true;index" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Tutor User `gorm:"foreignKey:TutorID" json:"-"`
}

func (TutorService) TableName() string { return "tutor_services" }
