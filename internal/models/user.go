package models

import (
	"time"

	"tutorbay/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         string `gorm:"size:20;not null;index" json:"role"` // STUDENT | TUTOR | ADMIN
	AvatarURL    string `gorm:"size:512" json:"avatar_url"`

	// Tutor-only: price for a 30-day one-on-one subscription. 0 means the
	// platform default applies.
	OneOnOneRateCents int64 `gorm:"not null;default:0" json:"one_on_one_rate_cents"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsTutor() bool { return u.Role == domain.RoleTutor }
func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }
