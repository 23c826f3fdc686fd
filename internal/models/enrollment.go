package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment links a student to a course. The composite unique index is the
// backstop against double enrollment from replayed payment verifications.
type Enrollment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_enroll_user_course" json:"user_id"`
	CourseID  uint           `gorm:"not null;uniqueIndex:idx_enroll_user_course;index" json:"course_id"`
	PaymentID *uint          `json:"payment_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Course Course `gorm:"foreignKey:CourseID" json:"-"`
}

func (Enrollment) TableName() string { return "enrollments" }

// ServiceEnrollment links a student to a purchased tutor service.
type ServiceEnrollment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_senroll_user_service" json:"user_id"`
	ServiceID uint           `gorm:"not null;uniqueIndex:idx_senroll_user_service;index" json:"service_id"`
	PaymentID *uint          `json:"payment_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User    User         `gorm:"foreignKey:UserID" json:"-"`
	Service TutorService `gorm:"foreignKey:ServiceID" json:"-"`
}

func (ServiceEnrollment) TableName() string { return "service_enrollments" }
