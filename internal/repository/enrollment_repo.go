package repository

import (
	"tutorbay/internal/models"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) Create(e *models.Enrollment) error {
	return r.db.Create(e).Error
}

func (r *EnrollmentRepository) Exists(userID, courseID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) ListByUserID(userID uint, limit, offset int) ([]models.Enrollment, error) {
	var list []models.Enrollment
	err := r.db.Where("user_id = ?", userID).
		Preload("Course").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *EnrollmentRepository) CreateService(e *models.ServiceEnrollment) error {
	return r.db.Create(e).Error
}

func (r *EnrollmentRepository) ServiceExists(userID, serviceID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ServiceEnrollment{}).
		Where("user_id = ? AND service_id = ?", userID, serviceID).
		Count(&count).Error
	return count > 0, err
}
