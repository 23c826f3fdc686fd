package repository

import (
	"time"

	"tutorbay/internal/models"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(s *models.TutorSubscription) error {
	return r.db.Create(s).Error
}

func (r *SubscriptionRepository) GetByUserAndTutor(userID, tutorID uint) (*models.TutorSubscription, error) {
	var s models.TutorSubscription
	err := r.db.Where("user_id = ? AND tutor_id = ?", userID, tutorID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Reactivate refreshes an existing subscription with a new expiry.
func (r *SubscriptionRepository) Reactivate(id uint, expiresAt time.Time) error {
	return r.db.Model(&models.TutorSubscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": true, "expires_at": expiresAt}).Error
}

func (r *SubscriptionRepository) ListByUserID(userID uint) ([]models.TutorSubscription, error) {
	var list []models.TutorSubscription
	err := r.db.Where("user_id = ?", userID).
		Preload("Tutor").
		Order("expires_at DESC").
		Find(&list).Error
	return list, err
}
