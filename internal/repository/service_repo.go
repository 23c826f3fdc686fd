package repository

import (
	"tutorbay/internal/models"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(s *models.TutorService) error {
	return r.db.Create(s).Error
}

func (r *ServiceRepository) GetByID(id uint) (*models.TutorService, error) {
	var s models.TutorService
	err := r.db.First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) ListActive(limit, offset int) ([]models.TutorService, error) {
	var list []models.TutorService
	err := r.db.Where("active = ?", true).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
