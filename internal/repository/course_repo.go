package repository

import (
	"tutorbay/internal/models"

	"gorm.io/gorm"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(c *models.Course) error {
	return r.db.Create(c).Error
}

func (r *CourseRepository) GetByID(id uint) (*models.Course, error) {
	var c models.Course
	err := r.db.First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CourseRepository) Update(c *models.Course) error {
	return r.db.Save(c).Error
}

func (r *CourseRepository) ListPublished(limit, offset int) ([]models.Course, error) {
	var list []models.Course
	err := r.db.Where("published = ?", true).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *CourseRepository) ListByTutorID(tutorID uint, limit, offset int) ([]models.Course, error) {
	var list []models.Course
	err := r.db.Where("tutor_id = ?", tutorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
