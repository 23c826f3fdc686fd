package repository

import (
	"tutorbay/internal/models"

	"gorm.io/gorm"
)

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func (r *WithdrawalRepository) Create(w *models.Withdrawal) error {
	return r.db.Create(w).Error
}

func (r *WithdrawalRepository) GetByID(id uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := r.db.First(&w, id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WithdrawalRepository) GetByReference(ref string) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := r.db.Where("reference = ?", ref).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// AdvanceStatus moves a withdrawal from one status to the next as a guarded
// update; false means the row was no longer in the expected status.
func (r *WithdrawalRepository) AdvanceStatus(id uint, from, to string) (bool, error) {
	res := r.db.Model(&models.Withdrawal{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *WithdrawalRepository) Update(w *models.Withdrawal) error {
	return r.db.Save(w).Error
}

func (r *WithdrawalRepository) ListByUserID(userID uint, limit, offset int) ([]models.Withdrawal, error) {
	var list []models.Withdrawal
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *WithdrawalRepository) ListByStatus(status string, limit, offset int) ([]models.Withdrawal, error) {
	var list []models.Withdrawal
	q := r.db.Order("created_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&list).Error
	return list, err
}
