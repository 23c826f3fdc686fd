package repository

import (
	"time"

	"tutorbay/internal/domain"
	"tutorbay/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var p models.Payment
	err := r.db.First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByProviderRef(ref string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("provider_ref = ?", ref).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// HasCompletedForItem reports whether a COMPLETED payment already exists for
// (user, item type, item id).
func (r *PaymentRepository) HasCompletedForItem(userID uint, itemType string, itemID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).
		Where("user_id = ? AND item_type = ? AND item_id = ? AND status = ?",
			userID, itemType, itemID, domain.PaymentStatusCompleted).
		Count(&count).Error
	return count > 0, err
}

// MarkCompleted flips a payment PENDING -> COMPLETED as a single guarded
// update. Returns false when the payment was not PENDING anymore, which is how
// concurrent verifications of the same reference are serialized: exactly one
// caller sees true.
func (r *PaymentRepository) MarkCompleted(id uint) (bool, error) {
	now := time.Now()
	res := r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":       domain.PaymentStatusCompleted,
			"completed_at": &now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PaymentRepository) MarkFailed(id uint) error {
	return r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, domain.PaymentStatusPending).
		Update("status", domain.PaymentStatusFailed).Error
}

func (r *PaymentRepository) Update(p *models.Payment) error {
	return r.db.Save(p).Error
}
