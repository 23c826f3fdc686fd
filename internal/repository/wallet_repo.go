package repository

import (
	"errors"
	"fmt"

	"tutorbay/internal/domain"
	"tutorbay/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.Where("user_id = ?", userID).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) GetByID(id uint) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.First(&w, id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetOrCreate returns the user's wallet, creating it lazily on first use.
func (r *WalletRepository) GetOrCreate(userID uint) (*models.Wallet, error) {
	w, err := r.GetByUserID(userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w = &models.Wallet{UserID: userID, Currency: "NGN"}
	if err := r.db.Create(w).Error; err != nil {
		// Lost a create race: another request made the wallet first.
		if existing, gerr := r.GetByUserID(userID); gerr == nil {
			return existing, nil
		}
		return nil, err
	}
	return w, nil
}

// CreditEarnings adds to balance and lifetime earnings in one statement.
// Balance changes never go through read-then-write.
func (r *WalletRepository) CreditEarnings(walletID uint, amountCents int64) error {
	return r.db.Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Updates(map[string]interface{}{
			"balance_cents": gorm.Expr("balance_cents + ?", amountCents),
			"earned_cents":  gorm.Expr("earned_cents + ?", amountCents),
		}).Error
}

// Credit adds to balance only (referral bonuses).
func (r *WalletRepository) Credit(walletID uint, amountCents int64) error {
	return r.db.Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Update("balance_cents", gorm.Expr("balance_cents + ?", amountCents)).Error
}

// DebitForWithdrawal moves amount from balance to lifetime withdrawn. The
// balance guard is part of the WHERE clause so a concurrent debit cannot
// overdraw; ErrInsufficientBalance when no row matched.
func (r *WalletRepository) DebitForWithdrawal(walletID uint, amountCents int64) error {
	res := r.db.Model(&models.Wallet{}).
		Where("id = ? AND balance_cents >= ?", walletID, amountCents).
		Updates(map[string]interface{}{
			"balance_cents":   gorm.Expr("balance_cents - ?", amountCents),
			"withdrawn_cents": gorm.Expr("withdrawn_cents + ?", amountCents),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// RecordTransaction appends a ledger entry. A reference is generated when the
// caller does not supply one.
func (r *WalletRepository) RecordTransaction(tx *models.WalletTransaction) error {
	if tx.Status == "" {
		tx.Status = domain.TxStatusCompleted
	}
	if tx.Reference == "" {
		tx.Reference = fmt.Sprintf("tb-%s", uuid.New().String())
	}
	return r.db.Create(tx).Error
}

// SetTransactionMetadata replaces a ledger entry's metadata blob.
func (r *WalletRepository) SetTransactionMetadata(id uint, metadata string) error {
	return r.db.Model(&models.WalletTransaction{}).
		Where("id = ?", id).
		Update("metadata", metadata).Error
}

func (r *WalletRepository) GetTransaction(id uint) (*models.WalletTransaction, error) {
	var tx models.WalletTransaction
	err := r.db.First(&tx, id).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// CompleteTransaction advances a ledger entry PENDING -> COMPLETED.
func (r *WalletRepository) CompleteTransaction(id uint) error {
	return r.db.Model(&models.WalletTransaction{}).
		Where("id = ? AND status = ?", id, domain.TxStatusPending).
		Update("status", domain.TxStatusCompleted).Error
}

func (r *WalletRepository) ListTransactions(userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	var list []models.WalletTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
