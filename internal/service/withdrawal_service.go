package service

import (
	"errors"
	"fmt"

	"tutorbay/internal/domain"
	"tutorbay/internal/models"
	"tutorbay/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidAmount           = errors.New("withdrawal amount must be positive")
	ErrInsufficientFunds       = errors.New("insufficient wallet balance")
	ErrInvalidWithdrawalStatus = errors.New("withdrawal is not in a confirmable state")
)

// WithdrawalService moves wallet funds toward an external bank account.
// Initiation records intent; the wallet is only debited on admin confirmation.
// The actual bank transfer happens outside this service.
type WithdrawalService struct {
	walletRepo     *repository.WalletRepository
	withdrawalRepo *repository.WithdrawalRepository
	notifSvc       *NotificationService
}

func NewWithdrawalService(
	walletRepo *repository.WalletRepository,
	withdrawalRepo *repository.WithdrawalRepository,
	notifSvc *NotificationService,
) *WithdrawalService {
	return &WithdrawalService{
		walletRepo:     walletRepo,
		withdrawalRepo: withdrawalRepo,
		notifSvc:       notifSvc,
	}
}

// Initiate creates a PENDING withdrawal with its linked PENDING ledger entry.
func (s *WithdrawalService) Initiate(userID uint, amountCents int64, bankName, accountNumber, accountName string) (*models.Withdrawal, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	wallet, err := s.walletRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if wallet.BalanceCents < amountCents {
		return nil, ErrInsufficientFunds
	}
	tx := &models.WalletTransaction{
		UserID:      userID,
		WalletID:    wallet.ID,
		AmountCents: amountCents,
		Type:        domain.TxTypeWithdrawal,
		Status:      domain.TxStatusPending,
		Metadata: txMetadata(map[string]interface{}{
			"bank_name":      bankName,
			"account_number": accountNumber,
			"account_name":   accountName,
		}),
		Description: "Withdrawal to " + bankName,
	}
	if err := s.walletRepo.RecordTransaction(tx); err != nil {
		return nil, err
	}
	w := &models.Withdrawal{
		UserID:        userID,
		WalletID:      wallet.ID,
		TransactionID: tx.ID,
		AmountCents:   amountCents,
		BankName:      bankName,
		AccountNumber: accountNumber,
		AccountName:   accountName,
		Status:        domain.WithdrawalStatusPending,
		Reference:     fmt.Sprintf("wd-%s", uuid.New().String()),
	}
	if err := s.withdrawalRepo.Create(w); err != nil {
		return nil, err
	}
	// Link the ledger entry back to the withdrawal it belongs to.
	meta := txMetadata(map[string]interface{}{
		"withdrawal_id":  w.ID,
		"reference":      w.Reference,
		"bank_name":      bankName,
		"account_number": accountNumber,
		"account_name":   accountName,
	})
	if err := s.walletRepo.SetTransactionMetadata(tx.ID, meta); err != nil {
		zap.L().Error("withdrawal ledger entry not linked",
			zap.Uint("withdrawal_id", w.ID), zap.Uint("transaction_id", tx.ID), zap.Error(err))
	}
	return w, nil
}

// Confirm advances a withdrawal PENDING -> PROCESSING, debits the wallet and
// completes the linked ledger entry. The status flip claims the withdrawal
// first so two admins confirming at once cannot debit twice; the balance guard
// sits in the debit statement itself.
func (s *WithdrawalService) Confirm(withdrawalID uint) (*models.Withdrawal, error) {
	w, err := s.withdrawalRepo.GetByID(withdrawalID)
	if err != nil {
		return nil, err
	}
	if w.Status != domain.WithdrawalStatusPending {
		return nil, ErrInvalidWithdrawalStatus
	}
	claimed, err := s.withdrawalRepo.AdvanceStatus(w.ID, domain.WithdrawalStatusPending, domain.WithdrawalStatusProcessing)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrInvalidWithdrawalStatus
	}
	if err := s.walletRepo.DebitForWithdrawal(w.WalletID, w.AmountCents); err != nil {
		// Funds gone since initiation: release the claim.
		if _, rerr := s.withdrawalRepo.AdvanceStatus(w.ID, domain.WithdrawalStatusProcessing, domain.WithdrawalStatusPending); rerr != nil {
			zap.L().Error("withdrawal claim not released after failed debit",
				zap.Uint("withdrawal_id", w.ID), zap.Error(rerr))
		}
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}
	if err := s.walletRepo.CompleteTransaction(w.TransactionID); err != nil {
		zap.L().Error("withdrawal ledger entry not completed",
			zap.Uint("withdrawal_id", w.ID), zap.Uint("transaction_id", w.TransactionID), zap.Error(err))
	}
	w.Status = domain.WithdrawalStatusProcessing
	_ = s.notifSvc.NotifyWithdrawalProcessing(w.UserID, w.AmountCents, w.Reference)
	return w, nil
}
