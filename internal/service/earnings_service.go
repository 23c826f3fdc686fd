package service

import (
	"encoding/json"
	"errors"

	"tutorbay/internal/domain"
	"tutorbay/internal/models"
	"tutorbay/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EarningsService credits tutor wallets from course sales and pays one-time
// referral bonuses. Failures here are logged and never reach the purchaser:
// enrollment success is decoupled from ledger completeness, ledger gaps are
// reconciled out-of-band.
type EarningsService struct {
	courseRepo   *repository.CourseRepository
	walletRepo   *repository.WalletRepository
	referralRepo *repository.ReferralRepository
	notifSvc     *NotificationService
}

func NewEarningsService(
	courseRepo *repository.CourseRepository,
	walletRepo *repository.WalletRepository,
	referralRepo *repository.ReferralRepository,
	notifSvc *NotificationService,
) *EarningsService {
	return &EarningsService{
		courseRepo:   courseRepo,
		walletRepo:   walletRepo,
		referralRepo: referralRepo,
		notifSvc:     notifSvc,
	}
}

func txMetadata(fields map[string]interface{}) string {
	b, _ := json.Marshal(fields)
	return string(b)
}

// SplitFromPurchase credits the course owner's wallet with the tutor share and
// records the earnings and platform-fee ledger entries. amountCents is the
// post-referral remainder. The fee is amount minus the tutor share so the two
// entries always sum to the input.
func (s *EarningsService) SplitFromPurchase(courseID uint, amountCents int64, paymentID uint) error {
	course, err := s.courseRepo.GetByID(courseID)
	if err != nil {
		return err
	}
	tutorEarnings := amountCents * domain.TutorSharePercent / 100
	platformFee := amountCents - tutorEarnings

	wallet, err := s.walletRepo.GetOrCreate(course.TutorID)
	if err != nil {
		return err
	}
	if err := s.walletRepo.CreditEarnings(wallet.ID, tutorEarnings); err != nil {
		return err
	}
	meta := txMetadata(map[string]interface{}{"course_id": courseID, "payment_id": paymentID})
	if err := s.walletRepo.RecordTransaction(&models.WalletTransaction{
		UserID:      course.TutorID,
		WalletID:    wallet.ID,
		AmountCents: tutorEarnings,
		Type:        domain.TxTypeEarnings,
		Status:      domain.TxStatusCompleted,
		Metadata:    meta,
		Description: "Course sale earnings",
	}); err != nil {
		zap.L().Error("earnings transaction not recorded",
			zap.Uint("course_id", courseID), zap.Uint("payment_id", paymentID), zap.Error(err))
	}
	if err := s.walletRepo.RecordTransaction(&models.WalletTransaction{
		UserID:      course.TutorID,
		WalletID:    wallet.ID,
		AmountCents: platformFee,
		Type:        domain.TxTypePlatformFee,
		Status:      domain.TxStatusCompleted,
		Metadata:    meta,
		Description: "Platform fee on course sale",
	}); err != nil {
		zap.L().Error("platform fee transaction not recorded",
			zap.Uint("course_id", courseID), zap.Uint("payment_id", paymentID), zap.Error(err))
	}
	_ = s.notifSvc.NotifyEarnings(course.TutorID, tutorEarnings, courseID)
	return nil
}

// PayReferralBonus pays the purchaser's referrer 10% of the sale, at most once
// per referred user. The RewardPaid guard is claimed atomically, so a second
// purchase or a replayed verification pays nothing. Returns the amount
// disbursed; the caller splits earnings on what remains.
func (s *EarningsService) PayReferralBonus(buyerID uint, fullAmountCents int64, paymentID uint) int64 {
	ref, err := s.referralRepo.GetByReferredUserID(buyerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Error("referral lookup failed", zap.Uint("user_id", buyerID), zap.Error(err))
		}
		return 0
	}
	claimed, err := s.referralRepo.ClaimReward(ref.ID)
	if err != nil {
		zap.L().Error("referral reward claim failed", zap.Uint("referral_id", ref.ID), zap.Error(err))
		return 0
	}
	if !claimed {
		return 0
	}
	reward := fullAmountCents * domain.ReferralSharePercent / 100
	wallet, err := s.walletRepo.GetOrCreate(ref.ReferrerID)
	if err != nil {
		zap.L().Error("referrer wallet unavailable, reward stays in the split",
			zap.Uint("referrer_id", ref.ReferrerID), zap.Uint("payment_id", paymentID), zap.Error(err))
		s.releaseRewardClaim(ref.ID)
		return 0
	}
	if err := s.walletRepo.Credit(wallet.ID, reward); err != nil {
		zap.L().Error("referral bonus credit failed, reward stays in the split",
			zap.Uint("referrer_id", ref.ReferrerID), zap.Uint("payment_id", paymentID), zap.Error(err))
		s.releaseRewardClaim(ref.ID)
		return 0
	}
	if err := s.walletRepo.RecordTransaction(&models.WalletTransaction{
		UserID:      ref.ReferrerID,
		WalletID:    wallet.ID,
		AmountCents: reward,
		Type:        domain.TxTypeReferralBonus,
		Status:      domain.TxStatusCompleted,
		Metadata:    txMetadata(map[string]interface{}{"payment_id": paymentID, "referred_user_id": buyerID}),
		Description: "Referral bonus",
	}); err != nil {
		zap.L().Error("referral bonus transaction not recorded",
			zap.Uint("referrer_id", ref.ReferrerID), zap.Uint("payment_id", paymentID), zap.Error(err))
	}
	return reward
}

// releaseRewardClaim reopens the one-time reward so an uncredited payout is not
// lost; the caller splits the full amount instead.
func (s *EarningsService) releaseRewardClaim(referralID uint) {
	if err := s.referralRepo.ReleaseReward(referralID); err != nil {
		zap.L().Error("referral reward claim not released",
			zap.Uint("referral_id", referralID), zap.Error(err))
	}
}
