package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"tutorbay/internal/domain"
	"tutorbay/internal/models"
	"tutorbay/internal/repository"
	"tutorbay/pkg/paystack"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAlreadyPaid           = errors.New("a completed payment already exists for this item")
	ErrItemNotFound          = errors.New("purchasable item not found")
	ErrAlreadyEnrolled       = errors.New("user is already enrolled")
	ErrInvalidItemType       = errors.New("unsupported item type")
	ErrInvalidTransactionRef = errors.New("invalid transaction reference")
	ErrGatewayInit           = errors.New("payment gateway initialization failed")
)

// Gateway is the slice of the payment gateway the service needs. The metadata
// set at initialization comes back unchanged on verification.
type Gateway interface {
	InitializeTransaction(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeResponse, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.VerifyResponse, error)
}

// PaymentService creates payment intents, verifies gateway references and
// dispatches fulfillment side effects exactly once per payment.
type PaymentService struct {
	paymentRepo *repository.PaymentRepository
	courseRepo  *repository.CourseRepository
	serviceRepo *repository.ServiceRepository
	userRepo    *repository.UserRepository
	enrollRepo  *repository.EnrollmentRepository
	subRepo     *repository.SubscriptionRepository
	earnings    *EarningsService
	notifSvc    *NotificationService
	gateway     Gateway
}

func NewPaymentService(
	paymentRepo *repository.PaymentRepository,
	courseRepo *repository.CourseRepository,
	serviceRepo *repository.ServiceRepository,
	userRepo *repository.UserRepository,
	enrollRepo *repository.EnrollmentRepository,
	subRepo *repository.SubscriptionRepository,
	earnings *EarningsService,
	notifSvc *NotificationService,
	gateway Gateway,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		courseRepo:  courseRepo,
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		enrollRepo:  enrollRepo,
		subRepo:     subRepo,
		earnings:    earnings,
		notifSvc:    notifSvc,
		gateway:     gateway,
	}
}

// priceItem resolves the purchase amount for an item. The switch is the single
// place item types are enumerated for pricing; fulfillment has its own.
func (s *PaymentService) priceItem(itemType string, itemID uint) (int64, string, error) {
	switch itemType {
	case domain.ItemTypeCourse:
		course, err := s.courseRepo.GetByID(itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, "", ErrItemNotFound
			}
			return 0, "", err
		}
		return course.PriceCents, course.Currency, nil
	case domain.ItemTypeService:
		svc, err := s.serviceRepo.GetByID(itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, "", ErrItemNotFound
			}
			return 0, "", err
		}
		return svc.PriceCents, svc.Currency, nil
	case domain.ItemTypeOneOnOne:
		tutor, err := s.userRepo.GetByID(itemID)
		if err != nil || !tutor.IsTutor() {
			if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, "", ErrItemNotFound
			}
			return 0, "", err
		}
		rate := tutor.OneOnOneRateCents
		if rate <= 0 {
			rate = domain.DefaultOneOnOneRateCents
		}
		return rate, "NGN", nil
	default:
		return 0, "", ErrInvalidItemType
	}
}

// checkNotAlreadyPaid rejects duplicate purchases. Courses and services are
// one-time buys, so any COMPLETED payment for the item blocks a new intent.
// One-on-one subscriptions are renewable: only a still-active, unexpired
// subscription blocks, so a lapsed one can be bought again.
func (s *PaymentService) checkNotAlreadyPaid(userID uint, itemType string, itemID uint) error {
	if itemType == domain.ItemTypeOneOnOne {
		sub, err := s.subRepo.GetByUserAndTutor(userID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if sub.IsActive && sub.ExpiresAt.After(time.Now()) {
			return ErrAlreadyPaid
		}
		return nil
	}
	paid, err := s.paymentRepo.HasCompletedForItem(userID, itemType, itemID)
	if err != nil {
		return err
	}
	if paid {
		return ErrAlreadyPaid
	}
	return nil
}

// InitiatePayment creates a PENDING payment for an item. The payment id is the
// transaction ref the caller passes back through the gateway metadata.
func (s *PaymentService) InitiatePayment(userID uint, itemType string, itemID uint) (*models.Payment, error) {
	if err := s.checkNotAlreadyPaid(userID, itemType, itemID); err != nil {
		return nil, err
	}
	amount, currency, err := s.priceItem(itemType, itemID)
	if err != nil {
		return nil, err
	}
	p := &models.Payment{
		UserID:      userID,
		AmountCents: amount,
		Currency:    currency,
		Status:      domain.PaymentStatusPending,
		ItemType:    itemType,
		ItemID:      itemID,
	}
	if err := s.paymentRepo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// InitiateCardPayment additionally opens a gateway session. The internal
// payment id rides in the metadata bag and comes back on verification.
func (s *PaymentService) InitiateCardPayment(ctx context.Context, userID uint, itemType string, itemID uint, email, callbackURL string) (*models.Payment, *paystack.InitializeResponse, error) {
	p, err := s.InitiatePayment(userID, itemType, itemID)
	if err != nil {
		return nil, nil, err
	}
	init, err := s.gateway.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:       email,
		AmountCents: p.AmountCents,
		CallbackURL: callbackURL,
		Metadata: paystack.Metadata{
			TransactionRef: strconv.FormatUint(uint64(p.ID), 10),
			ItemType:       itemType,
			ItemID:         strconv.FormatUint(uint64(itemID), 10),
		},
	})
	if err != nil {
		zap.L().Error("gateway initialization failed",
			zap.Uint("payment_id", p.ID), zap.Error(err))
		return nil, nil, ErrGatewayInit
	}
	p.ProviderRef = init.Reference
	if err := s.paymentRepo.Update(p); err != nil {
		return nil, nil, err
	}
	return p, init, nil
}

// ValidationResult describes the outcome of a verification call.
type ValidationResult struct {
	GatewayStatus    string          `json:"gateway_status"`
	Fulfilled        bool            `json:"fulfilled"`
	AlreadyCompleted bool            `json:"already_completed"`
	Payment          *models.Payment `json:"payment,omitempty"`
}

// ValidatePayment verifies a gateway reference and, on success, runs
// fulfillment. Re-delivery of the same reference is safe: an already-completed
// payment short-circuits, and the completion flip itself is a guarded update.
func (s *PaymentService) ValidatePayment(ctx context.Context, userID uint, reference string) (*ValidationResult, error) {
	verify, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		if errors.Is(err, paystack.ErrInvalidReference) {
			return nil, ErrInvalidTransactionRef
		}
		return nil, err
	}
	if verify.Status != "success" {
		return &ValidationResult{GatewayStatus: verify.Status}, nil
	}

	paymentID, err := strconv.ParseUint(verify.Metadata.TransactionRef, 10, 64)
	if err != nil {
		zap.L().Error("verified transaction carries no usable payment ref",
			zap.String("reference", reference), zap.String("transaction_ref", verify.Metadata.TransactionRef))
		return &ValidationResult{GatewayStatus: verify.Status}, nil
	}
	p, err := s.paymentRepo.GetByID(uint(paymentID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Gateway-side metadata anomaly: verified money with no matching
			// intent. Loud log, generic response to the buyer.
			zap.L().Error("verified transaction references unknown payment",
				zap.String("reference", reference), zap.Uint64("payment_id", paymentID))
			return &ValidationResult{GatewayStatus: verify.Status}, nil
		}
		return nil, err
	}
	if p.Status == domain.PaymentStatusCompleted {
		return &ValidationResult{GatewayStatus: verify.Status, AlreadyCompleted: true, Payment: p}, nil
	}
	return s.fulfill(p, verify.Status)
}

// fulfill performs the item-type-specific side effects. Each branch validates
// its preconditions, then claims the payment with the guarded PENDING ->
// COMPLETED flip; only the claim winner performs enrollment and ledger writes.
func (s *PaymentService) fulfill(p *models.Payment, gatewayStatus string) (*ValidationResult, error) {
	switch p.ItemType {
	case domain.ItemTypeCourse:
		return s.fulfillCourse(p, gatewayStatus)
	case domain.ItemTypeService:
		return s.fulfillService(p, gatewayStatus)
	case domain.ItemTypeOneOnOne:
		return s.fulfillOneOnOne(p, gatewayStatus)
	default:
		return nil, ErrInvalidItemType
	}
}

func (s *PaymentService) fulfillCourse(p *models.Payment, gatewayStatus string) (*ValidationResult, error) {
	course, err := s.courseRepo.GetByID(p.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	enrolled, err := s.enrollRepo.Exists(p.UserID, course.ID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}
	claimed, err := s.paymentRepo.MarkCompleted(p.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return &ValidationResult{GatewayStatus: gatewayStatus, AlreadyCompleted: true, Payment: p}, nil
	}
	if err := s.enrollRepo.Create(&models.Enrollment{UserID: p.UserID, CourseID: course.ID, PaymentID: &p.ID}); err != nil {
		zap.L().Error("enrollment write failed after payment completion",
			zap.Uint("payment_id", p.ID), zap.Uint("course_id", course.ID), zap.Error(err))
		return nil, err
	}
	_ = s.notifSvc.NotifyEnrollment(p.UserID, course.Title, course.ID)

	// Ledger writes after this point never fail the purchase. Referral first,
	// then the 80/20 split on what remains.
	remaining := p.AmountCents - s.earnings.PayReferralBonus(p.UserID, p.AmountCents, p.ID)
	if err := s.earnings.SplitFromPurchase(course.ID, remaining, p.ID); err != nil {
		zap.L().Error("earnings split failed, enrollment stands",
			zap.Uint("payment_id", p.ID), zap.Uint("course_id", course.ID), zap.Error(err))
	}
	p.Status = domain.PaymentStatusCompleted
	return &ValidationResult{GatewayStatus: gatewayStatus, Fulfilled: true, Payment: p}, nil
}

func (s *PaymentService) fulfillService(p *models.Payment, gatewayStatus string) (*ValidationResult, error) {
	svc, err := s.serviceRepo.GetByID(p.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	enrolled, err := s.enrollRepo.ServiceExists(p.UserID, svc.ID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}
	claimed, err := s.paymentRepo.MarkCompleted(p.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return &ValidationResult{GatewayStatus: gatewayStatus, AlreadyCompleted: true, Payment: p}, nil
	}
	if err := s.enrollRepo.CreateService(&models.ServiceEnrollment{UserID: p.UserID, ServiceID: svc.ID, PaymentID: &p.ID}); err != nil {
		zap.L().Error("service enrollment write failed after payment completion",
			zap.Uint("payment_id", p.ID), zap.Uint("service_id", svc.ID), zap.Error(err))
		return nil, err
	}
	_ = s.notifSvc.NotifyServiceEnrollment(p.UserID, svc.Title, svc.ID)
	p.Status = domain.PaymentStatusCompleted
	return &ValidationResult{GatewayStatus: gatewayStatus, Fulfilled: true, Payment: p}, nil
}

func (s *PaymentService) fulfillOneOnOne(p *models.Payment, gatewayStatus string) (*ValidationResult, error) {
	tutor, err := s.userRepo.GetByID(p.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if !tutor.IsTutor() {
		return nil, ErrItemNotFound
	}
	claimed, err := s.paymentRepo.MarkCompleted(p.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return &ValidationResult{GatewayStatus: gatewayStatus, AlreadyCompleted: true, Payment: p}, nil
	}
	expiry := time.Now().AddDate(0, 0, domain.SubscriptionDays)
	sub, err := s.subRepo.GetByUserAndTutor(p.UserID, tutor.ID)
	switch {
	case err == nil:
		if err := s.subRepo.Reactivate(sub.ID, expiry); err != nil {
			zap.L().Error("subscription reactivation failed after payment completion",
				zap.Uint("payment_id", p.ID), zap.Uint("subscription_id", sub.ID), zap.Error(err))
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.subRepo.Create(&models.TutorSubscription{
			UserID:    p.UserID,
			TutorID:   tutor.ID,
			IsActive:  true,
			ExpiresAt: expiry,
		}); err != nil {
			zap.L().Error("subscription write failed after payment completion",
				zap.Uint("payment_id", p.ID), zap.Uint("tutor_id", tutor.ID), zap.Error(err))
			return nil, err
		}
	default:
		return nil, err
	}
	_ = s.notifSvc.NotifySubscriptionActivated(p.UserID, tutor.Username, tutor.ID)
	p.Status = domain.PaymentStatusCompleted
	return &ValidationResult{GatewayStatus: gatewayStatus, Fulfilled: true, Payment: p}, nil
}
