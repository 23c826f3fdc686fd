package service

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"tutorbay/internal/domain"
	"tutorbay/internal/models"
	"tutorbay/internal/repository"
	"tutorbay/pkg/paystack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeGateway implements Gateway with scripted responses.
type fakeGateway struct {
	initResp   *paystack.InitializeResponse
	initErr    error
	verifyResp *paystack.VerifyResponse
	verifyErr  error
}

func (f *fakeGateway) InitializeTransaction(_ context.Context, _ paystack.InitializeRequest) (*paystack.InitializeResponse, error) {
	return f.initResp, f.initErr
}

func (f *fakeGateway) VerifyTransaction(_ context.Context, _ string) (*paystack.VerifyResponse, error) {
	return f.verifyResp, f.verifyErr
}

type fixture struct {
	db          *gorm.DB
	users       *repository.UserRepository
	courses     *repository.CourseRepository
	services    *repository.ServiceRepository
	enrollments *repository.EnrollmentRepository
	subs        *repository.SubscriptionRepository
	wallets     *repository.WalletRepository
	payments    *repository.PaymentRepository
	referrals   *repository.ReferralRepository
	earnings    *EarningsService
	gateway     *fakeGateway
	svc         *PaymentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Course{}, &models.TutorService{},
		&models.Enrollment{}, &models.ServiceEnrollment{}, &models.TutorSubscription{},
		&models.Wallet{}, &models.WalletTransaction{}, &models.Withdrawal{},
		&models.Payment{}, &models.ReferralCode{}, &models.Referral{}, &models.Notification{},
	))

	f := &fixture{
		db:          db,
		users:       repository.NewUserRepository(db),
		courses:     repository.NewCourseRepository(db),
		services:    repository.NewServiceRepository(db),
		enrollments: repository.NewEnrollmentRepository(db),
		subs:        repository.NewSubscriptionRepository(db),
		wallets:     repository.NewWalletRepository(db),
		payments:    repository.NewPaymentRepository(db),
		referrals:   repository.NewReferralRepository(db),
		gateway:     &fakeGateway{},
	}
	notifRepo := repository.NewNotificationRepository(db)
	notifSvc := NewNotificationService(notifRepo)
	f.earnings = NewEarningsService(f.courses, f.wallets, f.referrals, notifSvc)
	f.svc = NewPaymentService(f.payments, f.courses, f.services, f.users, f.enrollments, f.subs, f.earnings, notifSvc, f.gateway)
	return f
}

func (f *fixture) createUser(t *testing.T, username, role string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Role: role}
	require.NoError(t, f.users.Create(u))
	return u
}

func (f *fixture) createCourse(t *testing.T, tutorID uint, priceCents int64) *models.Course {
	t.Helper()
	c := &models.Course{TutorID: tutorID, Title: "Intro to Go", PriceCents: priceCents, Currency: "NGN", Published: true}
	require.NoError(t, f.courses.Create(c))
	return c
}

// successVerify scripts the gateway to report success for the given payment.
func (f *fixture) successVerify(p *models.Payment) {
	f.gateway.verifyResp = &paystack.VerifyResponse{
		Status:      "success",
		AmountCents: p.AmountCents,
		Reference:   "ref-" + strconv.FormatUint(uint64(p.ID), 10),
		Metadata: paystack.Metadata{
			TransactionRef: strconv.FormatUint(uint64(p.ID), 10),
			ItemType:       p.ItemType,
			ItemID:         strconv.FormatUint(uint64(p.ItemID), 10),
		},
	}
	f.gateway.verifyErr = nil
}

func TestInitiatePayment(t *testing.T) {
	f := newFixture(t)
	tutor := f.createUser(t, "tutor", domain.RoleTutor)
	buyer := f.createUser(t, "buyer", domain.RoleStudent)
	course := f.createCourse(t, tutor.ID, 10000)

	tests := []struct {
		name       string
		itemType   string
		itemID     uint
		wantAmount int64
		wantErr    error
	}{
		{"course priced from record", domain.ItemTypeCourse, course.ID, 10000, nil},
		{"missing course", domain.ItemTypeCourse, 9999, 0, ErrItemNotFound},
		{"one-on-one default rate", domain.ItemTypeOneOnOne, tutor.ID, domain.DefaultOneOnOneRateCents, nil},
		{"one-on-one target not tutor", domain.ItemTypeOneOnOne, buyer.ID, 0, ErrItemNotFound},
		{"unknown item type", "GIFT_CARD", 1, 0, ErrInvalidItemType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := f.svc.InitiatePayment(buyer.ID, tt.itemType, tt.itemID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.PaymentStatusPending, p.Status)
			assert.Equal(t, tt.wantAmount, p.AmountCents)
		})
	}
}

func TestInitiatePaymentOneOnOneUsesTutorRate(t *testing.T) {
	f := newFixture(t)
	tutor := f.createUser(t, "tutor", domain.RoleTutor)
	tutor.OneOnOneRateCents = 250000
	require.NoError(t, f.users.Update(tutor))
	buyer := f.createUser(t, "buyer", domain.RoleStudent)

	p, err := f.svc.InitiatePayment(buyer.ID, domain.ItemTypeOneOnOne, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), p.AmountCents)
}

func TestInitiatePaymentRejectsDoublePay(t *testing.T) {
	f := newFixture(t)
	tutor := f.createUser(t, "tutor", domain.RoleTutor)
	buyer := f.createUser(t, "buyer", domain.RoleStudent)
	course := f.createCourse(t, tutor.ID, 10000)

	p, err := f.svc.InitiatePayment(buyer.ID, domain.ItemTypeCourse, course.ID)
	require.NoError(t, err)
	f.successVerify(p)
	_, err = f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)

	_, err = f.svc.InitiatePayment(buyer.ID, domain.ItemTypeCourse, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestValidatePaymentFulfillsCourse(t *testing.T) {
	f := newFixture(t)
	tutor := f.createUser(t, "tutor", domain.RoleTutor)
	buyer := f.createUser(t, "buyer", domain.RoleStudent)
	course := f.createCourse(t, tutor.ID, 10000)

	p, err := f.svc.InitiatePayment(buyer.ID, domain.ItemTypeCourse, course.ID)
	require.NoError(t, err)
	f.successVerify(p)

	result, err := f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)
	assert.True(t, result.Fulfilled)
	assert.Equal(t, domain.PaymentStatusCompleted, result.Payment.Status)

	enrolled, err := f.enrollments.Exists(buyer.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	// No referral: tutor gets 80%, platform fee 20%, entries sum to the price.
	wallet, err := f.wallets.GetByUserID(tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8000), wallet.BalanceCents)
	assert.Equal(t, int64(8000), wallet.EarnedCents)

	txs, err := f.wallets.ListTransactions(tutor.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	var earnings, fee int64
	for _, tx := range txs {
		switch tx.Type {
		case domain.TxTypeEarnings:
			earnings = tx.AmountCents
		case domain.TxTypePlatformFee:
			fee = tx.AmountCents
		}
	}
	assert.Equal(t, int64(8000), earnings)
	assert.Equal(t, int64(2000), fee)
	assert.Equal(t, p.AmountCents, earnings+fee)
}

func TestValidatePaymentIsIdempotent(t *testing.T) {
	f := newFixture(t)
	tutor := f.createUser(t, "tutor", domain.RoleTutor)
	buyer := f.createUser(t, "buyer", domain.RoleStudent)
	course := f.createCourse(t, tutor.ID, 10000)

	p, err := f.svc.InitiatePayment(buyer.ID, domain.ItemTypeCourse, course.ID)
	require.NoError(t, err)
	f.successVerify(p)

	first, err := f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)
	assert.True(t, first.Fulfilled)

	second, err := f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)
	assert.True(t, second.AlreadyCompleted)
	assert.False(t, second.Fulfilled)

	// Exactly one enrollment and one earnings/fee pair.
	var enrollCount int64
	f.db.Model(&models.Enrollment{}).Where("user_id = ?", buyer.ID).Count(&enrollCount)
	assert.Equal(t, int64(1), enrollCount)

	wallet, err := f.wallets.GetByUserID(tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8000), wallet.BalanceCents)

	txs, err := f.wallets.ListTransactions(tutor.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestValidatePaymentNonSuccessHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	tutor := f.createUser(t, "tutor", domain.RoleTutor)
	buyer := f.createUser(t, "buyer", domain.RoleStudent)
	course := f.createCourse(t, tutor.ID, 10000)

	p, err := f.svc.InitiatePayment(buyer.ID, domain.ItemTypeCourse, course.ID)
	require.NoError(t, err)
	f.successVerify(p)
	f.gateway.verifyResp.Status = "abandoned"

	result, err := f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)
	assert.False(t, result.Fulfilled)
	assert.Equal(t, "abandoned", result.GatewayStatus)

	reloaded, err := f.payments.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, reloaded.Status)

	enrolled, err := f.enrollments.Exists(buyer.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)
}

func TestValidatePaymentInvalidReference(t *testing.T) {
	f := newFixture(t)
	buyer := f.createUser(t, "buyer", domain.RoleStudent)
	f.gateway.verifyErr = paystack.ErrInvalidReference

	_, err := f.svc.ValidatePayment(context.Background(), buyer.ID, "bogus")
	assert.ErrorIs(t, err, ErrInvalidTransactionRef)
}

func TestValidatePaymentUnknownPaymentRef(t *testing.T) {
	f := newFixture(t)
	buyer := f.createUser(t, "buyer", domain.RoleStudent)
	f.gateway.verifyResp = &paystack.VerifyResponse{
		Status:   "success",
		Metadata: paystack.Metadata{TransactionRef: "424242", ItemType: domain.ItemTypeCourse, ItemID: "1"},
	}

	result, err := f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)
	assert.False(t, result.Fulfilled)
	assert.False(t, result.AlreadyCompleted)
}

func TestReferralPayoutScenario(t *testing.T) {
	// Spec-level walkthrough: course priced 10000, referred buyer. Referrer
	// earns 1000, tutor 7200 (80% of 9000), platform fee 1800, and the second
	// validation changes nothing.
	f := newFixture(t)
	tutor := f.createUser(t, "tutor", domain.RoleTutor)
	referrer := f.createUser(t, "referrer", domain.RoleStudent)
	buyer := f.createUser(t, "buyer", domain.RoleStudent)
	course := f.createCourse(t, tutor.ID, 10000)
	require.NoError(t, f.referrals.CreateReferral(&models.Referral{ReferrerID: referrer.ID, ReferredUserID: buyer.ID}))

	p, err := f.svc.InitiatePayment(buyer.ID, domain.ItemTypeCourse, course.ID)
	require.NoError(t, err)
	f.successVerify(p)

	result, err := f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)
	assert.True(t, result.Fulfilled)

	refWallet, err := f.wallets.GetByUserID(referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), refWallet.BalanceCents)

	tutorWallet, err := f.wallets.GetByUserID(tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7200), tutorWallet.BalanceCents)

	txs, err := f.wallets.ListTransactions(tutor.ID, 10, 0)
	require.NoError(t, err)
	for _, tx := range txs {
		if tx.Type == domain.TxTypePlatformFee {
			assert.Equal(t, int64(1800), tx.AmountCents)
		}
	}

	ref, err := f.referrals.GetByReferredUserID(buyer.ID)
	require.NoError(t, err)
	assert.True(t, ref.RewardPaid)

	// Replay: balances unchanged.
	second, err := f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)
	assert.True(t, second.AlreadyCompleted)
	refWallet, _ = f.wallets.GetByUserID(referrer.ID)
	assert.Equal(t, int64(1000), refWallet.BalanceCents)
	tutorWallet, _ = f.wallets.GetByUserID(tutor.ID)
	assert.Equal(t, int64(7200), tutorWallet.BalanceCents)
}

func TestReferralBonusPaidOnlyOnce(t *testing.T) {
	f := newFixture(t)
	tutor := f.createUser(t, "tutor", domain.RoleTutor)
	referrer := f.createUser(t, "referrer", domain.RoleStudent)
	buyer := f.createUser(t, "buyer", domain.RoleStudent)
	first := f.createCourse(t, tutor.ID, 10000)
	second := f.createCourse(t, tutor.ID, 20000)
	require.NoError(t, f.referrals.CreateReferral(&models.Referral{ReferrerID: referrer.ID, ReferredUserID: buyer.ID}))

	p1, err := f.svc.InitiatePayment(buyer.ID, domain.ItemTypeCourse, first.ID)
	require.NoError(t, err)
	f.successVerify(p1)
	_, err = f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)

	p2, err := f.svc.InitiatePayment(buyer.ID, domain.ItemTypeCourse, second.ID)
	require.NoError(t, err)
	f.successVerify(p2)
	_, err = f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)

	// Only the first purchase paid a bonus; the second splits in full.
	refWallet, err := f.wallets.GetByUserID(referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), refWallet.BalanceCents)

	tutorWallet, err := f.wallets.GetByUserID(tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7200+16000), tutorWallet.BalanceCents)
}

func TestFulfillOneOnOneCreatesAndReactivatesSubscription(t *testing.T) {
	f := newFixture(t)
	tutor := f.createUser(t, "tutor", domain.RoleTutor)
	buyer := f.createUser(t, "buyer", domain.RoleStudent)

	p, err := f.svc.InitiatePayment(buyer.ID, domain.ItemTypeOneOnOne, tutor.ID)
	require.NoError(t, err)
	f.successVerify(p)

	result, err := f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)
	assert.True(t, result.Fulfilled)

	sub, err := f.subs.GetByUserAndTutor(buyer.ID, tutor.ID)
	require.NoError(t, err)
	assert.True(t, sub.IsActive)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, domain.SubscriptionDays), sub.ExpiresAt, time.Minute)

	// Expire it, then repurchase: same row, refreshed expiry.
	require.NoError(t, f.db.Model(sub).Updates(map[string]interface{}{
		"is_active":  false,
		"expires_at": time.Now().AddDate(0, 0, -1),
	}).Error)

	p2, err := f.svc.InitiatePayment(buyer.ID, domain.ItemTypeOneOnOne, tutor.ID)
	require.NoError(t, err)
	f.successVerify(p2)
	_, err = f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)

	renewed, err := f.subs.GetByUserAndTutor(buyer.ID, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, renewed.ID)
	assert.True(t, renewed.IsActive)
	assert.True(t, renewed.ExpiresAt.After(time.Now().AddDate(0, 0, domain.SubscriptionDays-1)))
}

func TestInitiateOneOnOneBlockedOnlyWhileSubscriptionActive(t *testing.T) {
	f := newFixture(t)
	tutor := f.createUser(t, "tutor", domain.RoleTutor)
	buyer := f.createUser(t, "buyer", domain.RoleStudent)

	p, err := f.svc.InitiatePayment(buyer.ID, domain.ItemTypeOneOnOne, tutor.ID)
	require.NoError(t, err)
	f.successVerify(p)
	_, err = f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)

	// Active subscription: no second intent.
	_, err = f.svc.InitiatePayment(buyer.ID, domain.ItemTypeOneOnOne, tutor.ID)
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	// Lapsed subscription: renewal is a fresh purchase.
	sub, err := f.subs.GetByUserAndTutor(buyer.ID, tutor.ID)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(sub).Update("expires_at", time.Now().AddDate(0, 0, -1)).Error)

	renewal, err := f.svc.InitiatePayment(buyer.ID, domain.ItemTypeOneOnOne, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, renewal.Status)
}

func TestFulfillServiceEnrollsOnce(t *testing.T) {
	f := newFixture(t)
	tutor := f.createUser(t, "tutor", domain.RoleTutor)
	buyer := f.createUser(t, "buyer", domain.RoleStudent)
	svc := &models.TutorService{TutorID: tutor.ID, Title: "CV review", PriceCents: 5000, Currency: "NGN", Active: true}
	require.NoError(t, f.services.Create(svc))

	p, err := f.svc.InitiatePayment(buyer.ID, domain.ItemTypeService, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), p.AmountCents)
	f.successVerify(p)

	result, err := f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)
	assert.True(t, result.Fulfilled)

	enrolled, err := f.enrollments.ServiceExists(buyer.ID, svc.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	second, err := f.svc.ValidatePayment(context.Background(), buyer.ID, "ref")
	require.NoError(t, err)
	assert.True(t, second.AlreadyCompleted)
}

func TestInitiateCardPayment(t *testing.T) {
	f := newFixture(t)
	tutor := f.createUser(t, "tutor", domain.RoleTutor)
	buyer := f.createUser(t, "buyer", domain.RoleStudent)
	course := f.createCourse(t, tutor.ID, 10000)
	f.gateway.initResp = &paystack.InitializeResponse{
		AuthorizationURL: "https://checkout.example/abc",
		Reference:        "gw-ref-1",
	}

	p, init, err := f.svc.InitiateCardPayment(context.Background(), buyer.ID, domain.ItemTypeCourse, course.ID, "buyer@example.com", "https://app.example/cb")
	require.NoError(t, err)
	assert.Equal(t, "gw-ref-1", init.Reference)
	assert.Equal(t, "gw-ref-1", p.ProviderRef)

	stored, err := f.payments.GetByProviderRef("gw-ref-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, stored.ID)
}

func TestInitiateCardPaymentGatewayFailure(t *testing.T) {
	f := newFixture(t)
	tutor := f.createUser(t, "tutor", domain.RoleTutor)
	buyer := f.createUser(t, "buyer", domain.RoleStudent)
	course := f.createCourse(t, tutor.ID, 10000)
	f.gateway.initErr = paystack.ErrInitFailed

	_, _, err := f.svc.InitiateCardPayment(context.Background(), buyer.ID, domain.ItemTypeCourse, course.ID, "buyer@example.com", "")
	assert.ErrorIs(t, err, ErrGatewayInit)
}
