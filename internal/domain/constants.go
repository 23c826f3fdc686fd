package domain

const (
	RoleStudent = "STUDENT"
	RoleTutor   = "TUTOR"
	RoleAdmin   = "ADMIN"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusRefunded  = "REFUNDED"
)

const (
	ItemTypeCourse   = "COURSE"
	ItemTypeService  = "SERVICE"
	ItemTypeOneOnOne = "ONE_ON_ONE"
)

const (
	TxTypeCoursePurchase = "COURSE_PURCHASE"
	TxTypeWithdrawal     = "WITHDRAWAL"
	TxTypePlatformFee    = "PLATFORM_FEE"
	TxTypeEarnings       = "EARNINGS"
	TxTypeReferralBonus  = "REFERRAL_BONUS"
)

const (
	TxStatusPending   = "PENDING"
	TxStatusCompleted = "COMPLETED"
	TxStatusFailed    = "FAILED"
)

const (
	WithdrawalStatusPending    = "PENDING"
	WithdrawalStatusProcessing = "PROCESSING"
	WithdrawalStatusCompleted  = "COMPLETED"
	WithdrawalStatusFailed     = "FAILED"
)

const (
	NotifTypeEnrollment   = "ENROLLMENT"
	NotifTypeSubscription = "SUBSCRIPTION"
	NotifTypeEarnings     = "EARNINGS"
	NotifTypeWithdrawal   = "WITHDRAWAL"
)

// Revenue split on a course purchase, applied after any referral deduction.
const (
	TutorSharePercent    = 80
	PlatformFeePercent   = 20
	ReferralSharePercent = 10
)

// One-on-one subscription length and fallback rate when a tutor has not set one.
const (
	SubscriptionDays         = 30
	DefaultOneOnOneRateCents = int64(500000)
)
