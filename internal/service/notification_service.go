package service

import (
	"encoding/json"

	"tutorbay/internal/domain"
	"tutorbay/internal/models"
	"tutorbay/internal/repository"
)

// NotificationService writes in-app notifications. Callers treat it as a
// fire-and-forget sink: a failed notification never aborts fulfillment.
type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	return s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
}

func (s *NotificationService) NotifyEnrollment(userID uint, courseTitle string, courseID uint) error {
	return s.Notify(userID, domain.NotifTypeEnrollment, "Enrollment successful",
		"You are now enrolled in "+courseTitle, map[string]interface{}{"course_id": courseID})
}

func (s *NotificationService) NotifyServiceEnrollment(userID uint, serviceTitle string, serviceID uint) error {
	return s.Notify(userID, domain.NotifTypeEnrollment, "Service purchased",
		"You now have access to "+serviceTitle, map[string]interface{}{"service_id": serviceID})
}

func (s *NotificationService) NotifySubscriptionActivated(userID uint, tutorName string, tutorID uint) error {
	return s.Notify(userID, domain.NotifTypeSubscription, "Subscription active",
		"Your one-on-one subscription with "+tutorName+" is active", map[string]interface{}{"tutor_id": tutorID})
}

func (s *NotificationService) NotifyEarnings(userID uint, amountCents int64, courseID uint) error {
	return s.Notify(userID, domain.NotifTypeEarnings, "New earnings",
		"A student purchased your course", map[string]interface{}{"amount_cents": amountCents, "course_id": courseID})
}

func (s *NotificationService) NotifyWithdrawalProcessing(userID uint, amountCents int64, reference string) error {
	return s.Notify(userID, domain.NotifTypeWithdrawal, "Withdrawal processing",
		"Your withdrawal is being processed", map[string]interface{}{"amount_cents": amountCents, "reference": reference})
}
