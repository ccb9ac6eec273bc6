package repository

import (
	"github.com/criadoresdevideo/videoclub/app/models"
	"gorm.io/gorm"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// CreateEvent appends one normalized payment event. Events are never updated.
func (r *paymentRepository) CreateEvent(event *models.PaymentEvent) error {
	return r.db.Create(event).Error
}

// CreateLog appends a generic webhook log row (fallback path)
func (r *paymentRepository) CreateLog(logRow *models.WebhookLog) error {
	return r.db.Create(logRow).Error
}

// HasEventForEmail reports whether any payment event exists for the email
func (r *paymentRepository) HasEventForEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PaymentEvent{}).Where("email = ?", email).
		Limit(1).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListEventsByEmail returns all payment events recorded for an email
func (r *paymentRepository) ListEventsByEmail(email string) ([]models.PaymentEvent, error) {
	var events []models.PaymentEvent
	err := r.db.Where("email = ?", email).Order("created_at ASC").Find(&events).Error
	return events, err
}
