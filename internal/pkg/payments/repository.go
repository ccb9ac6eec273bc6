package payments

import (
	"errors"

	"github.com/criadoresdevideo/videoclub/app/models"
	"gorm.io/gorm"
)

// Repository provides DB operations used by the payments service.
type Repository interface {
	CreatePaymentEvent(event *models.PaymentEvent) error
	CreateWebhookLog(logRow *models.WebhookLog) error
	HasPaymentForEmail(email string) (bool, error)
	ListUsersPage(offset, limit int) ([]models.User, error)
	SetSubscriber(userID uint, subscriber bool) error
	ApplyGenericMutation(m *GenericMutation) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payments repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreatePaymentEvent(event *models.PaymentEvent) error {
	return r.db.Create(event).Error
}

func (r *gormRepository) CreateWebhookLog(logRow *models.WebhookLog) error {
	return r.db.Create(logRow).Error
}

func (r *gormRepository) HasPaymentForEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PaymentEvent{}).Where("email = ?", email).
		Limit(1).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository) ListUsersPage(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at ASC").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

func (r *gormRepository) SetSubscriber(userID uint, subscriber bool) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("is_subscriber", subscriber).Error
}

// ApplyGenericMutation executes a single validated table mutation. The caller
// has already checked table/action/data/where presence.
func (r *gormRepository) ApplyGenericMutation(m *GenericMutation) error {
	switch m.Action {
	case "insert":
		return r.db.Table(m.Table).Create(m.Data).Error
	case "update":
		return r.db.Table(m.Table).Where(m.Where).Updates(m.Data).Error
	case "delete":
		return r.db.Table(m.Table).Where(m.Where).Delete(nil).Error
	default:
		return errors.New("unsupported action: " + m.Action)
	}
}
