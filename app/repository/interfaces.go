package repository

import (
	"github.com/criadoresdevideo/videoclub/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByResetToken(token string) (*models.User, error)
	Update(user *models.User) error
	SetSubscriber(id uint, subscriber bool) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// VideoRepository defines the interface for video-related database operations
type VideoRepository interface {
	Create(video *models.Video) error
	GetByID(id uint) (*models.Video, error)
	GetByPublicID(publicID string) (*models.Video, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Video, error)
	List(offset, limit int) ([]models.Video, error)
	Count() (int64, error)
}

// CommentRepository defines the interface for comment-related database operations
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id uint) (*models.Comment, error)
	GetByVideoID(videoID uint) ([]models.Comment, error)
	Delete(id uint) error
	CountByVideoID(videoID uint) (int64, error)
}

// PaymentRepository defines the interface for the append-only payment tables
type PaymentRepository interface {
	CreateEvent(event *models.PaymentEvent) error
	CreateLog(logRow *models.WebhookLog) error
	HasEventForEmail(email string) (bool, error)
	ListEventsByEmail(email string) ([]models.PaymentEvent, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User    UserRepository
	Video   VideoRepository
	Comment CommentRepository
	Payment PaymentRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Video:   NewVideoRepository(db),
		Comment: NewCommentRepository(db),
		Payment: NewPaymentRepository(db),
	}
}
