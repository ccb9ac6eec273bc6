package repository

import (
	"github.com/criadoresdevideo/videoclub/app/models"
	"gorm.io/gorm"
)

// videoRepository implements the VideoRepository interface
type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new video repository instance
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

// Create creates a new video post in the database
func (r *videoRepository) Create(video *models.Video) error {
	return r.db.Create(video).Error
}

// GetByID retrieves a video by its ID
func (r *videoRepository) GetByID(id uint) (*models.Video, error) {
	var video models.Video
	err := r.db.First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByPublicID retrieves a video by its public UUID
func (r *videoRepository) GetByPublicID(publicID string) (*models.Video, error) {
	var video models.Video
	err := r.db.Where("public_id = ?", publicID).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByUserID retrieves videos posted by a user, newest first
func (r *videoRepository) GetByUserID(userID uint, offset, limit int) ([]models.Video, error) {
	var videos []models.Video
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&videos).Error
	return videos, err
}

// List retrieves a page of videos, newest first
func (r *videoRepository) List(offset, limit int) ([]models.Video, error) {
	var videos []models.Video
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&videos).Error
	return videos, err
}

// Count returns the total number of videos
func (r *videoRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Video{}).Count(&count).Error
	return count, err
}
