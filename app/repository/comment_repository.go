package repository

import (
	"github.com/criadoresdevideo/videoclub/app/models"
	"gorm.io/gorm"
)

// commentRepository implements the CommentRepository interface
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository instance
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create creates a new comment in the database
func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetByID retrieves a comment by its ID
func (r *commentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetByVideoID retrieves all comments of a video in chronological order.
// Thread assembly happens in the comments package, not here.
func (r *commentRepository) GetByVideoID(videoID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("video_id = ?", videoID).
		Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// Delete soft deletes a comment by its ID
func (r *commentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}

// CountByVideoID returns the number of comments on a video
func (r *commentRepository) CountByVideoID(videoID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("video_id = ?", videoID).Count(&count).Error
	return count, err
}
