package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video is an AI-generated video post: a YouTube link plus the prompt that
// produced it. Posts are immutable after creation - there is no edit path.
type Video struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PublicID   string    `gorm:"type:varchar(36);uniqueIndex" json:"public_id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	YoutubeURL string    `gorm:"type:varchar(255)" json:"youtube_url" validate:"required,url,max=255"`
	Prompt     string    `gorm:"type:text" json:"prompt" validate:"required,min=1"`
	ViewCount  int64     `gorm:"default:0" json:"view_count"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (v *Video) Validate() error {
	return validator.New().Struct(v)
}

// BeforeCreate assigns the public identifier used in URLs and API responses.
func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.PublicID == "" {
		v.PublicID = uuid.New().String()
	}
	return nil
}
