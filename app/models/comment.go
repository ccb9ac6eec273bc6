package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Comment belongs to a video. ParentID nil means a root comment; non-nil means
// a reply to another comment on the same video.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	VideoID   uint           `gorm:"index" json:"video_id"`
	Video     Video          `gorm:"foreignKey:VideoID" json:"video,omitempty"`
	UserID    uint           `gorm:"index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ParentID  *uint          `gorm:"index" json:"parent_id,omitempty"`
	Text      string         `gorm:"type:text" json:"text" validate:"required,min=1"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Comment) Validate() error {
	return validator.New().Struct(c)
}

// IsReply reports whether the comment references a parent comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil && *c.ParentID != 0
}
