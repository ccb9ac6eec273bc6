package models

import "time"

// WebhookLog is the generic append-only fallback for webhook payloads that
// could not be written to their primary table. A row here means ingestion
// succeeded even though the structured write failed.
type WebhookLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Source    string    `gorm:"type:varchar(50);index" json:"source"`
	Payload   string    `gorm:"type:longtext" json:"payload"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
