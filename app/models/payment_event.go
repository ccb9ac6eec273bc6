package models

import "time"

const (
	PaymentEventUnknown    = "desconhecido"
	PaymentStatusPending   = "pendente"
	PaymentStatusApproved  = "aprovado"
	PaymentStatusCancelled = "cancelado"
)

// PaymentEvent is one normalized gateway notification, persisted append-only.
// Rows are written once per webhook delivery and never updated; at-least-once
// delivery by the gateway can and will duplicate rows.
type PaymentEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	EventID        string    `gorm:"type:varchar(36);uniqueIndex" json:"event_id"`
	Evento         string    `gorm:"type:varchar(100);index" json:"evento"`
	Produto        string    `gorm:"type:varchar(200)" json:"produto"`
	Transacao      string    `gorm:"type:varchar(100);index" json:"transacao"`
	Email          string    `gorm:"type:varchar(200);index" json:"email"`
	Status         string    `gorm:"type:varchar(50)" json:"status"`
	EventTimestamp time.Time `gorm:"type:timestamp" json:"event_timestamp"`
	RawPayload     string    `gorm:"type:longtext" json:"raw_payload"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
