package payments

import (
	"time"

	"github.com/criadoresdevideo/videoclub/app/models"
)

// Classification is the result of the webhook body classifier.
type Classification string

const (
	ClassPayment Classification = "payment"
	ClassGeneric Classification = "generic"
)

// EventKind is the normalized payment event type after vocabulary mapping.
type EventKind string

const (
	KindApproved  EventKind = "approved"
	KindCancelled EventKind = "cancelled"
	KindPending   EventKind = "pending"
	KindUnknown   EventKind = "unknown"
)

// GenericMutation is the decoded shape of a non-payment webhook body:
// a single table mutation request.
type GenericMutation struct {
	Table  string
	Action string
	Data   map[string]any
	Where  map[string]any
}

// ActivationResult reports the outcome of a subscriber-flag side effect.
// A missing user is not an error: the ack still succeeds.
type ActivationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  uint   `json:"user_id,omitempty"`
}

// IngestResult is the success envelope data returned to the gateway once the
// raw event has been persisted. Side-effect failures are reflected in
// Activation but never fail the request.
type IngestResult struct {
	Classification Classification       `json:"classification"`
	Message        string               `json:"message"`
	Evento         string               `json:"evento,omitempty"`
	Event          *models.PaymentEvent `json:"event,omitempty"`
	Activation     *ActivationResult    `json:"subscription_activation,omitempty"`
	ProcessedAt    time.Time            `json:"processed_at"`
}
