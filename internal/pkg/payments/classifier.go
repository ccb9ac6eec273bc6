package payments

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/criadoresdevideo/videoclub/app/models"
	"github.com/google/uuid"
)

// rawEchoLimit bounds how much of an unparsable body is echoed back.
const rawEchoLimit = 200

// paymentVocabulary is the fixed key set that marks a body as a payment event.
// Both the gateway's localized fields and their English variants are known.
var paymentVocabulary = map[string]struct{}{
	"evento":    {},
	"transacao": {},
	"produto":   {},
	"status":    {},
	"compra":    {},
	"payment":   {},
	"order":     {},
}

// MalformedBodyError is returned when the body is neither JSON nor
// URL-encoded form data. Echo carries a truncated copy for diagnosis.
type MalformedBodyError struct {
	Echo string
}

func (e *MalformedBodyError) Error() string {
	return "invalid body format: " + e.Echo
}

// ValidationError names the missing or invalid webhook field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q %s", e.Field, e.Reason)
}

// ParseBody reads the raw request body into a flat key/value map. JSON is
// tried first, then URL-encoded form data, to tolerate gateways that post
// either content type regardless of their headers.
func ParseBody(raw []byte) (map[string]any, error) {
	trimmed := strings.TrimSpace(string(raw))

	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
		return payload, nil
	}

	values, err := url.ParseQuery(trimmed)
	if err != nil || len(values) == 0 || onlyFlagKeys(values) {
		return nil, &MalformedBodyError{Echo: truncate(trimmed, rawEchoLimit)}
	}

	payload = make(map[string]any, len(values))
	for k, v := range values {
		if len(v) > 0 {
			payload[k] = v[0]
		}
	}
	return payload, nil
}

// onlyFlagKeys rejects bodies that url.ParseQuery accepted but that carry no
// key=value pair at all (e.g. plain text without an equals sign).
func onlyFlagKeys(values url.Values) bool {
	for _, v := range values {
		for _, s := range v {
			if s != "" {
				return false
			}
		}
	}
	return true
}

// Classify decides between the two recognized body shapes. Any intersection
// with the payment vocabulary wins; everything else is a generic mutation.
func Classify(payload map[string]any) Classification {
	for key := range payload {
		if _, ok := paymentVocabulary[strings.ToLower(strings.TrimSpace(key))]; ok {
			return ClassPayment
		}
	}
	return ClassGeneric
}

// ParseEventKind maps the free-form event type onto the normalized kinds.
// Matching is case-insensitive and accepts the localized and English
// vocabularies ("compra aprovada", "payment_approved", "completed", ...).
func ParseEventKind(evento string) EventKind {
	e := strings.ToLower(strings.TrimSpace(evento))
	switch {
	case e == "":
		return KindUnknown
	case strings.Contains(e, "aprovad"),
		strings.Contains(e, "approved"),
		strings.Contains(e, "completed"):
		return KindApproved
	case strings.Contains(e, "cancel"),
		strings.Contains(e, "refund"):
		return KindCancelled
	case strings.Contains(e, "pendente"),
		strings.Contains(e, "pending"):
		return KindPending
	default:
		return KindUnknown
	}
}

// NormalizeEvent builds the append-only payment record from a classified
// payload, defaulting every missing field.
func NormalizeEvent(payload map[string]any, raw []byte, now time.Time) *models.PaymentEvent {
	evento := stringField(payload, "evento", "event", "tipo")
	if evento == "" {
		evento = models.PaymentEventUnknown
	}

	status := statusForKind(ParseEventKind(evento))
	if status == "" {
		status = stringField(payload, "status")
	}
	if status == "" {
		status = models.PaymentStatusPending
	}

	eventTime := now
	if ts := stringField(payload, "data", "date", "timestamp"); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			eventTime = parsed
		}
	}

	return &models.PaymentEvent{
		EventID:        uuid.New().String(),
		Evento:         evento,
		Produto:        stringField(payload, "produto", "product"),
		Transacao:      stringField(payload, "transacao", "transaction", "order"),
		Email:          strings.TrimSpace(stringField(payload, "email")),
		Status:         status,
		EventTimestamp: eventTime,
		RawPayload:     string(raw),
	}
}

func statusForKind(kind EventKind) string {
	switch kind {
	case KindApproved:
		return models.PaymentStatusApproved
	case KindCancelled:
		return models.PaymentStatusCancelled
	case KindPending:
		return models.PaymentStatusPending
	default:
		return ""
	}
}

// DecodeGeneric validates and decodes the generic table-mutation shape.
func DecodeGeneric(payload map[string]any) (*GenericMutation, error) {
	table := stringField(payload, "table")
	if table == "" {
		return nil, &ValidationError{Field: "table", Reason: "is required"}
	}

	action := strings.ToLower(stringField(payload, "action"))
	if action == "" {
		action = "insert"
	}
	switch action {
	case "insert", "update", "delete":
	default:
		return nil, &ValidationError{Field: "action", Reason: "must be insert, update or delete"}
	}

	data := mapField(payload, "data")
	where := mapField(payload, "where")

	if (action == "insert" || action == "update") && len(data) == 0 {
		return nil, &ValidationError{Field: "data", Reason: "is required for " + action}
	}
	if (action == "update" || action == "delete") && len(where) == 0 {
		return nil, &ValidationError{Field: "where", Reason: "is required for " + action}
	}

	return &GenericMutation{
		Table:  table,
		Action: action,
		Data:   data,
		Where:  where,
	}, nil
}

func stringField(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := payload[key]; ok {
			switch s := v.(type) {
			case string:
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					return trimmed
				}
			case float64:
				return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", s), "0"), ".")
			case bool:
				return fmt.Sprintf("%t", s)
			}
		}
	}
	return ""
}

func mapField(payload map[string]any, key string) map[string]any {
	v, ok := payload[key]
	if !ok {
		return nil
	}
	if m, ok := v.(map[string]any); ok {
		return m
	}
	// Form-encoded bodies can carry nested objects as JSON strings.
	if s, ok := v.(string); ok && s != "" {
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err == nil {
			return m
		}
	}
	return nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
