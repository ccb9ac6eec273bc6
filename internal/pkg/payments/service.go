package payments

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/criadoresdevideo/videoclub/app/models"
	"github.com/criadoresdevideo/videoclub/internal/pkg/namecache"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxDirectoryScan bounds the email lookup to the first page of the user
// directory. Known scale limitation of the admin-listing lookup.
const maxDirectoryScan = 1000

// PayloadArchiver receives a copy of every ingested raw payload. Optional;
// failures are logged and never affect the ack.
type PayloadArchiver interface {
	Archive(ctx context.Context, id string, receivedAt time.Time, payload []byte) error
}

// Service ingests gateway webhooks and keeps the subscriber flag of profiles
// reconciled with payment history.
type Service struct {
	repo    Repository
	names   *namecache.Cache
	archive PayloadArchiver
}

// NewService creates a payments service from an injected repository.
func NewService(repo Repository, names *namecache.Cache) *Service {
	return &Service{repo: repo, names: names}
}

// NewServiceFromDB creates a payments service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, names *namecache.Cache) *Service {
	return NewService(NewRepository(db), names)
}

// WithArchiver attaches an optional raw-payload archiver.
func (s *Service) WithArchiver(a PayloadArchiver) *Service {
	s.archive = a
	return s
}

// Ingest runs the full webhook pipeline: parse, classify, persist, dispatch.
// A returned *MalformedBodyError or *ValidationError maps to a 400; any other
// error is a storage failure on the generic path and maps to a 500. Once the
// payment-event write (or its fallback log row) succeeds the result is always
// a success envelope, regardless of side-effect outcome.
func (s *Service) Ingest(ctx context.Context, raw []byte) (*IngestResult, error) {
	payload, err := ParseBody(raw)
	if err != nil {
		return nil, err
	}

	if Classify(payload) == ClassGeneric {
		return s.ingestGeneric(payload)
	}
	return s.ingestPayment(ctx, payload, raw)
}

func (s *Service) ingestPayment(ctx context.Context, payload map[string]any, raw []byte) (*IngestResult, error) {
	event := NormalizeEvent(payload, raw, time.Now())

	if err := s.repo.CreatePaymentEvent(event); err != nil {
		// Never fail the ack over a structured write: fall back to the
		// append-only log so the delivery is not redelivered forever.
		log.Printf("payment event write failed, falling back to webhook log: %v", err)
		logRow := &models.WebhookLog{
			Source:  "payment-gateway",
			Payload: string(raw),
			Note:    fmt.Sprintf("payment event write failed: %v", err),
		}
		if logErr := s.repo.CreateWebhookLog(logRow); logErr != nil {
			return nil, logErr
		}
		event = nil
	}

	s.archivePayload(ctx, raw)

	result := &IngestResult{
		Classification: ClassPayment,
		Evento:         stringField(payload, "evento", "event", "tipo"),
		Event:          event,
		ProcessedAt:    time.Now(),
	}

	kind := KindUnknown
	if event != nil {
		kind = ParseEventKind(event.Evento)
	} else {
		kind = ParseEventKind(result.Evento)
	}

	email := strings.TrimSpace(stringField(payload, "email"))

	switch kind {
	case KindApproved:
		result.Message = "compra aprovada salva com sucesso"
		if email != "" {
			result.Activation = s.setSubscriberByEmail(email, true)
		}
	case KindCancelled:
		result.Message = "compra cancelada registrada"
		if email != "" {
			result.Activation = s.setSubscriberByEmail(email, false)
		}
	case KindPending:
		result.Message = "compra pendente registrada"
	default:
		log.Printf("webhook: unrecognized event type %q, no side effect", result.Evento)
		result.Message = "evento registrado sem efeito"
	}

	return result, nil
}

func (s *Service) ingestGeneric(payload map[string]any) (*IngestResult, error) {
	mutation, err := DecodeGeneric(payload)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ApplyGenericMutation(mutation); err != nil {
		return nil, err
	}
	return &IngestResult{
		Classification: ClassGeneric,
		Message:        fmt.Sprintf("%s on table %s executed", mutation.Action, mutation.Table),
		ProcessedAt:    time.Now(),
	}, nil
}

// setSubscriberByEmail performs the side-effect half of the pipeline. All
// failures are swallowed into the ActivationResult: the ack must not fail.
func (s *Service) setSubscriberByEmail(email string, subscriber bool) *ActivationResult {
	user, err := s.findUserByEmail(email)
	if err != nil {
		log.Printf("webhook: user lookup for %s failed: %v", email, err)
		return &ActivationResult{Success: false, Message: "user lookup failed"}
	}
	if user == nil {
		log.Printf("webhook: no user with email %s, subscriber flag untouched", email)
		return &ActivationResult{Success: false, Message: fmt.Sprintf("user with email %s not found", email)}
	}

	// The flag mutation is idempotent: redeliveries skip the write.
	if user.IsSubscriber == subscriber {
		return &ActivationResult{Success: true, Message: "subscriber flag already up to date", UserID: user.ID}
	}

	if err := s.repo.SetSubscriber(user.ID, subscriber); err != nil {
		log.Printf("webhook: subscriber flag update for user %d failed: %v", user.ID, err)
		return &ActivationResult{Success: false, Message: "subscriber flag update failed", UserID: user.ID}
	}
	if s.names != nil {
		s.names.Invalidate(user.ID)
	}

	verb := "ativada"
	if !subscriber {
		verb = "desativada"
	}
	return &ActivationResult{
		Success: true,
		Message: fmt.Sprintf("assinatura %s para %s", verb, email),
		UserID:  user.ID,
	}
}

// findUserByEmail scans the first directory page linearly, mirroring the
// admin-level user listing this lookup was built on.
func (s *Service) findUserByEmail(email string) (*models.User, error) {
	users, err := s.repo.ListUsersPage(0, maxDirectoryScan)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(email))
	for i := range users {
		if strings.ToLower(users[i].Email) == needle {
			return &users[i], nil
		}
	}
	return nil, nil
}

// HasPaymentForEmail reports whether any payment row exists for the email.
func (s *Service) HasPaymentForEmail(email string) (bool, error) {
	return s.repo.HasPaymentForEmail(strings.TrimSpace(email))
}

// ReconcileProfile aligns a profile's subscriber flag with payment history at
// sign-up time. The write is skipped when the stored value already matches.
func (s *Service) ReconcileProfile(user *models.User) error {
	hasPayments, err := s.repo.HasPaymentForEmail(user.Email)
	if err != nil {
		return err
	}
	if user.IsSubscriber == hasPayments {
		return nil
	}
	if err := s.repo.SetSubscriber(user.ID, hasPayments); err != nil {
		return err
	}
	user.IsSubscriber = hasPayments
	if s.names != nil {
		s.names.Invalidate(user.ID)
	}
	return nil
}

func (s *Service) archivePayload(ctx context.Context, raw []byte) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Archive(ctx, uuid.NewString(), time.Now().UTC(), raw); err != nil {
		log.Printf("webhook payload archive failed: %v", err)
	}
}
