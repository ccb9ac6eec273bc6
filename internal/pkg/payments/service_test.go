package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/criadoresdevideo/videoclub/app/models"
	"github.com/criadoresdevideo/videoclub/internal/pkg/namecache"
)

// fakeRepository records calls in memory for service tests.
type fakeRepository struct {
	users          []models.User
	events         []*models.PaymentEvent
	logs           []*models.WebhookLog
	mutations      []*GenericMutation
	paymentEmails  map[string]bool
	subscriberSets map[uint]bool

	failEventWrite bool
	failLogWrite   bool
	failListUsers  bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		paymentEmails:  map[string]bool{},
		subscriberSets: map[uint]bool{},
	}
}

func (f *fakeRepository) CreatePaymentEvent(event *models.PaymentEvent) error {
	if f.failEventWrite {
		return errors.New("event table unavailable")
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeRepository) CreateWebhookLog(logRow *models.WebhookLog) error {
	if f.failLogWrite {
		return errors.New("log table unavailable")
	}
	f.logs = append(f.logs, logRow)
	return nil
}

func (f *fakeRepository) HasPaymentForEmail(email string) (bool, error) {
	return f.paymentEmails[email], nil
}

func (f *fakeRepository) ListUsersPage(offset, limit int) ([]models.User, error) {
	if f.failListUsers {
		return nil, errors.New("directory unavailable")
	}
	return f.users, nil
}

func (f *fakeRepository) SetSubscriber(userID uint, subscriber bool) error {
	f.subscriberSets[userID] = subscriber
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].IsSubscriber = subscriber
		}
	}
	return nil
}

func (f *fakeRepository) ApplyGenericMutation(m *GenericMutation) error {
	f.mutations = append(f.mutations, m)
	return nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, namecache.New())
}

func TestIngestApprovedPayment(t *testing.T) {
	repo := newFakeRepository()
	repo.users = []models.User{{ID: 7, Email: "Maria@Example.com"}}
	svc := newTestService(repo)

	result, err := svc.Ingest(context.Background(),
		[]byte(`{"evento":"compra aprovada","email":"maria@example.com","produto":"plano"}`))

	assert.NoError(t, err)
	assert.Equal(t, ClassPayment, result.Classification)
	assert.Equal(t, "compra aprovada salva com sucesso", result.Message)
	assert.Len(t, repo.events, 1)
	assert.NotNil(t, result.Activation)
	assert.True(t, result.Activation.Success)
	assert.Equal(t, uint(7), result.Activation.UserID)
	assert.True(t, repo.subscriberSets[7])
}

func TestIngestCancelledPayment(t *testing.T) {
	repo := newFakeRepository()
	repo.users = []models.User{{ID: 3, Email: "joao@example.com", IsSubscriber: true}}
	svc := newTestService(repo)

	result, err := svc.Ingest(context.Background(),
		[]byte(`{"evento":"compra cancelada","email":"joao@example.com"}`))

	assert.NoError(t, err)
	assert.Equal(t, "compra cancelada registrada", result.Message)
	assert.False(t, repo.subscriberSets[3])
}

func TestIngestUnknownEmailStillAcks(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	result, err := svc.Ingest(context.Background(),
		[]byte(`{"evento":"compra aprovada","email":"ghost@example.com"}`))

	assert.NoError(t, err)
	assert.Len(t, repo.events, 1)
	assert.NotNil(t, result.Activation)
	assert.False(t, result.Activation.Success)
	assert.Contains(t, result.Activation.Message, "not found")
}

func TestIngestLookupFailureStillAcks(t *testing.T) {
	repo := newFakeRepository()
	repo.failListUsers = true
	svc := newTestService(repo)

	result, err := svc.Ingest(context.Background(),
		[]byte(`{"evento":"compra aprovada","email":"maria@example.com"}`))

	assert.NoError(t, err)
	assert.False(t, result.Activation.Success)
}

func TestIngestIdempotentRedelivery(t *testing.T) {
	repo := newFakeRepository()
	repo.users = []models.User{{ID: 9, Email: "ana@example.com", IsSubscriber: true}}
	svc := newTestService(repo)

	result, err := svc.Ingest(context.Background(),
		[]byte(`{"evento":"compra aprovada","email":"ana@example.com"}`))

	assert.NoError(t, err)
	assert.True(t, result.Activation.Success)
	assert.Equal(t, "subscriber flag already up to date", result.Activation.Message)
	// flag already matched, no write issued
	_, wrote := repo.subscriberSets[9]
	assert.False(t, wrote)
}

func TestIngestRedeliveryAppendsSecondRow(t *testing.T) {
	repo := newFakeRepository()
	repo.users = []models.User{{ID: 9, Email: "ana@example.com"}}
	svc := newTestService(repo)
	body := []byte(`{"evento":"compra aprovada","email":"ana@example.com"}`)

	_, err := svc.Ingest(context.Background(), body)
	assert.NoError(t, err)
	_, err = svc.Ingest(context.Background(), body)
	assert.NoError(t, err)

	// the event table is append-only, redeliveries land as new rows
	assert.Len(t, repo.events, 2)
	assert.True(t, repo.users[0].IsSubscriber)
}

func TestIngestPendingHasNoSideEffect(t *testing.T) {
	repo := newFakeRepository()
	repo.users = []models.User{{ID: 4, Email: "p@example.com"}}
	svc := newTestService(repo)

	result, err := svc.Ingest(context.Background(),
		[]byte(`{"evento":"compra pendente","email":"p@example.com"}`))

	assert.NoError(t, err)
	assert.Equal(t, "compra pendente registrada", result.Message)
	assert.Nil(t, result.Activation)
	assert.Empty(t, repo.subscriberSets)
}

func TestIngestUnknownEventKind(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	result, err := svc.Ingest(context.Background(),
		[]byte(`{"evento":"chargeback","email":"x@example.com"}`))

	assert.NoError(t, err)
	assert.Equal(t, "evento registrado sem efeito", result.Message)
	assert.Nil(t, result.Activation)
}

func TestIngestFallsBackToWebhookLog(t *testing.T) {
	repo := newFakeRepository()
	repo.failEventWrite = true
	svc := newTestService(repo)

	result, err := svc.Ingest(context.Background(),
		[]byte(`{"evento":"compra aprovada"}`))

	assert.NoError(t, err)
	assert.Len(t, repo.logs, 1)
	assert.Nil(t, result.Event)
	assert.Equal(t, "compra aprovada salva com sucesso", result.Message)
}

func TestIngestFailsWhenFallbackFailsToo(t *testing.T) {
	repo := newFakeRepository()
	repo.failEventWrite = true
	repo.failLogWrite = true
	svc := newTestService(repo)

	_, err := svc.Ingest(context.Background(), []byte(`{"evento":"compra aprovada"}`))
	assert.Error(t, err)
}

func TestIngestMalformedBody(t *testing.T) {
	svc := newTestService(newFakeRepository())

	_, err := svc.Ingest(context.Background(), []byte("garbage payload"))
	var malformed *MalformedBodyError
	assert.True(t, errors.As(err, &malformed))
}

func TestIngestGenericMutation(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	result, err := svc.Ingest(context.Background(),
		[]byte(`{"table":"notes","action":"insert","data":{"text":"hi"}}`))

	assert.NoError(t, err)
	assert.Equal(t, ClassGeneric, result.Classification)
	assert.Len(t, repo.mutations, 1)
	assert.Equal(t, "notes", repo.mutations[0].Table)
	assert.Empty(t, repo.events)
}

func TestIngestGenericValidation(t *testing.T) {
	svc := newTestService(newFakeRepository())

	_, err := svc.Ingest(context.Background(), []byte(`{"action":"insert","data":{"a":1}}`))
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "table", verr.Field)
}

func TestReconcileProfile(t *testing.T) {
	t.Run("sets flag when a payment exists", func(t *testing.T) {
		repo := newFakeRepository()
		repo.paymentEmails["maria@example.com"] = true
		svc := newTestService(repo)

		user := &models.User{ID: 5, Email: "maria@example.com"}
		assert.NoError(t, svc.ReconcileProfile(user))
		assert.True(t, user.IsSubscriber)
		assert.True(t, repo.subscriberSets[5])
	})

	t.Run("skips the write when the flag already matches", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo)

		user := &models.User{ID: 5, Email: "maria@example.com", IsSubscriber: false}
		assert.NoError(t, svc.ReconcileProfile(user))
		_, wrote := repo.subscriberSets[5]
		assert.False(t, wrote)
	})

	t.Run("clears a stale flag", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo)

		user := &models.User{ID: 5, Email: "maria@example.com", IsSubscriber: true}
		assert.NoError(t, svc.ReconcileProfile(user))
		assert.False(t, user.IsSubscriber)
	})
}

func TestFindUserByEmailIsCaseInsensitive(t *testing.T) {
	repo := newFakeRepository()
	repo.users = []models.User{{ID: 1, Email: "Upper@Example.com"}}
	svc := newTestService(repo)

	user, err := svc.findUserByEmail("upper@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, uint(1), user.ID)
}
