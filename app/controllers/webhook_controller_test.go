package controllers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/criadoresdevideo/videoclub/app/models"
	"github.com/criadoresdevideo/videoclub/internal/pkg/namecache"
	"github.com/criadoresdevideo/videoclub/internal/pkg/payments"
)

// memoryPaymentRepo is an in-memory payments.Repository for handler tests.
type memoryPaymentRepo struct {
	users  []models.User
	events []*models.PaymentEvent
	flags  map[uint]bool
}

func (m *memoryPaymentRepo) CreatePaymentEvent(e *models.PaymentEvent) error {
	m.events = append(m.events, e)
	return nil
}

func (m *memoryPaymentRepo) CreateWebhookLog(l *models.WebhookLog) error { return nil }

func (m *memoryPaymentRepo) HasPaymentForEmail(email string) (bool, error) { return false, nil }

func (m *memoryPaymentRepo) ListUsersPage(offset, limit int) ([]models.User, error) {
	return m.users, nil
}

func (m *memoryPaymentRepo) SetSubscriber(id uint, s bool) error {
	if m.flags == nil {
		m.flags = map[uint]bool{}
	}
	m.flags[id] = s
	return nil
}

func (m *memoryPaymentRepo) ApplyGenericMutation(g *payments.GenericMutation) error { return nil }

func newWebhookTestApp(repo *memoryPaymentRepo) *fiber.App {
	paymentService = payments.NewService(repo, namecache.New())

	app := fiber.New()
	app.All("/api/webhook", HandleWebhook)
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHandleWebhookRejectsNonPost(t *testing.T) {
	app := newWebhookTestApp(&memoryPaymentRepo{})

	req := httptest.NewRequest("GET", "/api/webhook", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, false, body["success"])
}

func TestHandleWebhookMalformedBody(t *testing.T) {
	app := newWebhookTestApp(&memoryPaymentRepo{})

	req := httptest.NewRequest("POST", "/api/webhook", strings.NewReader("not a payload"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "not a payload", body["received"])
}

func TestHandleWebhookApprovedPurchase(t *testing.T) {
	repo := &memoryPaymentRepo{users: []models.User{{ID: 1, Email: "maria@example.com"}}}
	app := newWebhookTestApp(repo)

	payload := `{"evento":"compra aprovada","email":"maria@example.com","produto":"plano"}`
	req := httptest.NewRequest("POST", "/api/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "compra aprovada salva com sucesso", body["message"])
	assert.Equal(t, "payment", body["classification"])

	activation, ok := body["subscription_activation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, activation["success"])
	assert.True(t, repo.flags[1])
	assert.Len(t, repo.events, 1)
}

func TestHandleWebhookUnknownEmailStillAcks(t *testing.T) {
	app := newWebhookTestApp(&memoryPaymentRepo{})

	payload := `{"evento":"compra aprovada","email":"ghost@example.com"}`
	req := httptest.NewRequest("POST", "/api/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["success"])

	activation, ok := body["subscription_activation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, activation["success"])
}

func TestHandleWebhookGenericValidation(t *testing.T) {
	app := newWebhookTestApp(&memoryPaymentRepo{})

	payload := `{"action":"insert","data":{"a":1}}`
	req := httptest.NewRequest("POST", "/api/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "table", body["field"])
}

func TestHandleWebhookFormEncodedBody(t *testing.T) {
	repo := &memoryPaymentRepo{users: []models.User{{ID: 2, Email: "joao@example.com"}}}
	app := newWebhookTestApp(repo)

	payload := "evento=compra+aprovada&email=joao%40example.com"
	req := httptest.NewRequest("POST", "/api/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, repo.flags[2])
}
