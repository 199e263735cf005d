package controllers_test

import (
	"bytes"
	controllers "certify/controllers/certificate"
	"certify/models"
	certificateRoutes "certify/routers/certificateRoutes"
	"certify/utils"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubWhatsApp struct {
	configured bool
	err        error
	calls      int
	lastPhone  string
	lastURL    string
}

func (s *stubWhatsApp) IsConfigured() bool { return s.configured }

func (s *stubWhatsApp) SendCertificate(phone string, cert *models.Certificate, documentURL string) (*utils.DeliveryReceipt, error) {
	s.calls++
	s.lastPhone = phone
	s.lastURL = documentURL
	if s.err != nil {
		return nil, s.err
	}
	return &utils.DeliveryReceipt{Success: true, MessageID: "wamid.1", Status: "sent", Destination: phone}, nil
}

type stubEmail struct {
	configured bool
	err        error
	calls      int
	lastEmail  string
}

func (s *stubEmail) IsConfigured() bool { return s.configured }

func (s *stubEmail) SendCertificate(email string, cert *models.Certificate, pdfPath string) (*utils.DeliveryReceipt, error) {
	s.calls++
	s.lastEmail = email
	if s.err != nil {
		return nil, s.err
	}
	return &utils.DeliveryReceipt{Success: true, MessageID: "msg-1", Status: "accepted", Destination: email}, nil
}

type testEnv struct {
	app      *fiber.App
	store    *models.CertificateStore
	whatsapp *stubWhatsApp
	email    *stubEmail
	dir      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Certificate{}))

	dir := t.TempDir()
	whatsapp := &stubWhatsApp{}
	email := &stubEmail{}
	store := models.NewCertificateStore(db)

	ctrl := &controllers.Controller{
		Store:         store,
		Renderer:      utils.NewCertificateRenderer(dir),
		WhatsApp:      whatsapp,
		Email:         email,
		PublicBaseURL: "http://localhost:3000",
	}

	app := fiber.New()
	certificateRoutes.SetupCertificateRoutes(app, ctrl)

	return &testEnv{app: app, store: store, whatsapp: whatsapp, email: email, dir: dir}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp, env
}

func createCert(t *testing.T, env *testEnv, payload map[string]interface{}) models.Certificate {
	t.Helper()
	resp, body := doJSON(t, env.app, "POST", "/certificates/", payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var cert models.Certificate
	require.NoError(t, json.Unmarshal(body.Data, &cert))
	return cert
}

func TestCreateCertificateLifecycle(t *testing.T) {
	env := newTestEnv(t)

	cert := createCert(t, env, map[string]interface{}{
		"recipient_name":     "Asha Rao",
		"certificate_number": "CN-1001",
	})

	assert.NotEmpty(t, cert.ID)
	assert.Equal(t, filepath.Join(env.dir, cert.ID+".pdf"), cert.PDFPath)
	assert.False(t, cert.WhatsappSent)
	assert.Nil(t, cert.WhatsappSentAt)
	assert.False(t, cert.EmailSent)
	assert.Nil(t, cert.EmailSentAt)
	assert.NotZero(t, cert.IssueYear)

	// The document is downloadable
	req := httptest.NewRequest("GET", "/certificates/"+cert.ID+"/download", nil)
	resp, err := env.app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))

	// WhatsApp dispatch on an unconfigured provider fails fast with 503
	resp, _ = doJSON(t, env.app, "POST", "/certificates/"+cert.ID+"/send-whatsapp",
		map[string]interface{}{"phone_number": "9999999999"})
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Zero(t, env.whatsapp.calls)

	// Delete removes the row and the backing PDF
	resp, _ = doJSON(t, env.app, "DELETE", "/certificates/"+cert.ID, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	_, statErr := os.Stat(filepath.Join(env.dir, cert.ID+".pdf"))
	assert.True(t, os.IsNotExist(statErr))

	resp, _ = doJSON(t, env.app, "GET", "/certificates/"+cert.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateCertificateValidation(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := doJSON(t, env.app, "POST", "/certificates/", map[string]interface{}{
		"certificate_number": "CN-1",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = doJSON(t, env.app, "POST", "/certificates/", map[string]interface{}{
		"recipient_name": "Asha Rao",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDuplicateCreateConflict(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]interface{}{
		"recipient_name":     "Asha Rao",
		"certificate_number": "CN-2002",
	}
	createCert(t, env, payload)

	resp, _ := doJSON(t, env.app, "POST", "/certificates/", payload)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	count, err := env.store.CountAll()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestListPagination(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 3; i++ {
		createCert(t, env, map[string]interface{}{
			"recipient_name":     "R",
			"certificate_number": fmt.Sprintf("CN-L%d", i),
		})
	}

	resp, body := doJSON(t, env.app, "GET", "/certificates/?limit=2&offset=0", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data       []models.Certificate `json:"data"`
		Pagination struct {
			Total   int64 `json:"total"`
			Limit   int   `json:"limit"`
			Offset  int   `json:"offset"`
			HasMore bool  `json:"hasMore"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &payload))
	assert.Len(t, payload.Data, 2)
	assert.Equal(t, int64(3), payload.Pagination.Total)
	assert.True(t, payload.Pagination.HasMore)
}

func TestUpdateCertificate(t *testing.T) {
	env := newTestEnv(t)

	cert := createCert(t, env, map[string]interface{}{
		"recipient_name":     "Asha Rao",
		"certificate_number": "CN-3003",
	})

	resp, body := doJSON(t, env.app, "PATCH", "/certificates/"+cert.ID, map[string]interface{}{
		"recipient_name": "Asha R. Rao",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Certificate
	require.NoError(t, json.Unmarshal(body.Data, &updated))
	assert.Equal(t, "Asha R. Rao", updated.RecipientName)
	assert.Equal(t, cert.ID, updated.ID)

	resp, _ = doJSON(t, env.app, "PATCH", "/certificates/no-such-id", map[string]interface{}{
		"recipient_name": "X",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateCertificateNumberConflict(t *testing.T) {
	env := newTestEnv(t)

	createCert(t, env, map[string]interface{}{
		"recipient_name":     "A",
		"certificate_number": "CN-TAKEN",
	})
	cert := createCert(t, env, map[string]interface{}{
		"recipient_name":     "B",
		"certificate_number": "CN-FREE",
	})

	resp, _ := doJSON(t, env.app, "PATCH", "/certificates/"+cert.ID, map[string]interface{}{
		"certificate_number": "CN-TAKEN",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestSendWhatsAppFlipsChannelFlag(t *testing.T) {
	env := newTestEnv(t)
	env.whatsapp.configured = true

	cert := createCert(t, env, map[string]interface{}{
		"recipient_name":     "Asha Rao",
		"certificate_number": "CN-4004",
		"phone_number":       "9999999999",
	})

	resp, body := doJSON(t, env.app, "POST", "/certificates/"+cert.ID+"/send-whatsapp", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var receipt utils.DeliveryReceipt
	require.NoError(t, json.Unmarshal(body.Data, &receipt))
	assert.True(t, receipt.Success)
	assert.Equal(t, "wamid.1", receipt.MessageID)

	assert.Equal(t, 1, env.whatsapp.calls)
	assert.Equal(t, "9999999999", env.whatsapp.lastPhone)
	assert.Equal(t, "http://localhost:3000/certificates/"+cert.ID+".pdf", env.whatsapp.lastURL)

	stored, err := env.store.GetByID(cert.ID)
	require.NoError(t, err)
	assert.True(t, stored.WhatsappSent)
	assert.NotNil(t, stored.WhatsappSentAt)
	assert.False(t, stored.EmailSent)
}

func TestSendEmailFlipsChannelFlag(t *testing.T) {
	env := newTestEnv(t)
	env.email.configured = true

	cert := createCert(t, env, map[string]interface{}{
		"recipient_name":     "Asha Rao",
		"certificate_number": "CN-5005",
		"email":              "asha@example.com",
	})

	resp, _ := doJSON(t, env.app, "POST", "/certificates/"+cert.ID+"/send-email", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, 1, env.email.calls)
	assert.Equal(t, "asha@example.com", env.email.lastEmail)

	stored, err := env.store.GetByID(cert.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailSent)
	assert.NotNil(t, stored.EmailSentAt)
	assert.False(t, stored.WhatsappSent)
}

func TestSendWithoutDestinationFails(t *testing.T) {
	env := newTestEnv(t)
	env.whatsapp.configured = true
	env.email.configured = true

	cert := createCert(t, env, map[string]interface{}{
		"recipient_name":     "Asha Rao",
		"certificate_number": "CN-6006",
	})

	resp, _ := doJSON(t, env.app, "POST", "/certificates/"+cert.ID+"/send-whatsapp", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, env.app, "POST", "/certificates/"+cert.ID+"/send-email", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	assert.Zero(t, env.whatsapp.calls)
	assert.Zero(t, env.email.calls)
}

func TestSendOverrideDestinationWins(t *testing.T) {
	env := newTestEnv(t)
	env.email.configured = true

	cert := createCert(t, env, map[string]interface{}{
		"recipient_name":     "Asha Rao",
		"certificate_number": "CN-7007",
		"email":              "stored@example.com",
	})

	resp, _ := doJSON(t, env.app, "POST", "/certificates/"+cert.ID+"/send-email",
		map[string]interface{}{"email": "override@example.com"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "override@example.com", env.email.lastEmail)
}

func TestDispatchFailureLeavesFlagsUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.whatsapp.configured = true
	env.whatsapp.err = fmt.Errorf("provider rejected the message")

	cert := createCert(t, env, map[string]interface{}{
		"recipient_name":     "Asha Rao",
		"certificate_number": "CN-8008",
		"phone_number":       "9999999999",
	})

	resp, _ := doJSON(t, env.app, "POST", "/certificates/"+cert.ID+"/send-whatsapp", nil)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	stored, err := env.store.GetByID(cert.ID)
	require.NoError(t, err)
	assert.False(t, stored.WhatsappSent)
	assert.Nil(t, stored.WhatsappSentAt)
}

func TestSendUnknownCertificate(t *testing.T) {
	env := newTestEnv(t)
	env.whatsapp.configured = true

	resp, _ := doJSON(t, env.app, "POST", "/certificates/no-such-id/send-whatsapp",
		map[string]interface{}{"phone_number": "9999999999"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	env.email.configured = true

	createCert(t, env, map[string]interface{}{
		"recipient_name":     "A",
		"certificate_number": "CN-S1",
	})
	delivered := createCert(t, env, map[string]interface{}{
		"recipient_name":     "B",
		"certificate_number": "CN-S2",
		"email":              "b@example.com",
	})

	resp, _ := doJSON(t, env.app, "POST", "/certificates/"+delivered.ID+"/send-email", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, env.app, "GET", "/certificates/stats", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stats struct {
		Total     int64 `json:"total"`
		Delivered int64 `json:"delivered"`
		Pending   int64 `json:"pending"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Delivered)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, stats.Total, stats.Delivered+stats.Pending)
}
