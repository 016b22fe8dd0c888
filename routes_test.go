package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"booking-api/brokers"
	"booking-api/config"
	"booking-api/domain"
	"booking-api/dto"
	"booking-api/repositories"
	"booking-api/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Env: "test", Settings: config.DefaultSettings()}
	dc, err := repositories.NewFileContext(t.TempDir())
	require.NoError(t, err)

	log := zap.NewNop()
	logBroker := brokers.NewLogBroker(log)
	svc, err := newServices(dc, cfg.Settings,
		repositories.NewCacheRepository("", cfg.Settings.Cache, log),
		repositories.NewNoopHistoryArchive(),
		[]services.EmailSenderBroker{logBroker},
		[]services.SmsSenderBroker{logBroker},
		log)
	require.NoError(t, err)

	return newRouter(cfg, log, dc, svc, nil)
}

func send(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// Test: registro de usuario, template y envío de email de punta a punta
func TestRouter_EmailManagementFlow(t *testing.T) {
	router := newTestRouter(t)

	w := send(t, router, http.MethodPost, "/api/users", dto.CreateUserRequest{
		FirstName:    "Ana",
		LastName:     "Pérez",
		EmailAddress: "ana@example.com",
		Password:     "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var user struct {
		Data dto.UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))

	w = send(t, router, http.MethodPost, "/api/notifications/emailTemplates", domain.EmailTemplate{
		NotificationTemplate: domain.NotificationTemplate{
			TemplateType: domain.TemplateSystemWelcome,
			Content:      "Bienvenida {{FullName}} a {{CompanyName}}",
		},
		Subject: "Hola {{FirstName}}",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var template struct {
		Data domain.EmailTemplate `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &template))

	w = send(t, router, http.MethodGet, "/api/notifications/emailTemplates", nil)
	require.Equal(t, http.StatusOK, w.Code)

	path := "/api/notifications/emailManagement/" + user.Data.ID.String() + "/" + template.Data.ID.String()
	w = send(t, router, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sent struct {
		Data domain.EmailHistory `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))
	assert.True(t, sent.Data.IsSuccessful)
	assert.Equal(t, "Hola Ana", sent.Data.Subject)
	assert.Equal(t, "Bienvenida Ana Pérez a AirBnB", sent.Data.Content)

	w = send(t, router, http.MethodGet, "/api/notifications/emails?receiver_id="+user.Data.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []domain.EmailHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history, 1)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	w := send(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/health"`)
}
