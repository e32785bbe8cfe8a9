package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladanMarkovic1/dental-ai-platform/internal/business"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/conversation"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/leads"
	"github.com/VladanMarkovic1/dental-ai-platform/pkg/logging"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.Default()
	businesses := business.NewInMemoryRepository()
	businesses.Put(&business.Business{ID: "biz-1", Name: "Bright Smile Dental", Services: []string{"Braces"}})
	leadRepo := leads.NewInMemoryRepository()
	writer := leads.NewWriter(leadRepo, businesses, nil, nil, logger)

	registry := conversation.NewRegistry(30*time.Minute, 5*time.Minute, logger)
	t.Cleanup(registry.Stop)
	cascade := conversation.NewCascade(writer, nil, "", time.Second, logger, nil)
	engine := conversation.NewEngine(registry, conversation.NewClassifier(), cascade, businesses, nil, logger, nil)

	return New(&Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(engine, logger),
		LeadsHandler:        leads.NewHandler(leadRepo, logger),
		WidgetSecret:        "widget-secret",
		AdminAuthSecret:     "admin-secret",
	})
}

func TestRouterHealth(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestRouterWidgetRequiresSecret(t *testing.T) {
	r := testRouter(t)

	body := strings.NewReader(`{"message":"hello","sessionId":"s1"}`)
	req := httptest.NewRequest(http.MethodPost, "/biz-1/message", body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterWidgetWithSecret(t *testing.T) {
	r := testRouter(t)

	body := strings.NewReader(`{"message":"hello","sessionId":"s1"}`)
	req := httptest.NewRequest(http.MethodPost, "/biz-1/message", body)
	req.Header.Set("X-Widget-Secret", "widget-secret")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sessionId")
}

func TestRouterAdminRequiresJWT(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/businesses/biz-1/leads/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
