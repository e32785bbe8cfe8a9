package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLeads(t *testing.T, repo *InMemoryRepository) {
	t.Helper()
	ctx := context.Background()
	for _, lead := range []*Lead{
		{ID: "lead-1", BusinessID: "biz-1", Name: "John Doe", Phone: "5551234567", Service: "Braces", Status: StatusNew},
		{ID: "lead-2", BusinessID: "biz-1", Name: "Jane Roe", Phone: "5559876543", Service: "Teeth Whitening", Status: StatusContacted},
		{ID: "lead-3", BusinessID: "biz-2", Name: "Other Tenant", Phone: "5550001111", Service: "Implants", Status: StatusNew},
	} {
		_, err := repo.Create(ctx, lead)
		require.NoError(t, err)
	}
}

func adminRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/admin/businesses/{businessID}/leads", func(r chi.Router) {
		r.Get("/", h.ListLeads)
		r.Get("/{leadID}", h.GetLead)
		r.Patch("/{leadID}/status", h.UpdateStatus)
	})
	return r
}

func TestListLeadsScopedToBusiness(t *testing.T) {
	repo := NewInMemoryRepository()
	seedLeads(t, repo)
	router := adminRouter(NewHandler(repo, nil))

	req := httptest.NewRequest(http.MethodGet, "/admin/businesses/biz-1/leads", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ListLeadsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
	for _, lead := range resp.Leads {
		assert.Equal(t, "biz-1", lead.BusinessID)
	}
}

func TestListLeadsStatusFilter(t *testing.T) {
	repo := NewInMemoryRepository()
	seedLeads(t, repo)
	router := adminRouter(NewHandler(repo, nil))

	req := httptest.NewRequest(http.MethodGet, "/admin/businesses/biz-1/leads?status=contacted", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ListLeadsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Jane Roe", resp.Leads[0].Name)
}

func TestGetLeadWrongTenant(t *testing.T) {
	repo := NewInMemoryRepository()
	seedLeads(t, repo)
	router := adminRouter(NewHandler(repo, nil))

	req := httptest.NewRequest(http.MethodGet, "/admin/businesses/biz-2/leads/lead-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatus(t *testing.T) {
	repo := NewInMemoryRepository()
	seedLeads(t, repo)
	router := adminRouter(NewHandler(repo, nil))

	body, _ := json.Marshal(map[string]string{"status": StatusConverted})
	req := httptest.NewRequest(http.MethodPatch, "/admin/businesses/biz-1/leads/lead-1/status", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	lead, err := repo.GetByID(context.Background(), "biz-1", "lead-1")
	require.NoError(t, err)
	assert.Equal(t, StatusConverted, lead.Status)
	require.NotEmpty(t, lead.Interactions)
	assert.Equal(t, "status_change", lead.Interactions[len(lead.Interactions)-1].Kind)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	repo := NewInMemoryRepository()
	seedLeads(t, repo)
	router := adminRouter(NewHandler(repo, nil))

	body, _ := json.Marshal(map[string]string{"status": "lost"})
	req := httptest.NewRequest(http.MethodPatch, "/admin/businesses/biz-1/leads/lead-1/status", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
