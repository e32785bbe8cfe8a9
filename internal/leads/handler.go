package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/VladanMarkovic1/dental-ai-platform/pkg/logging"
)

// Handler serves the admin lead endpoints.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads  []*Lead `json:"leads"`
	Count  int     `json:"count"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// ListLeads handles GET /admin/businesses/{businessID}/leads requests
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if businessID == "" {
		http.Error(w, "missing business_id", http.StatusBadRequest)
		return
	}

	filter := ListFilter{Limit: 50}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}
	filter.Status = r.URL.Query().Get("status")

	leads, err := h.repo.ListByBusiness(r.Context(), businessID, filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err, "business_id", businessID)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, ListLeadsResponse{
		Leads:  leads,
		Count:  len(leads),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

// GetLead handles GET /admin/businesses/{businessID}/leads/{leadID} requests
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	leadID := chi.URLParam(r, "leadID")
	if businessID == "" || leadID == "" {
		http.Error(w, "missing business_id or lead_id", http.StatusBadRequest)
		return
	}

	lead, err := h.repo.GetByID(r.Context(), businessID, leadID)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			http.Error(w, "lead not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get lead", "error", err, "lead_id", leadID)
		http.Error(w, "failed to get lead", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, lead)
}

// UpdateStatus handles PATCH /admin/businesses/{businessID}/leads/{leadID}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	leadID := chi.URLParam(r, "leadID")
	if businessID == "" || leadID == "" {
		http.Error(w, "missing business_id or lead_id", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), businessID, leadID, req.Status); err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			http.Error(w, "invalid status", http.StatusBadRequest)
		case errors.Is(err, ErrLeadNotFound):
			http.Error(w, "lead not found", http.StatusNotFound)
		default:
			h.logger.Error("failed to update lead status", "error", err, "lead_id", leadID)
			http.Error(w, "failed to update status", http.StatusInternalServerError)
		}
		return
	}

	h.logger.Info("lead status updated", "lead_id", leadID, "status", req.Status)
	h.writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
