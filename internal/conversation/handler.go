package conversation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/VladanMarkovic1/dental-ai-platform/internal/business"
	"github.com/VladanMarkovic1/dental-ai-platform/pkg/logging"
)

// maxMessageBytes bounds the request body read from the widget.
const maxMessageBytes = 16 << 10

// Handler exposes the chat widget endpoint.
type Handler struct {
	engine *Engine
	logger *logging.Logger
}

func NewHandler(engine *Engine, logger *logging.Logger) *Handler {
	if engine == nil {
		panic("conversation: engine required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

type messageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type messageResponse struct {
	Response  string `json:"response"`
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}

// PostMessage handles POST /{businessID}/message. A visitor-facing turn
// always produces some response text; only an unknown tenant or a bad
// request gets an error status.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")

	var req messageRequest
	body := http.MaxBytesReader(w, r.Body, maxMessageBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply, err := h.engine.Process(r.Context(), businessID, req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, business.ErrBusinessNotFound) {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}
		// The visitor still gets an apology; the cause goes to the log.
		h.logger.Error("message turn failed", "error", err, "business_id", businessID)
		writeJSON(w, http.StatusOK, messageResponse{
			Response:  storeFailureReply,
			Type:      IntentErrorFallback,
			SessionID: req.SessionID,
		})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Response:  reply.Text,
		Type:      reply.Intent,
		SessionID: req.SessionID,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
