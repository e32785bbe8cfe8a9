package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/VladanMarkovic1/dental-ai-platform/internal/conversation"
	httpmiddleware "github.com/VladanMarkovic1/dental-ai-platform/internal/http/middleware"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/leads"
	"github.com/VladanMarkovic1/dental-ai-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger *logging.Logger

	ConversationHandler *conversation.Handler
	LeadsHandler        *leads.Handler
	MetricsHandler      http.Handler

	WidgetSecret       string
	AdminAuthSecret    string
	RateLimitRPS       float64
	RateLimitBurst     int
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints.
	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Widget endpoints: shared secret plus per-IP rate limiting.
	if cfg.ConversationHandler != nil {
		r.Group(func(widget chi.Router) {
			widget.Use(httpmiddleware.WidgetSecret(cfg.WidgetSecret))
			if cfg.RateLimitRPS > 0 {
				widget.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
			}
			widget.Post("/{businessID}/message", cfg.ConversationHandler.PostMessage)
		})
	}

	// Practice dashboard endpoints behind admin JWT.
	if cfg.LeadsHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Route("/businesses/{businessID}/leads", func(lr chi.Router) {
				lr.Get("/", cfg.LeadsHandler.ListLeads)
				lr.Get("/{leadID}", cfg.LeadsHandler.GetLead)
				lr.Patch("/{leadID}/status", cfg.LeadsHandler.UpdateStatus)
			})
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
