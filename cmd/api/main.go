package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/VladanMarkovic1/dental-ai-platform/cmd/mainconfig"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/analytics"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/api/router"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/business"
	appconfig "github.com/VladanMarkovic1/dental-ai-platform/internal/config"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/conversation"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/leads"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/notify"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/observability/metrics"
	"github.com/VladanMarkovic1/dental-ai-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting dental-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// Stores: Postgres in production, in-memory for local development.
	var (
		businessRepo business.Repository
		leadRepo     leads.Repository
		leadHandler  *leads.Handler
	)
	if cfg.UseMemoryStores || cfg.DatabaseURL == "" {
		logger.Info("using in-memory stores")
		memBusinesses := business.NewInMemoryRepository()
		memBusinesses.Put(&business.Business{
			ID:       "demo",
			Name:     "Demo Dental Practice",
			Services: []string{"Braces", "Teeth Whitening", "Dental Implants", "Invisalign", "General Consultation"},
			Phone:    "5550001111",
		})
		memLeads := leads.NewInMemoryRepository()
		businessRepo = memBusinesses
		leadRepo = memLeads
		leadHandler = leads.NewHandler(memLeads, logger)
	} else {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		businessRepo = business.NewPostgresRepository(pool)
		pgLeads := leads.NewPostgresRepository(pool)
		leadRepo = pgLeads
		leadHandler = leads.NewHandler(pgLeads, logger)
	}

	// Analytics counters are optional; without Redis they are dropped.
	var recorder analytics.Recorder = analytics.NoopRecorder{}
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		recorder = analytics.NewRedisRecorder(redis.NewClient(opts), logger)
	}

	// Operator emails are optional as well.
	var notifier leads.Notifier
	if cfg.NotifyFromEmail != "" {
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger)
		notifier = notify.NewService(sender, logger)
	}

	writer := leads.NewWriter(leadRepo, businessRepo, recorder, notifier, logger)

	llm := buildLLM(ctx, cfg, awsCfg, logger)
	if llm == nil {
		logger.Warn("no LLM configured, generative fallback disabled")
	}

	convMetrics := metrics.NewConversationMetrics(nil)

	registry := conversation.NewRegistry(cfg.SessionIdleTimeout, cfg.SessionSweepInterval, logger)
	registry.Start()

	cascade := conversation.NewCascade(writer, llm, cfg.BedrockModelID, cfg.LLMTimeout, logger, convMetrics)
	engine := conversation.NewEngine(registry, conversation.NewClassifier(), cascade, businessRepo, recorder, logger, convMetrics)

	r := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(engine, logger),
		LeadsHandler:        leadHandler,
		MetricsHandler:      promhttp.Handler(),
		WidgetSecret:        cfg.WidgetSharedSecret,
		AdminAuthSecret:     cfg.AdminJWTSecret,
		RateLimitRPS:        cfg.RateLimitRPS,
		RateLimitBurst:      cfg.RateLimitBurst,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	registry.Stop()
	logger.Info("server stopped")
}

// buildLLM wires Bedrock as the primary completion provider with Gemini
// as a secondary. Either may be absent.
func buildLLM(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) conversation.LLMClient {
	var primary, secondary conversation.LLMClient

	if cfg.BedrockModelID != "" {
		primary = conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("gemini client failed", "error", err)
		} else {
			secondary = gemini
		}
	}

	switch {
	case primary != nil && secondary != nil:
		return conversation.NewFallbackLLMClient(primary, secondary, logger)
	case primary != nil:
		return primary
	case secondary != nil:
		return secondary
	default:
		return nil
	}
}
