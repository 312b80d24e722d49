package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/audit"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/config"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/database"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/handlers"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/llm"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/logging"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/metrics"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/middleware"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/notify"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/repositories"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/retry"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/services"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/session"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Database.Host = config.ResolveHostForDocker(cfg.Database.Host)
	cfg.LLM.BaseURL = config.ResolveURLForDocker(cfg.LLM.BaseURL)

	logger.Info("Configuration loaded",
		zap.String("version", cfg.Version),
		zap.String("base_url", cfg.BaseURL),
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Bool("email_configured", cfg.Email.IsConfigured()),
		zap.String("retention_schedule", cfg.Retention.Schedule),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled))

	db, err := database.Connect(ctx, database.ConfigFrom(cfg.Database), retry.StartupConfig(), logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.Database.MigrationsPath, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	chatClient, err := llm.NewChatClient(cfg.LLM, logger)
	if err != nil {
		return fmt.Errorf("create llm client: %w", err)
	}

	if cfg.Session.Secret == "" {
		logger.Warn("SESSION_SECRET not set, using a random key; sessions will not survive restarts")
	}
	sessions, err := session.NewStore(cfg.Session, cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("create session store: %w", err)
	}

	if !cfg.Email.IsConfigured() {
		logger.Warn("Email notifications not configured; contact submissions will only be stored")
	}

	collector := metrics.NewCollector(cfg.Metrics)

	conversationRepo := repositories.NewConversationRepository(db)
	contactRepo := repositories.NewContactRepository(db)

	chatService := services.NewChatService(conversationRepo, chatClient, cfg.LLM, collector, logger)
	contactService := services.NewContactService(contactRepo,
		notify.NewHTTPNotifier(cfg.Email, logger), audit.NewSecurityAuditor(logger), collector, logger)
	retentionService := services.NewRetentionService(conversationRepo, cfg.Retention, collector, logger)

	sitemapHandler, err := handlers.NewSitemapHandler(cfg.Site.URL, logger)
	if err != nil {
		return fmt.Errorf("render sitemap: %w", err)
	}

	instrument := func(route string, next http.Handler) http.Handler {
		return middleware.InstrumentRoute(collector, route, middleware.WithClientIP(next))
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewChatHandler(chatService, sessions, logger).RegisterRoutes(mux, instrument)
	handlers.NewContactHandler(contactService, logger).RegisterRoutes(mux, instrument)
	sitemapHandler.RegisterRoutes(mux)
	if collector != nil {
		mux.Handle("GET /metrics", collector.Handler())
	}

	if err := retentionService.Start(ctx); err != nil {
		return fmt.Errorf("start retention scheduler: %w", err)
	}
	defer retentionService.Stop()

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           middleware.RequestLogger(logger.Named("http"))(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting sprintlaunchers-api",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
