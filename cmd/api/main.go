package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/closerly/backend/internal/background"
	"github.com/closerly/backend/internal/config"
	"github.com/closerly/backend/internal/database"
	"github.com/closerly/backend/internal/handlers"
	"github.com/closerly/backend/internal/metrics"
	middlewareCustom "github.com/closerly/backend/internal/middleware"
	"github.com/closerly/backend/internal/repositories"
	"github.com/closerly/backend/internal/routes"
	"github.com/closerly/backend/internal/services"
	pkglogger "github.com/closerly/backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	bookingRepo := repositories.NewBookingRepository(db)
	formationRepo := repositories.NewFormationRepository(db)
	contentRepo := repositories.NewContentRepository(db)
	analyticsRepo := repositories.NewAnalyticsRepository(db)

	// Metrics and audit logging
	appMetrics := metrics.New(prometheus.DefaultRegisterer)
	auditLogger := pkglogger.NewAuditLogger(logger)

	// Turnstile verifier
	verifier, err := services.NewTurnstileVerifier(
		cfg.Turnstile.SecretKey,
		cfg.Turnstile.VerifyURL,
		cfg.Turnstile.Timeout,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize turnstile verifier", slog.Any("error", err))
		os.Exit(1)
	}

	// Admission controller
	admissionConfig := services.AdmissionConfig{
		MaxPerEmail:    cfg.Admission.MaxPerEmail,
		MaxPerIP:       cfg.Admission.MaxPerIP,
		IdentityWindow: cfg.Admission.IdentityWindow,
		CooldownWindow: cfg.Admission.CooldownWindow,
		GlobalBurstMax: cfg.Admission.GlobalBurstMax,
		GlobalWindow:   cfg.Admission.GlobalWindow,
	}
	admissionService := services.NewAdmissionService(bookingRepo, admissionConfig, logger)

	// SES notifications, optional
	var notifier services.BookingNotifier
	if cfg.Email.NotifyAddress != "" {
		sesNotifier, err := services.NewSESNotifier(
			cfg.Email.AWSRegion,
			cfg.Email.FromAddress,
			cfg.Email.NotifyAddress,
			logger,
		)
		if err != nil {
			logger.Error("failed to initialize email notifier", slog.Any("error", err))
			os.Exit(1)
		}
		notifier = sesNotifier
	}

	// Initialize services
	analyticsService := services.NewAnalyticsService(analyticsRepo, appMetrics, logger)
	bookingService := services.NewBookingService(bookingRepo, verifier, admissionService, analyticsService, notifier, appMetrics, auditLogger, logger)
	formationService := services.NewFormationService(formationRepo, logger)
	contentService := services.NewContentService(contentRepo, logger)

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(bookingService)
	verifyHandler := handlers.NewVerifyHandler(verifier)
	formationHandler := handlers.NewFormationHandler(formationService)
	contentHandler := handlers.NewContentHandler(contentService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Analytics retention sweeper
	cleanupManager := background.NewCleanupManager(analyticsService, logger, cfg.Analytics.CleanupInterval, cfg.Analytics.Retention)

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	router.Route("/api", func(r chi.Router) {
		routes.RegisterRoutes(r, bookingHandler, verifyHandler, formationHandler, contentHandler, analyticsHandler, cfg.Admin.APIKey)
	})

	// Prometheus metrics
	router.Handle("/metrics", promhttp.Handler())

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
