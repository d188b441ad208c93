package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/stuapp/suggest-api/internal/config"
	"github.com/stuapp/suggest-api/internal/database"
	"github.com/stuapp/suggest-api/internal/handlers"
	"github.com/stuapp/suggest-api/internal/logger"
	"github.com/stuapp/suggest-api/internal/middleware"
	"github.com/stuapp/suggest-api/internal/queue"
	"github.com/stuapp/suggest-api/internal/services/ai"
	"github.com/stuapp/suggest-api/internal/services/oidc"
	"github.com/stuapp/suggest-api/internal/suggest"
	"github.com/stuapp/suggest-api/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

const serviceName = "suggest-api"

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override debug mode if flag is set
	debugMode := cfg.ServerDebugMode || *debugFlag

	// Initialize logger
	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			// Ignore sync errors in production
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	tracingEnabled := false
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			shutdown, err := telemetry.Setup(context.Background(), telemetry.Config{
				ServiceName: serviceName,
				Endpoint:    cfg.OTELEndpoint,
			})
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracingEnabled = true
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Connect to database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	// Connect to Redis for rate limiting
	redisLimiter, err := middleware.NewRedisRateLimiter(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := redisLimiter.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	// Connect to RabbitMQ for audit event publishing (required).
	// Retry with exponential backoff to handle broker startup delays.
	auditQueue := connectQueue(cfg.RabbitMQURL, zapLogger)
	defer func() {
		if err := auditQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()

	auditPublisher := queue.NewAsyncPublisher(auditQueue, zapLogger)

	// Initialize repositories
	userRepo := database.NewUserRepository(db)
	usageRepo := database.NewDailyUsageRepository(db)
	tierLimitRepo := database.NewTierLimitRepository(db)

	// Initialize OIDC
	oidcProvider := oidc.NewProvider(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCJWKSURL, cfg.FrontendURL+"/auth/callback")
	jwksManager := oidc.NewJWKSManager()

	// Tier limits: compiled defaults, optional file overrides, then DB
	// overrides refreshed in the background.
	limits := suggest.NewLimitResolver(tierLimitRepo, zapLogger)
	if cfg.TierLimitsFile != "" {
		if err := limits.LoadFile(cfg.TierLimitsFile); err != nil {
			zapLogger.Fatal("failed_to_load_tier_limits_file",
				zap.String("path", cfg.TierLimitsFile),
				zap.Error(err),
			)
		}
		zapLogger.Info("loaded_tier_limits_file", zap.String("path", cfg.TierLimitsFile))
	}
	refreshCtx, refreshCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := limits.Refresh(refreshCtx); err != nil {
		zapLogger.Warn("initial_tier_limit_refresh_failed", zap.Error(err))
	}
	refreshCancel()

	// AI engine. An empty key is tolerated; generation calls will fail and
	// surface as handler_unavailable envelopes.
	if cfg.OpenAIKey == "" {
		zapLogger.Warn("openai_api_key_not_configured")
	}
	engine := ai.NewOpenAIEngine(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, zapLogger, debugMode)

	// Wire the suggestion pipeline
	ledger := suggest.NewLedger(usageRepo, limits)
	tiers := suggest.NewRepositoryTierResolver(userRepo)
	router := suggest.NewRouter(tiers, ledger, engine, auditPublisher, zapLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(oidcProvider)
	suggestionsHandler := handlers.NewSuggestionsHandler(router)
	healthChecker := handlers.NewHealthChecker(db, redisLimiter, auditQueue)

	// Setup router
	r := mux.NewRouter()

	// Note: in gorilla/mux, middleware registered first executes first
	if tracingEnabled {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORSFromEnv(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	rateLimitMW, err := middleware.RateLimit(redisLimiter, cfg.RateLimit)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter",
			zap.String("rate", cfg.RateLimit),
			zap.Error(err),
		)
	}

	// Public routes (no rate limiting for health checks)
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	// OpenAPI spec (public)
	openAPIPath := filepath.Join("api", "openapi", "openapi.yaml")
	openAPIHandler := handlers.NewOpenAPIHandler(openAPIPath)
	openAPIHandler.RegisterRoutes(r)

	// API v1 routes
	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	authMW := middleware.Auth(userRepo, oidcProvider, jwksManager, auditPublisher, zapLogger)

	// Auth routes
	authRouter := apiRouter.PathPrefix("/auth").Subrouter()

	loginRouter := authRouter.PathPrefix("/oidc").Subrouter()
	loginRouter.Use(rateLimitMW)
	loginRouter.HandleFunc("/login", authHandler.GetOIDCLogin).Methods("GET")

	protectedAuthRouter := authRouter.PathPrefix("").Subrouter()
	protectedAuthRouter.Use(authMW)
	protectedAuthRouter.Use(rateLimitMW)
	protectedAuthRouter.HandleFunc("/me", authHandler.GetMe).Methods("GET")

	// AI suggestion routes (protected)
	aiRouter := apiRouter.PathPrefix("/ai").Subrouter()
	aiRouter.Use(authMW)
	aiRouter.Use(rateLimitMW)
	suggestionsHandler.RegisterRoutes(aiRouter)

	// Catch-all OPTIONS handler for preflight requests; the CORS middleware
	// has already set headers by the time this runs.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Setup server
	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   90 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	// Background tier-limit reload loop
	reloadCtx, reloadCancel := context.WithCancel(context.Background())
	defer reloadCancel()
	go limits.Start(reloadCtx)

	// Start server in a goroutine
	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	reloadCancel()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	// Only expose minimal version info
	_, _ = fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}

// connectQueue dials RabbitMQ with exponential backoff. The audit queue is
// required; the process exits if the broker never comes up.
func connectQueue(amqpURL string, zapLogger *zap.Logger) queue.AuditQueue {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		auditQueue, err := queue.NewRabbitMQQueue(amqpURL)
		if err == nil {
			zapLogger.Info("connected_to_rabbitmq")
			return auditQueue
		}

		lastErr = err
		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}

	zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries",
		zap.Int("max_retries", maxRetries),
		zap.Error(lastErr),
	)
	return nil
}
