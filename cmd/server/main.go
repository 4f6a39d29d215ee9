package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/harishas/autofolio/internal/ai"
	"github.com/harishas/autofolio/internal/featureflags"
	"github.com/harishas/autofolio/internal/handler"
	"github.com/harishas/autofolio/internal/identity"
	"github.com/harishas/autofolio/internal/infrastructure/logger"
	"github.com/harishas/autofolio/internal/infrastructure/redis"
	"github.com/harishas/autofolio/internal/mailer"
	"github.com/harishas/autofolio/internal/observability/metrics"
	"github.com/harishas/autofolio/internal/observability/tracing"
	"github.com/harishas/autofolio/internal/repository"
	"github.com/harishas/autofolio/internal/security/audit"
	"github.com/harishas/autofolio/internal/security/middleware"
	"github.com/harishas/autofolio/internal/security/ratelimit"
	"github.com/harishas/autofolio/internal/service"
	"github.com/harishas/autofolio/internal/storage"
	"github.com/harishas/autofolio/internal/worker"
	"github.com/harishas/autofolio/pkg/config"
	"github.com/harishas/autofolio/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting AutoFolio server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing (no-op unless an OTLP endpoint is configured)
	shutdownTracing, err := tracing.Init(ctx, log, "autofolio", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Connect to Postgres and ensure the schema exists
	dbPool, err := database.NewConnectionPool(ctx, &database.Config{URL: cfg.DatabaseURL}, log)
	if err != nil {
		log.Error("failed to connect to Postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.EnsureSchema(ctx); err != nil {
		log.Error("failed to migrate schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Initialize Redis client (uploads, readiness)
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	// 6. Initialize repositories
	db := dbPool.GetDB()
	accountRepo := repository.NewPostgresAccountRepository(db, log)
	resourceRepo := repository.NewPostgresResourceRepository(db, log)
	messageRepo := repository.NewPostgresMessageRepository(db, log)

	// 7. Select the identity verifier
	var verifier identity.Verifier
	switch cfg.AuthProvider {
	case "google":
		verifier, err = identity.NewGoogleVerifier(cfg.GoogleClientID)
		if err != nil {
			log.Error("failed to initialize Google verifier", slog.String("error", err.Error()))
			os.Exit(1)
		}
	default:
		log.Warn("using dev token verifier, not suitable for production")
		verifier = identity.NewDevVerifier(cfg.DevTokenSecret)
	}

	// 8. Initialize services
	accountService := service.NewAccountService(accountRepo, log)
	portfolioService := service.NewPortfolioService(resourceRepo, accountRepo, log)
	contactService := service.NewContactService(accountRepo, messageRepo, log)

	var resumeParser service.ResumeParser
	if cfg.GeminiAPIKey != "" {
		resumeParser, err = ai.NewGeminiParser(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Error("failed to initialize Gemini client", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	resumeService := service.NewResumeService(ai.NewPDFExtractor(), resumeParser, portfolioService, log)

	blobStore := storage.NewRedisBlobStore(redisClient)

	// 9. Initialize handlers and security components
	authHandler := handler.NewAuthHandler(accountService, verifier, log, cfg)
	adminHandler := handler.NewAdminHandler(portfolioService, contactService, log)
	publicHandler := handler.NewPublicHandler(portfolioService, log)
	contactHandler := handler.NewContactHandler(contactService, log)
	uploadHandler := handler.NewUploadHandler(blobStore, cfg.MaxUploadBytes, log)
	resumeHandler := handler.NewResumeHandler(resumeService, cfg.MaxUploadBytes, log)
	healthHandler := handler.NewHealthHandler(dbPool, redisClient, log)

	authn := middleware.NewAuthenticator(verifier, accountRepo, time.Duration(cfg.OracleTimeoutSecs)*time.Second, log)
	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute)
	auditLogger := audit.NewLogger(log)
	auditMW := middleware.AuditMiddleware(auditLogger)

	// 10. Setup HTTP routes
	mux := http.NewServeMux()

	// Public surface
	mux.HandleFunc("GET /api/auth/config", authHandler.Config)
	mux.HandleFunc("POST /api/auth/google", authHandler.Login)
	mux.Handle("GET /api/public/{username}/{resource}", publicHandler)
	mux.Handle("POST /api/contact", contactHandler)
	mux.HandleFunc("GET /uploads/{id}", uploadHandler.Serve)
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)
	mux.Handle("/metrics", promhttp.Handler())

	// Owner surface: auth required, throttled per account, mutations audited
	rateLimitAcct := middleware.RateLimitAccount(rateLimiter, log)
	admin := func(h http.HandlerFunc) http.Handler {
		return authn.Require(rateLimitAcct(auditMW(h)))
	}
	mux.Handle("GET /api/admin/view/{resource}", admin(adminHandler.View))
	mux.Handle("POST /api/admin/save", admin(adminHandler.Save))
	mux.Handle("DELETE /api/admin/delete/{resource}/{id}", admin(adminHandler.Delete))
	mux.Handle("POST /api/admin/reorder", admin(adminHandler.Reorder))
	mux.Handle("POST /api/admin/upload", admin(uploadHandler.Upload))
	mux.Handle("POST /api/resume/parse", admin(resumeHandler.Parse))
	mux.Handle("POST /api/resume/import", admin(resumeHandler.Import))

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain middleware: request ID -> metrics -> tracing -> sanitize ->
	// content type -> rate limit -> CORS+mux
	rootHandler := withRequestID(
		metrics.HTTPMetricsMiddleware(
			otelhttp.NewHandler(
				middleware.SanitizePaths(log)(
					middleware.ValidateJSONContentType(log)(
						middleware.RateLimitMiddleware(rateLimiter, log)(handlerWithCORS),
					),
				),
				"http.server",
			),
		),
		log,
	)

	// 11. Start the notification worker when outbound mail is configured
	var mail mailer.Mailer
	if cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" {
		mail, err = mailer.NewMailgunMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.EmailFrom)
		if err != nil {
			log.Error("failed to initialize Mailgun", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else if featureflags.Enabled("log_mail") {
		mail = &mailer.LogMailer{Logger: log}
	}

	if mail != nil {
		notifier := worker.NewNotifier(
			messageRepo,
			accountRepo,
			mail,
			log,
			time.Duration(cfg.NotifyInterval)*time.Second,
		)
		go notifier.Start(ctx)
	} else {
		log.Info("outbound mail not configured, notifier disabled")
	}

	// 12. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth_provider", cfg.AuthProvider),
		slog.Int("rate_limit", cfg.RateLimitPerMinute),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // stop the notifier
	rateLimiter.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), audit.RequestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
