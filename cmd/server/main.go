package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/mtbell/tasklight/internal/config"
	"github.com/mtbell/tasklight/internal/database"
	"github.com/mtbell/tasklight/internal/handlers"
	"github.com/mtbell/tasklight/internal/logger"
	"github.com/mtbell/tasklight/internal/middleware"
	"github.com/mtbell/tasklight/internal/services/oidc"
	"github.com/mtbell/tasklight/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

const serviceName = "tasklight-api"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	newLogger := logger.NewProductionLogger
	if debugMode {
		newLogger = logger.NewDevelopmentLogger
	}
	zapLogger, err := newLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), serviceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tp.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

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

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx); err != nil {
		migrateCancel()
		zapLogger.Fatal("failed_to_run_migrations", zap.Error(err))
	}
	migrateCancel()
	zapLogger.Info("migrations_applied")

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

	// Repositories
	todoRepo := database.NewTodoRepository(db)
	categoryRepo := database.NewCategoryRepository(db)
	userRepo := database.NewUserRepository(db)
	settingsRepo := database.NewSettingsRepository(db)

	// Runtime settings from the database, env values as fallback
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer startupCancel()

	rateLimit := cfg.RateLimit
	if v, err := settingsRepo.Get(startupCtx, database.SettingRateLimit); err == nil {
		rateLimit = v
	} else if !errors.Is(err, database.ErrNotFound) {
		zapLogger.Warn("failed_to_load_rate_limit_setting", zap.Error(err))
	}

	corsOrigins := cfg.FrontendURL
	if v, err := settingsRepo.Get(startupCtx, database.SettingCORSOrigins); err == nil {
		corsOrigins = v
	} else if !errors.Is(err, database.ErrNotFound) {
		zapLogger.Warn("failed_to_load_cors_setting", zap.Error(err))
	}

	// Identity provider
	oidcConfig := oidc.Config{
		Issuer:      cfg.OIDCIssuer,
		ClientID:    cfg.OIDCClientID,
		JWKSURL:     cfg.OIDCJWKSURL,
		RedirectURL: cfg.OIDCRedirectURL,
	}
	oidcConfig.Normalize()
	if err := oidcConfig.Validate(); err != nil {
		zapLogger.Fatal("invalid_oidc_configuration", zap.Error(err))
	}
	verifier := oidc.NewVerifier(oidcConfig, oidc.NewJWKSCache(oidcConfig.JWKSURL))
	oidcClient := oidc.NewClient(startupCtx, oidcConfig)

	// Handlers
	authHandler := handlers.NewAuthHandler(oidcClient)
	todoHandler := handlers.NewTodoHandler(todoRepo, zapLogger)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo, zapLogger)
	healthChecker := handlers.NewHealthChecker(map[string]handlers.Pinger{
		"database": db,
		"redis":    redisLimiter,
	})

	rateLimitMW, err := middleware.RateLimit(redisLimiter.Client(), rateLimit)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	r := mux.NewRouter()

	// Middleware, outermost first
	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(corsOrigins))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.Recover(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Public routes
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")

	apiRouter := r.PathPrefix("/api/v1").Subrouter()

	authMW := middleware.Auth(userRepo, verifier, zapLogger)

	// Auth routes
	authRouter := apiRouter.PathPrefix("/auth").Subrouter()

	loginRouter := authRouter.PathPrefix("/oidc").Subrouter()
	loginRouter.Use(rateLimitMW)
	authHandler.RegisterPublicRoutes(loginRouter)

	protectedAuthRouter := authRouter.PathPrefix("").Subrouter()
	protectedAuthRouter.Use(authMW)
	protectedAuthRouter.Use(rateLimitMW)
	authHandler.RegisterProtectedRoutes(protectedAuthRouter)

	// Todo routes (protected)
	todosRouter := apiRouter.PathPrefix("/todos").Subrouter()
	todosRouter.Use(authMW)
	todosRouter.Use(rateLimitMW)
	todosRouter.Use(middleware.LastSeen(userRepo, zapLogger))
	todoHandler.RegisterRoutes(todosRouter)

	// Category routes (protected)
	categoriesRouter := apiRouter.PathPrefix("/categories").Subrouter()
	categoriesRouter.Use(authMW)
	categoriesRouter.Use(rateLimitMW)
	categoriesRouter.Use(middleware.LastSeen(userRepo, zapLogger))
	categoryHandler.RegisterRoutes(categoriesRouter)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server_failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLogger.Info("shutting_down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("shutdown_failed", zap.Error(err))
	}
}
