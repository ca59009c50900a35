package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldcollect/backend/internal/application/access"
	groupapp "github.com/fieldcollect/backend/internal/application/group"
	identityapp "github.com/fieldcollect/backend/internal/application/identity"
	submissionapp "github.com/fieldcollect/backend/internal/application/submission"
	"github.com/fieldcollect/backend/internal/domain/identity"
	"github.com/fieldcollect/backend/internal/infrastructure/auth"
	"github.com/fieldcollect/backend/internal/infrastructure/cache"
	"github.com/fieldcollect/backend/internal/infrastructure/config"
	"github.com/fieldcollect/backend/internal/infrastructure/logger"
	"github.com/fieldcollect/backend/internal/infrastructure/persistence"
	"github.com/fieldcollect/backend/internal/infrastructure/telemetry"
	"github.com/fieldcollect/backend/internal/interfaces/http/handler"
	"github.com/fieldcollect/backend/internal/interfaces/http/middleware"
	"github.com/fieldcollect/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting field collection backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	// Database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database schema migrated")
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBName:     cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	groupRepo := persistence.NewGormGroupRepository(db.DB)
	submissionRepo := persistence.NewGormSubmissionRepository(db.DB)

	// Credentials
	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)
	if err != nil {
		log.Fatal("Failed to initialize password hasher", zap.Error(err))
	}
	tokens, err := auth.NewSessionTokenService(cfg.JWT)
	if err != nil {
		log.Fatal("Failed to initialize session tokens", zap.Error(err))
	}

	// Application services
	authService := identityapp.NewAuthService(userRepo, hasher, tokens, log)
	accessService := access.NewAccessService(userRepo, groupRepo, submissionRepo, log)
	groupService := groupapp.NewGroupService(groupRepo, log)
	submissionService := submissionapp.NewSubmissionService(submissionRepo, userRepo, log)

	if err := identityapp.EnsureAdmin(ctx, userRepo, hasher, identityapp.AdminBootstrap{
		Email:    cfg.Auth.AdminEmail,
		Password: cfg.Auth.AdminPassword,
		Name:     cfg.Auth.AdminName,
		Phone:    cfg.Auth.AdminPhone,
	}, log); err != nil {
		log.Fatal("Failed to bootstrap admin user", zap.Error(err))
	}

	// Rate limiting
	limitStore := newRateLimitStore(ctx, cfg, log)
	defer func() {
		_ = limitStore.Close()
	}()

	// HTTP engine
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanAttributes(),
		logger.GinMiddleware(log),
		middleware.SecureWithConfig(middleware.SecurityConfig{
			HSTSEnabled: cfg.Cookie.Secure,
			HSTSMaxAge:  31536000,
		}),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Store:  limitStore,
			Limit:  cfg.HTTP.RateLimitRequests,
			Window: cfg.HTTP.RateLimitWindow,
			Scope:  "api",
			Logger: log,
		}))
	}

	engine.GET("/health", handler.NewHealthHandler(db, log).Health)

	api := router.API{
		Auth:       handler.NewAuthHandler(authService, cfg.Cookie, tokens.Expiration()),
		Submission: handler.NewSubmissionHandler(submissionService),
		Admin:      handler.NewAdminHandler(accessService, groupService),
		User:       handler.NewUserHandler(accessService),
		Session: middleware.SessionAuth(middleware.SessionConfig{
			Verifier:   authService,
			CookieName: cfg.Cookie.Name,
			Logger:     log,
		}),
		RequireAdmin: middleware.RequireRole(authService, identity.RoleAdmin, log),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		api.CredentialLimit = middleware.RateLimit(middleware.RateLimitConfig{
			Store:  limitStore,
			Limit:  cfg.HTTP.AuthRateLimitRequests,
			Window: cfg.HTTP.AuthRateLimitWindow,
			Scope:  "auth",
			Logger: log,
		})
	}

	router.NewRouter(engine).Register(api.Groups()...).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

type closableStore interface {
	middleware.RateLimitStore
	Close() error
}

// newRateLimitStore shares counters through Redis when it is configured and
// reachable, and keeps them in process otherwise
func newRateLimitStore(ctx context.Context, cfg *config.Config, log *zap.Logger) closableStore {
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err == nil {
			log.Info("Rate limits stored in Redis", zap.String("addr", cfg.Redis.Addr()))
			return cache.NewRedisRateLimitStore(client, "")
		}
		log.Warn("Redis unavailable, keeping rate limits in memory", zap.Error(err))
	}
	return cache.NewInMemoryRateLimitStore(time.Minute)
}
