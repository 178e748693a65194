package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/identity-service/internal/api/handler"
	"github.com/99minutos/identity-service/internal/api/middleware"
	"github.com/99minutos/identity-service/internal/core/auth"
	"github.com/99minutos/identity-service/internal/core/ports"
	"github.com/99minutos/identity-service/internal/core/service"
	mongodb "github.com/99minutos/identity-service/internal/infrastructure/db/mongo"
	"github.com/99minutos/identity-service/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil when the deployment uses the in-memory session backend.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, sessions ports.SessionStore, audit handler.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(userRepo, sessions, hasher, issuer)
	authHandler := handler.NewAuthHandler(authService, audit, cfg.Auth.SessionName, cfg.Auth.SessionTTL)
	userHandler := handler.NewUserHandler()

	// The gate runs on every request; excluded paths pass through anonymously.
	gateway := auth.NewGateway(
		newStrategy(cfg, userRepo, sessions, hasher, issuer),
		cfg.Auth.ExcludedPaths,
		cfg.Auth.SessionName,
	)
	e.Use(middleware.Auth(gateway))

	// --- Auth routes ---
	v1 := e.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.DELETE("/auth/logout", authHandler.Logout)
	v1.POST("/auth/password-reset", authHandler.RequestPasswordReset)
	v1.PUT("/auth/password-reset", authHandler.ResetPassword)

	// --- User routes (behind the gate) ---
	v1.GET("/users/me", userHandler.Me)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

// newStrategy selects the identity strategy for the configured auth mode.
// Mode "none" yields a nil strategy, which disables the gate entirely.
func newStrategy(cfg *config.Config, users ports.UserRepository, sessions ports.SessionStore, hasher *auth.Hasher, issuer *auth.TokenIssuer) auth.Strategy {
	switch cfg.Auth.Mode {
	case config.ModeNone:
		return nil
	case config.ModeBasic:
		return auth.NewBasicStrategy(users, hasher)
	case config.ModeBearer:
		return auth.NewBearerStrategy(users, issuer)
	default:
		return auth.NewSessionStrategy(sessions, users, cfg.Auth.SessionName)
	}
}
