package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhive/account-api/internal/api/handler"
	"github.com/userhive/account-api/internal/api/middleware"
	"github.com/userhive/account-api/internal/core/service"
	"github.com/userhive/account-api/internal/infrastructure/config"
	mongodb "github.com/userhive/account-api/internal/infrastructure/db/mongo"
	redisdb "github.com/userhive/account-api/internal/infrastructure/db/redis"
	healthhandlers "github.com/userhive/account-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	directory := mongodb.NewUserRepository(db)
	ids := redisdb.NewSequenceAllocator(rdb)
	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	accounts := service.NewAccountService(directory, ids, hasher, tokens, log)
	userHandler := handler.NewUserHandler(accounts, log)
	authMiddleware := middleware.Auth(tokens)

	// --- User routes ---
	users := e.Group("/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.GET("/all", userHandler.List, authMiddleware, middleware.RequireAdmin())
	users.GET("/:id", userHandler.GetByID, authMiddleware, middleware.SelfOrAdmin("id"))
	users.PUT("/block/:id", userHandler.Block, authMiddleware, middleware.SelfOrAdmin("id"))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
