package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/brewbase/coffee-catalog/docs"
	"github.com/brewbase/coffee-catalog/internal/api/handler"
	"github.com/brewbase/coffee-catalog/internal/api/middleware"
	"github.com/brewbase/coffee-catalog/internal/core/domain"
	"github.com/brewbase/coffee-catalog/internal/core/service"
	mongodb "github.com/brewbase/coffee-catalog/internal/infrastructure/db/mongo"
	redisdb "github.com/brewbase/coffee-catalog/internal/infrastructure/db/redis"
	"github.com/brewbase/coffee-catalog/internal/infrastructure/storage"
)

// Options carries the router's runtime knobs.
type Options struct {
	JWTSecret     string
	MaxPhotoBytes int64
	TokenTTL      time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("coffee_catalog"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	coffeeRepo := mongodb.NewCoffeeRepository(db)
	rateRepo := mongodb.NewRateRepository(db)
	photoStore := storage.NewGridFSPhotoStore(db)
	ratingCache := redisdb.NewRatingCache(rdb)

	authService := service.NewAuthService(userRepo, opts.JWTSecret, opts.TokenTTL)
	userService := service.NewUserService(userRepo)
	coffeeService := service.NewCoffeeService(
		coffeeRepo, rateRepo, userRepo, photoStore, ratingCache, opts.MaxPhotoBytes, log,
	)

	authHandler := handler.NewAuthHandler(authService)
	coffeeHandler := handler.NewCoffeeHandler(coffeeService, userService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability / docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Catalog routes: every route admits the user and admin roles ---
	coffees := e.Group("/v1/coffees",
		middleware.Auth(opts.JWTSecret),
		middleware.RBAC(domain.RoleUser, domain.RoleAdmin),
	)
	coffees.GET("", coffeeHandler.List)
	coffees.GET("/by-rate", coffeeHandler.ListByRating)
	coffees.GET("/:id", coffeeHandler.Get)
	coffees.GET("/:id/photo", coffeeHandler.Photo)
	coffees.POST("", coffeeHandler.Create)
	coffees.PATCH("/:id", coffeeHandler.Update)
	coffees.DELETE("/:id", coffeeHandler.Remove)
	coffees.POST("/:id/rate", coffeeHandler.Rate)

	return e
}
