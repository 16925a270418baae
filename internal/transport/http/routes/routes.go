package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/port"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/infra/config"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/transport/http/handlers"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/transport/http/middleware"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth    *usecase.AuthService
	Ranches *usecase.RanchService
	Animals *usecase.AnimalService
	Roles   port.RoleRepository
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Verifier    middleware.TokenVerifier
	Metrics     *middleware.HTTPMetrics
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	requireAuth := middleware.RequireAuth(deps.Verifier, deps.Logger)

	checks := make(map[string]handlers.ReadinessCheck, 2)
	if deps.Database != nil {
		checks["database"] = deps.Database.Ping
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}

	healthHandler := handlers.NewHealthHandler(checks)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(deps.Services.Auth)

	registerHandlers := append(rateLimitMiddlewares(deps, "auth_register_ip", registerLimit(deps)), authHandler.Register)
	r.POST("/register", registerHandlers...)

	loginHandlers := append(rateLimitMiddlewares(deps, "auth_login_ip", loginLimit(deps)), authHandler.Login)
	r.POST("/login", loginHandlers...)

	r.GET("/profile", requireAuth, authHandler.Profile)
	r.GET("/verify", requireAuth, authHandler.Verify)

	api := r.Group("/api/v1")
	api.Use(requireAuth)
	{
		adminOnly := middleware.RequireRole("admin")

		ranchHandler := handlers.NewRanchHandler(deps.Services.Ranches)
		ranchGroup := api.Group("/ranches")
		ranchGroup.POST("", ranchHandler.Create)
		ranchGroup.GET("", ranchHandler.List)
		ranchGroup.GET("/:id", ranchHandler.Get)
		ranchGroup.PUT("/:id", ranchHandler.Update)
		ranchGroup.DELETE("/:id", adminOnly, ranchHandler.Delete)

		animalHandler := handlers.NewAnimalHandler(deps.Services.Animals)
		animalGroup := api.Group("/animals")
		animalGroup.POST("", animalHandler.Create)
		animalGroup.GET("", animalHandler.List)
		animalGroup.GET("/:id", animalHandler.Get)
		animalGroup.PUT("/:id", animalHandler.Update)
		animalGroup.DELETE("/:id", adminOnly, animalHandler.Delete)

		if deps.Services.Roles != nil {
			roleHandler := handlers.NewRoleHandler(deps.Services.Roles)
			api.GET("/roles", roleHandler.List)
		}
	}

	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func loginLimit(deps Dependencies) int {
	if deps.Config == nil {
		return 0
	}
	return deps.Config.RateLimit.LoginMaxAttempts
}

func registerLimit(deps Dependencies) int {
	if deps.Config == nil {
		return 0
	}
	return deps.Config.RateLimit.RegisterMaxAttempts
}

func rateLimitMiddlewares(deps Dependencies, name string, limit int) []gin.HandlerFunc {
	if deps.RateLimiter == nil || limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
