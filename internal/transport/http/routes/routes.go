package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/identra/identity-service/internal/infra/config"
	"github.com/identra/identity-service/internal/infra/telemetry"
	"github.com/identra/identity-service/internal/transport/http/handlers"
	"github.com/identra/identity-service/internal/transport/http/middleware"
	"github.com/identra/identity-service/internal/usecase"
)

// DatabaseChecker reports database connectivity for readiness probes.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker reports cache connectivity for readiness probes.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// ServiceSet bundles the application services used by the HTTP layer.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Registration  *usecase.RegistrationService
	Users         *usecase.UserService
	Roles         *usecase.RoleService
	Permissions   *usecase.PermissionService
	Authorization *usecase.AuthorizationService
}

// Dependencies wires the router to infrastructure and services.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *telemetry.Metrics
	HTTPMetrics *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// Register builds the Gin engine with the full middleware chain and route tree.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config != nil && deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.EnrichContext())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(deps.HTTPMetrics.Handler())

	allowedOrigins := []string{"*"}
	if deps.Config != nil {
		allowedOrigins = deps.Config.CORS.AllowedOrigins
	}
	router.Use(middleware.CORS(allowedOrigins))

	healthOpts := []handlers.HealthOption{}
	if deps.Database != nil {
		healthOpts = append(healthOpts, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOpts = append(healthOpts, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}
	health := handlers.NewHealthHandler(healthOpts...)

	router.GET("/healthz", health.Status)
	router.GET("/readyz", health.Readiness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Users, deps.Services.Authorization)
	registrationHandler := handlers.NewRegistrationHandler(deps.Services.Registration)
	userHandler := handlers.NewUserHandler(deps.Services.Users)
	roleHandler := handlers.NewRoleHandler(deps.Services.Roles)
	permissionHandler := handlers.NewPermissionHandler(deps.Services.Permissions)
	accessHandler := handlers.NewAccessHandler(deps.Services.Authorization, deps.Metrics)

	authGroup := api.Group("/auth")
	authHandler.RegisterRoutes(authGroup, loginRateLimit(deps)...)
	registrationHandler.RegisterRoutes(authGroup, registerRateLimit(deps)...)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(deps.Services.Auth))

	authHandler.RegisterProtectedRoutes(protected.Group("/auth"))

	users := protected.Group("/users")
	users.Use(middleware.RequirePermission(deps.Services.Authorization, "users", "manage"))
	userHandler.RegisterRoutes(users)

	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission(deps.Services.Authorization, "roles", "manage"))
	roleHandler.RegisterRoutes(roles)

	permissions := protected.Group("/permissions")
	permissions.Use(middleware.RequirePermission(deps.Services.Authorization, "permissions", "manage"))
	permissionHandler.RegisterRoutes(permissions)

	access := protected.Group("/access")
	access.Use(middleware.RequirePermission(deps.Services.Authorization, "access", "check"))
	accessHandler.RegisterRoutes(access)

	return router
}

func loginRateLimit(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(middleware.RateLimitRule{
		Name:       "login",
		Limit:      deps.Config.RateLimit.LoginMaxAttempts,
		Window:     deps.Config.RateLimit.WindowDuration,
		Identifier: middleware.ClientIPIdentifier(),
	})}
}

func registerRateLimit(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(middleware.RateLimitRule{
		Name:       "register",
		Limit:      deps.Config.RateLimit.RegisterMaxAttempts,
		Window:     deps.Config.RateLimit.WindowDuration,
		Identifier: middleware.ClientIPIdentifier(),
	})}
}
