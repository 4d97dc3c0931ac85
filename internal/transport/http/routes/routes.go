package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/core/port"
	"github.com/syedukkashah/university-library/internal/infra/config"
	"github.com/syedukkashah/university-library/internal/transport/http/handlers"
	"github.com/syedukkashah/university-library/internal/transport/http/middleware"
	"github.com/syedukkashah/university-library/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Admission *usecase.AdmissionService
	Sessions  *usecase.SessionService
	Approval  *usecase.ApprovalService
	Library   *usecase.LibraryService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Services ServiceSet
	Users    port.UserRepository
	Storage  port.FileStorage
	Database DatabaseChecker
	Cache    CacheChecker
	Metrics  *middleware.HTTPMetrics
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
	r.Use(middleware.CORS(deps.Config.App.CORSAllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	requireSession := middleware.RequireSession(deps.Services.Sessions, deps.Config.Session.CookieName)
	requireAdmin := middleware.RequireRole(deps.Users, domain.RoleAdmin)

	healthOptions := make([]handlers.HealthOption, 0, 2)

	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}

	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		secureCookies := deps.Config.App.Env == "production"
		authHandler := handlers.NewAuthHandler(deps.Services.Admission, deps.Services.Sessions, deps.Config.Session, secureCookies)

		authGroup := api.Group("/auth")
		authHandler.RegisterRoutes(authGroup)
		authGroup.GET("/session", requireSession, authHandler.Session)

		uploadHandler := handlers.NewUploadHandler(deps.Storage, deps.Logger)
		uploadHandler.RegisterRoutes(api.Group("/uploads"))

		bookHandler := handlers.NewBookHandler(deps.Services.Library)
		booksGroup := api.Group("/books")
		booksGroup.GET("", bookHandler.ListBooks)
		booksGroup.GET("/:id", bookHandler.GetBook)
		booksGroup.POST("/:id/borrow", requireSession, bookHandler.BorrowBook)

		borrowsGroup := api.Group("/borrows")
		borrowsGroup.Use(requireSession)
		borrowsGroup.GET("", bookHandler.ListBorrows)
		borrowsGroup.POST("/:id/return", bookHandler.ReturnBook)

		adminGroup := api.Group("/admin")
		adminGroup.Use(requireSession, requireAdmin)

		accountHandler := handlers.NewAdminAccountHandler(deps.Services.Approval)
		accountHandler.RegisterRoutes(adminGroup.Group("/accounts"))

		adminBookHandler := handlers.NewAdminBookHandler(deps.Services.Library)
		adminBookHandler.RegisterRoutes(adminGroup.Group("/books"))
		adminGroup.GET("/borrows", adminBookHandler.ListBorrows)
	}

	return r
}
