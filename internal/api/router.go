package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AlekseevAleksey/testAuth/internal/api/handler"
	"github.com/AlekseevAleksey/testAuth/internal/api/middleware"
	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
	"github.com/AlekseevAleksey/testAuth/internal/core/ports"
)

// Deps carries everything the router needs. Mongo and Redis are optional and
// only feed the readiness probe.
type Deps struct {
	Directory  ports.DirectoryService
	Auth       ports.AuthService
	RememberMe ports.RememberMeService

	Mongo *mongo.Database
	Redis *redis.Client

	JWTSecret string
	CookieTTL time.Duration
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("directory"))
	// Silent remember-me login runs before any auth check so a valid cookie
	// authenticates the request on its own.
	e.Use(middleware.RememberMe(deps.RememberMe, deps.Directory, deps.Auth, deps.CookieTTL))

	// Auth extracts the bearer identity when one is presented; RequireAuth is
	// the gate that rejects requests that end up with no identity at all.
	authMiddleware := middleware.Auth(deps.JWTSecret)
	requireAuth := middleware.RequireAuth()

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.CookieTTL)
	userHandler := handler.NewUserHandler(deps.Directory, deps.RememberMe)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware, requireAuth)

	// --- Directory routes ---
	users := e.Group("/users", authMiddleware, requireAuth)
	users.GET("", userHandler.List)
	users.GET("/check", userHandler.CheckSSO)
	users.GET("/:ssoID", userHandler.Get)

	admin := middleware.RequireProfile(domain.ProfileAdmin)
	users.POST("", userHandler.Create, admin)
	users.PUT("/:ssoID", userHandler.Update, admin)
	users.DELETE("/:ssoID", userHandler.Delete, admin)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
