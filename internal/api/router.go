package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinicsuite/clinic-portal/internal/api/handler"
	"github.com/clinicsuite/clinic-portal/internal/api/middleware"
	"github.com/clinicsuite/clinic-portal/internal/core/domain"
	"github.com/clinicsuite/clinic-portal/internal/core/ports"
)

// Deps carries everything the router needs; services are constructed at
// process start and injected rather than built from globals.
type Deps struct {
	DB          *mongo.Database
	Redis       *redis.Client
	JWTSecret   string
	SignIn      ports.SignInService
	Invitations ports.InvitationService
	Sessions    ports.SessionService
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("clinic_portal"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.SignIn)
	invitationHandler := handler.NewInvitationHandler(deps.Invitations)
	pageHandler := handler.NewPageHandler()

	authMW := middleware.Auth(deps.JWTSecret, deps.Sessions)
	pageAuthMW := middleware.PageAuth(deps.JWTSecret, deps.Sessions)

	// --- Authentication flow ---
	e.POST("/auth/link", authHandler.RequestLink)
	e.GET("/auth/callback", authHandler.Callback)
	e.GET("/auth/session", authHandler.Session, authMW)

	// --- Invitation API (admin only; violations answer 403) ---
	adminAPI := e.Group("", authMW, middleware.RBAC(domain.RoleAdmin))
	adminAPI.POST("/invite", invitationHandler.Invite)
	adminAPI.GET("/invitations", invitationHandler.List)
	adminAPI.DELETE("/invitations/:email", invitationHandler.Revoke)

	// --- Pages and guarded panel roots (violations redirect) ---
	e.GET("/login", pageHandler.Login)
	e.GET("/unauthorized", pageHandler.Unauthorized)
	e.GET("/auth-error", pageHandler.AuthError)

	adminPages := e.Group("/admin", pageAuthMW, middleware.RoleGuard(domain.RoleAdmin))
	adminPages.GET("", pageHandler.AdminPanel)

	doctorPages := e.Group("/doctor", pageAuthMW, middleware.RoleGuard(domain.RoleDoctor, domain.RoleAdmin))
	doctorPages.GET("", pageHandler.DoctorPanel)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
