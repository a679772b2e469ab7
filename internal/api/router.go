package api

import (
	"net/http"
	"time"

	"gymledger/internal/api/handler"
	"gymledger/internal/api/middleware"
	"gymledger/internal/app/service"
	"gymledger/internal/common/security"
	"gymledger/internal/observability/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authService *service.AuthService,
	checkInService *service.CheckInService,
	adminUserService *service.AdminUserService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(metrics.HTTPMetricsMiddleware)

	// JWT Auth Middleware Setup
	// Verifies a token found in "Authorization: Bearer T" and puts the claims
	// in context; the Authenticator middleware enforces them per route group.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Operational endpoints
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(authService)
	r.Route("/auth", authHandler.RegisterRoutes)

	// Current-user profile (authenticated)
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Get("/me", authHandler.Me)
	})

	// Check-in ledger (authenticated)
	checkInHandler := handler.NewCheckInHandler(checkInService)
	r.Route("/checkin", checkInHandler.RegisterRoutes)

	// Admin user management (admin session only)
	adminUserHandler := handler.NewAdminUserHandler(adminUserService)
	r.Route("/admin/users", adminUserHandler.RegisterRoutes)

	return r
}
