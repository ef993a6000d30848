package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/stadiumdash/internal/api/handler"
	"github.com/mcoot/stadiumdash/internal/api/middleware"
	"github.com/mcoot/stadiumdash/internal/api/response"
	httpmw "github.com/mcoot/stadiumdash/internal/middleware"
	"github.com/mcoot/stadiumdash/internal/services/auth"
	"github.com/mcoot/stadiumdash/internal/services/dashboard"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	AuthService      *auth.Service
	DashboardService *dashboard.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	meHandler := handler.NewMeHandler(cfg.AuthService, cfg.DashboardService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := httpmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	// Logging wraps recovery so panics are logged with their request ID and 500 status
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)

	// Auth routes (no session required to sign in or out)
	authRoutes := api.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/signin", authHandler.SignIn).Methods(http.MethodPost)
	authRoutes.HandleFunc("/signup", authHandler.SignUp).Methods(http.MethodPost)
	authRoutes.HandleFunc("/federated", authHandler.Federated).Methods(http.MethodPost)
	authRoutes.HandleFunc("/reset", authHandler.Reset).Methods(http.MethodPost)
	authRoutes.HandleFunc("/reset/confirm", authHandler.ResetConfirm).Methods(http.MethodPost)
	authRoutes.HandleFunc("/signout", authHandler.SignOut).Methods(http.MethodPost)

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/me", meHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/me/refresh", meHandler.Refresh).Methods(http.MethodPost)
	protected.HandleFunc("/dashboard", meHandler.Dashboard).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
