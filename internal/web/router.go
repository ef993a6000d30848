package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	httpmw "github.com/mcoot/stadiumdash/internal/middleware"
	"github.com/mcoot/stadiumdash/internal/services/auth"
	"github.com/mcoot/stadiumdash/internal/services/dashboard"
	"github.com/mcoot/stadiumdash/internal/web/handler"
	"github.com/mcoot/stadiumdash/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger           *slog.Logger
	AuthService      *auth.Service
	DashboardService *dashboard.Service
	StaticDir        string // Path to static files directory

	// CSRFKey enables form CSRF protection when set (32 bytes)
	CSRFKey []byte
	// TrustedOrigins are extra origins allowed to post forms
	TrustedOrigins []string
	// SecureCookies marks cookies Secure; set when served over HTTPS
	SecureCookies bool

	// GoogleClientID shows the Google sign-in button when set
	GoogleClientID string
	// PublicURL is the externally visible base URL, used for the Google login URI
	PublicURL       string
	SessionDuration time.Duration
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := httpmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Apply global middleware to all routes
	// Logging wraps recovery so panics are logged with their request ID and 500 status
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)

	google := handler.GoogleConfig{
		ClientID: cfg.GoogleClientID,
		LoginURI: cfg.PublicURL + "/auth/federated",
	}

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.DashboardService, google)
	authHandler := handler.NewAuthHandler(cfg.AuthService, handler.AuthHandlerConfig{
		Google:          google,
		SessionDuration: cfg.SessionDuration,
		SecureCookies:   cfg.SecureCookies,
		Logger:          cfg.Logger,
	})
	uiHandler := handler.NewUIHandler()
	profileHandler := handler.NewProfileHandler(cfg.AuthService)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Google posts the credential cross-site with its own double-submit token
	r.HandleFunc("/auth/federated", authHandler.Federated).Methods(http.MethodPost)

	// Everything else carries the form token when CSRF is enabled
	forms := r.NewRoute().Subrouter()
	if len(cfg.CSRFKey) > 0 {
		forms.Use(middleware.CSRF(cfg.CSRFKey, cfg.SecureCookies, cfg.TrustedOrigins, cfg.Logger))
	}
	forms.Use(flashMiddleware)

	// Public routes
	public := forms.NewRoute().Subrouter()
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/ui/sidebar", uiHandler.ToggleSidebar).Methods(http.MethodPost)

	// Auth actions (no auth required)
	authRoutes := forms.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/signin", authHandler.SignIn).Methods(http.MethodPost)
	authRoutes.HandleFunc("/signup", authHandler.SignUp).Methods(http.MethodPost)
	authRoutes.HandleFunc("/reset", authHandler.Reset).Methods(http.MethodPost)
	authRoutes.HandleFunc("/reset/confirm", authHandler.ResetConfirmPage).Methods(http.MethodGet)
	authRoutes.HandleFunc("/reset/confirm", authHandler.ResetConfirm).Methods(http.MethodPost)
	authRoutes.HandleFunc("/signout", authHandler.SignOut).Methods(http.MethodPost)

	// Protected routes (require auth)
	protected := forms.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/profile/refresh", profileHandler.Refresh).Methods(http.MethodPost)

	return r
}
