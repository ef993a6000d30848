package handler

import (
	"net/http"

	"github.com/mcoot/stadiumdash/internal/services/dashboard"
	"github.com/mcoot/stadiumdash/internal/web/middleware"
	"github.com/mcoot/stadiumdash/internal/web/templates/layout"
	"github.com/mcoot/stadiumdash/internal/web/templates/pages"
)

// HomeHandler serves the root page: the sign-in forms when signed out and
// the dashboard when signed in
type HomeHandler struct {
	dashboardService *dashboard.Service
	google           GoogleConfig
}

// GoogleConfig configures the Google sign-in button
type GoogleConfig struct {
	ClientID string
	LoginURI string
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(dashboardService *dashboard.Service, google GoogleConfig) *HomeHandler {
	return &HomeHandler{
		dashboardService: dashboardService,
		google:           google,
	}
}

// Home renders the home page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	page := layout.PageData{
		Flash:     middleware.GetFlash(r.Context()),
		CSRFToken: middleware.CSRFToken(r),
	}

	if session == nil {
		mode := pages.ParseMode(r.URL.Query().Get("mode"))
		page.Title = loginTitle(mode)
		render(w, r, http.StatusOK, pages.Login(pages.LoginData{
			PageData:       page,
			Mode:           mode,
			GoogleClientID: h.google.ClientID,
			GoogleLoginURI: h.google.LoginURI,
		}))
		return
	}

	page.Title = "Dashboard"
	render(w, r, http.StatusOK, pages.Dashboard(pages.DashboardData{
		PageData:    page,
		State:       session.State,
		Cards:       h.dashboardService.Cards(),
		SidebarOpen: SidebarOpen(r),
	}))
}

func loginTitle(mode string) string {
	switch mode {
	case pages.ModeSignUp:
		return "Sign up"
	case pages.ModeReset:
		return "Reset password"
	default:
		return "Sign in"
	}
}
