package handler

import (
	"net/http"

	"github.com/mcoot/stadiumdash/internal/api/middleware"
	"github.com/mcoot/stadiumdash/internal/api/response"
	"github.com/mcoot/stadiumdash/internal/services/auth"
	"github.com/mcoot/stadiumdash/internal/services/dashboard"
)

// MeHandler serves the signed-in user's state and dashboard
type MeHandler struct {
	authService      *auth.Service
	dashboardService *dashboard.Service
}

// NewMeHandler creates a new MeHandler
func NewMeHandler(authService *auth.Service, dashboardService *dashboard.Service) *MeHandler {
	return &MeHandler{
		authService:      authService,
		dashboardService: dashboardService,
	}
}

// GetMe handles GET /api/v1/me
func (h *MeHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	response.JSON(w, http.StatusOK, response.StateFromAuth(session.State))
}

// Refresh handles POST /api/v1/me/refresh
func (h *MeHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	refreshed, err := h.authService.RefreshProfile(r.Context(), session.Token)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StateFromAuth(refreshed.State))
}

// Dashboard handles GET /api/v1/dashboard
func (h *MeHandler) Dashboard(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Dashboard{Cards: h.dashboardService.Cards()})
}
