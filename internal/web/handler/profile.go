package handler

import (
	"net/http"

	"github.com/mcoot/stadiumdash/internal/services/auth"
	"github.com/mcoot/stadiumdash/internal/web/middleware"
)

// ProfileHandler handles actions on the signed-in user's profile
type ProfileHandler struct {
	authService *auth.Service
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(authService *auth.Service) *ProfileHandler {
	return &ProfileHandler{authService: authService}
}

// Refresh re-reads the manager and stadium documents
func (h *ProfileHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	refreshed, err := h.authService.RefreshProfile(r.Context(), session.Token)
	switch {
	case err != nil:
		middleware.SetFlash(w, "error", auth.ErrorMessage(err))
	case refreshed.State.Error != "":
		middleware.SetFlash(w, "error", refreshed.State.Error)
	default:
		middleware.SetFlash(w, "success", "Profile refreshed")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
