package handler

import (
	"net/http"
)

const (
	sidebarCookieName = "sidebar"
	sidebarOpen       = "open"
	sidebarClosed     = "closed"
)

// SidebarOpen reports the sidebar state for the request. Open unless the
// user has collapsed it.
func SidebarOpen(r *http.Request) bool {
	cookie, err := r.Cookie(sidebarCookieName)
	if err != nil {
		return true
	}
	return cookie.Value != sidebarClosed
}

// UIHandler handles presentation-only preferences
type UIHandler struct{}

// NewUIHandler creates a new UIHandler
func NewUIHandler() *UIHandler {
	return &UIHandler{}
}

// ToggleSidebar flips the sidebar between open and collapsed.
// An explicit state=open|closed form value sets it directly.
func (h *UIHandler) ToggleSidebar(w http.ResponseWriter, r *http.Request) {
	next := sidebarClosed
	if !SidebarOpen(r) {
		next = sidebarOpen
	}
	if err := r.ParseForm(); err == nil {
		switch r.FormValue("state") {
		case sidebarOpen:
			next = sidebarOpen
		case sidebarClosed:
			next = sidebarClosed
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sidebarCookieName,
		Value:    next,
		Path:     "/",
		MaxAge:   86400 * 365,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
