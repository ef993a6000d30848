package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/stadiumdash/internal/services/auth"
	"github.com/mcoot/stadiumdash/internal/web/middleware"
	"github.com/mcoot/stadiumdash/internal/web/templates/layout"
	"github.com/mcoot/stadiumdash/internal/web/templates/pages"
)

const (
	// googleCSRFField is the double-submit token Google Identity Services
	// sends both as a cookie and as a form field
	googleCSRFField = "g_csrf_token"

	resetRequestedMessage = "If an account exists for that email, a reset link is on its way."
)

// AuthHandler handles authentication pages and actions
type AuthHandler struct {
	authService     *auth.Service
	google          GoogleConfig
	sessionDuration time.Duration
	secureCookies   bool
	logger          *slog.Logger
}

// AuthHandlerConfig configures an AuthHandler
type AuthHandlerConfig struct {
	Google          GoogleConfig
	SessionDuration time.Duration
	SecureCookies   bool
	Logger          *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, cfg AuthHandlerConfig) *AuthHandler {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = auth.DefaultConfig().SessionDuration
	}
	return &AuthHandler{
		authService:     authService,
		google:          cfg.Google,
		sessionDuration: cfg.SessionDuration,
		secureCookies:   cfg.SecureCookies,
		logger:          cfg.Logger,
	}
}

// SignIn handles the email/password form
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, pages.ModeSignIn, "", "Invalid form data")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderLogin(w, r, pages.ModeSignIn, email, "Email and password are required")
		return
	}

	session, err := h.authService.SignInWithPassword(r.Context(), email, password)
	if err != nil {
		h.renderLogin(w, r, pages.ModeSignIn, email, auth.ErrorMessage(err))
		return
	}

	h.startSession(w, r, session)
}

// SignUp handles account creation
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, pages.ModeSignUp, "", "Invalid form data")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderLogin(w, r, pages.ModeSignUp, email, "Email and password are required")
		return
	}

	session, err := h.authService.SignUp(r.Context(), email, password)
	if err != nil {
		h.renderLogin(w, r, pages.ModeSignUp, email, auth.ErrorMessage(err))
		return
	}

	h.startSession(w, r, session)
}

// Federated handles the credential post from the Google sign-in button
func (h *AuthHandler) Federated(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, pages.ModeSignIn, "", "Invalid form data")
		return
	}

	if !validGoogleCSRF(r) {
		h.logger.Warn("federated sign-in without matching g_csrf_token")
		h.renderLogin(w, r, pages.ModeSignIn, "", "Google sign-in failed, please try again")
		return
	}

	session, err := h.authService.SignInWithFederated(r.Context(), r.FormValue("credential"))
	if err != nil {
		h.renderLogin(w, r, pages.ModeSignIn, "", auth.ErrorMessage(err))
		return
	}

	h.startSession(w, r, session)
}

// Reset sends a password reset email
func (h *AuthHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, pages.ModeReset, "", "Invalid form data")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		h.renderLogin(w, r, pages.ModeReset, "", "Email is required")
		return
	}

	if err := h.authService.SendPasswordReset(r.Context(), email); err != nil {
		h.renderLogin(w, r, pages.ModeReset, email, auth.ErrorMessage(err))
		return
	}

	middleware.SetFlash(w, "success", resetRequestedMessage)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ResetConfirmPage renders the new password form for a reset link
func (h *AuthHandler) ResetConfirmPage(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	data := pages.ResetConfirmData{
		PageData: h.pageData(r, "Choose a new password"),
		Token:    token,
	}

	if err := h.authService.CheckResetToken(r.Context(), token); err != nil {
		data.Invalid = true
		data.Error = auth.ErrorMessage(auth.ErrInvalidResetToken)
		render(w, r, http.StatusBadRequest, pages.ResetConfirm(data))
		return
	}

	render(w, r, http.StatusOK, pages.ResetConfirm(data))
}

// ResetConfirm sets the new password
func (h *AuthHandler) ResetConfirm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	token := r.FormValue("token")
	password := r.FormValue("password")
	data := pages.ResetConfirmData{
		PageData: h.pageData(r, "Choose a new password"),
		Token:    token,
	}

	if password != r.FormValue("password_confirm") {
		data.Error = "Passwords do not match"
		render(w, r, http.StatusOK, pages.ResetConfirm(data))
		return
	}

	if err := h.authService.ResetPassword(r.Context(), token, password); err != nil {
		data.Error = auth.ErrorMessage(err)
		data.Invalid = errors.Is(err, auth.ErrInvalidResetToken)
		render(w, r, http.StatusOK, pages.ResetConfirm(data))
		return
	}

	clearSessionCookie(w)
	middleware.SetFlash(w, "success", "Password updated, please sign in")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignOut ends the session
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.authService.SignOut(cookie.Value)
	}

	clearSessionCookie(w)
	middleware.SetFlash(w, "info", "You have been signed out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(h.sessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) pageData(r *http.Request, title string) layout.PageData {
	return layout.PageData{
		Title:     title,
		CSRFToken: middleware.CSRFToken(r),
	}
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, mode, email, errorMsg string) {
	render(w, r, http.StatusOK, pages.Login(pages.LoginData{
		PageData:       h.pageData(r, loginTitle(mode)),
		Mode:           mode,
		Email:          email,
		Error:          errorMsg,
		GoogleClientID: h.google.ClientID,
		GoogleLoginURI: h.google.LoginURI,
	}))
}

func validGoogleCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(googleCSRFField)
	if err != nil || cookie.Value == "" {
		return false
	}
	return cookie.Value == r.PostFormValue(googleCSRFField)
}
