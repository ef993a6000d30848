package handler

import (
	"net/http"
	"strings"

	"github.com/mcoot/stadiumdash/internal/api/middleware"
	"github.com/mcoot/stadiumdash/internal/api/request"
	"github.com/mcoot/stadiumdash/internal/api/response"
	"github.com/mcoot/stadiumdash/internal/services/auth"
)

// AuthHandler handles the /auth endpoints
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SignIn handles POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	session, err := h.authService.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// SignUp handles POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	session, err := h.authService.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Federated handles POST /api/v1/auth/federated
func (h *AuthHandler) Federated(w http.ResponseWriter, r *http.Request) {
	var req request.FederatedRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Credential == "" {
		WriteError(w, NewInvalidRequestError("credential is required"))
		return
	}

	session, err := h.authService.SignInWithFederated(r.Context(), req.Credential)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Reset handles POST /api/v1/auth/reset
func (h *AuthHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req request.ResetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		WriteError(w, NewInvalidRequestError("email is required"))
		return
	}

	if err := h.authService.SendPasswordReset(r.Context(), req.Email); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, response.Message{
		Message: "If an account exists for that email, a reset link has been sent",
	})
}

// ResetConfirm handles POST /api/v1/auth/reset/confirm
func (h *AuthHandler) ResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req request.ResetConfirmRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Token == "" {
		WriteError(w, NewInvalidRequestError("token is required"))
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// SignOut handles POST /api/v1/auth/signout. It succeeds for stale or
// missing tokens so clients can always drop their credentials.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	state := h.authService.SignOut(middleware.Token(r))
	response.JSON(w, http.StatusOK, response.StateFromAuth(state))
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (request.CredentialsRequest, bool) {
	var req request.CredentialsRequest
	if !decodeBody(w, r, &req) {
		return req, false
	}
	if strings.TrimSpace(req.Email) == "" {
		WriteError(w, NewInvalidRequestError("email is required"))
		return req, false
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return req, false
	}
	return req, true
}
