package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/stadiumdash/internal/model"
	"github.com/mcoot/stadiumdash/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeEmailExists           = "EMAIL_EXISTS"
	CodeInvalidEmail          = "INVALID_EMAIL"
	CodeWeakPassword          = "WEAK_PASSWORD"
	CodeInvalidResetToken     = "INVALID_RESET_TOKEN"
	CodeFederatedDisabled     = "FEDERATED_DISABLED"
	CodeInvalidFederatedToken = "INVALID_FEDERATED_TOKEN"
	CodeManagerNotFound       = "MANAGER_NOT_FOUND"
	CodeStadiumNotFound       = "STADIUM_NOT_FOUND"
	CodeInternalError         = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status code err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	msg := auth.ErrorMessage(err)

	switch {
	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, msg}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrEmailExists):
		return &httpError{http.StatusConflict, APIError{CodeEmailExists, msg}}
	case errors.Is(err, auth.ErrInvalidEmail):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidEmail, msg}}
	case errors.Is(err, auth.ErrWeakPassword):
		return &httpError{http.StatusBadRequest, APIError{CodeWeakPassword, msg}}
	case errors.Is(err, auth.ErrInvalidResetToken):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidResetToken, msg}}
	case errors.Is(err, auth.ErrFederatedDisabled):
		return &httpError{http.StatusNotImplemented, APIError{CodeFederatedDisabled, msg}}
	case errors.Is(err, auth.ErrInvalidFederatedToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidFederatedToken, msg}}

	// Map model errors
	case errors.Is(err, model.ErrManagerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeManagerNotFound, "Manager profile not found"}}
	case errors.Is(err, model.ErrStadiumNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeStadiumNotFound, "Stadium not found"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error. A non-empty requestID
// is quoted in the message so users can report it.
func NewInternalError(requestID string) error {
	msg := "Internal server error"
	if requestID != "" {
		msg += " (request " + requestID + ")"
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, msg}}
}
