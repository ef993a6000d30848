package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/stadiumdash/internal/api/apierr"
	"github.com/mcoot/stadiumdash/internal/middleware"
)

// Recovery turns API handler panics into INTERNAL_ERROR responses
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, r *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError(middleware.RequestID(r.Context())))
	})
}
