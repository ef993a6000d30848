package middleware

import (
	"html"
	"log/slog"
	"net/http"

	"github.com/mcoot/stadiumdash/internal/middleware"
)

// Recovery turns web handler panics into an HTML error page
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	ref := ""
	if id := middleware.RequestID(r.Context()); id != "" {
		ref = `<p class="muted">Reference: ` + html.EscapeString(id) + `</p>`
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Error | Stadium Dash</title><link rel="stylesheet" href="/static/app.css"></head>
<body>
<h1>Something went wrong</h1>
<p>The dashboard hit an unexpected error. Please try again.</p>
` + ref + `
<p><a href="/">Back to dashboard</a></p>
</body>
</html>`))
}
