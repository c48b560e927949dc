package middleware

import (
	"log/slog"
	"net/http"

	"github.com/garrettladley/fitgate/internal/xhttp"
	"github.com/garrettladley/fitgate/internal/xslog"
)

// Logger puts a request-scoped logger in the context, tagged with the
// request id when RequestID ran first.
func Logger(base *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base
			if id, ok := xhttp.RequestIDFrom(r.Context()); ok {
				logger = logger.With(xslog.RequestID(id))
			}
			next.ServeHTTP(w, r.WithContext(xslog.WithLogger(r.Context(), logger)))
		})
	}
}
