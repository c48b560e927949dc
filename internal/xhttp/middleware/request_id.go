package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/garrettladley/fitgate/internal/xhttp"
)

type requestIDConfig struct {
	idFunc func(*http.Request) string
}

type RequestIDOption func(*requestIDConfig)

func WithIDFunc(fn func(*http.Request) string) RequestIDOption {
	return func(c *requestIDConfig) { c.idFunc = fn }
}

// newRequestID reuses a caller-supplied X-Request-ID when it is a UUID.
func newRequestID(r *http.Request) string {
	if parsed, err := uuid.Parse(r.Header.Get(xhttp.XRequestID)); err == nil {
		return parsed.String()
	}
	return uuid.NewString()
}

// RequestID tags the request context and the response with an id. It must
// run before Logger.
func RequestID(opts ...RequestIDOption) Middleware {
	cfg := &requestIDConfig{idFunc: newRequestID}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cfg.idFunc(r)
			w.Header().Set(xhttp.XRequestID, id)
			next.ServeHTTP(w, r.WithContext(xhttp.WithRequestID(r.Context(), id)))
		})
	}
}
