package middleware

import (
	"net/http"
	"time"

	"github.com/quetzal-chat/quetzal/internal/services"
)

// LoggingMiddleware records every request through the shared structured
// logger, with its method, path, peer, and duration.
func LoggingMiddleware(logger services.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			logger.Info("request handled",
				"method", r.Method,
				"path", r.RequestURI,
				"remote", r.RemoteAddr,
				"duration", time.Since(start).String(),
			)
		})
	}
}
