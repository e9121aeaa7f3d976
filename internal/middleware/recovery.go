package middleware

import (
	"fmt"
	"net/http"

	"github.com/quetzal-chat/quetzal/internal/services"
)

// RecoverPanic converts handler panics into 500 responses so one bad
// request cannot take the server down.
func RecoverPanic(logger services.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("handler panic",
						"error", fmt.Sprintf("%v", err),
						"path", r.RequestURI,
					)
					w.Header().Set("Connection", "close")
					http.Error(w, "Something went wrong on our end.", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
