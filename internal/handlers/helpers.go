package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/quetzal-chat/quetzal/internal/services"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps a service error kind to an HTTP status. Storage
// errors get a generic body; the detail stays in the logs.
func writeServiceError(w http.ResponseWriter, err error) {
	switch services.KindOf(err) {
	case services.KindValidation:
		writeError(w, err.Error(), http.StatusBadRequest)
	case services.KindNotFound:
		writeError(w, err.Error(), http.StatusNotFound)
	case services.KindConflict:
		writeError(w, err.Error(), http.StatusConflict)
	default:
		writeError(w, "internal server error", http.StatusInternalServerError)
	}
}
