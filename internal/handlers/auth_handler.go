package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/quetzal-chat/quetzal/internal/services"
)

// AuthHandler holds the dependencies for account handlers.
type AuthHandler struct {
	UserService *services.UserService
}

func NewAuthHandler(service *services.UserService) *AuthHandler {
	return &AuthHandler{UserService: service}
}

type credentialsRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register creates an account from a (name, email) pair.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Name, req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login looks up an existing account by its (name, email) pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Name, req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
