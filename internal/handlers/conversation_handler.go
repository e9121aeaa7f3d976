package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/quetzal-chat/quetzal/internal/services"
)

// ConversationHandler exposes conversation and message persistence.
type ConversationHandler struct {
	ConversationService *services.ConversationService
}

func NewConversationHandler(service *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{ConversationService: service}
}

// CreateConversation handles POST /conversations.
func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID uint   `json:"user_id"`
		Title  string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	conversation, err := h.ConversationService.CreateConversation(r.Context(), req.UserID, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conversation)
}

// ListConversations handles GET /conversations?user_id=N, newest first.
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(r.URL.Query().Get("user_id"), 10, 32)
	if err != nil {
		writeError(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	conversations, err := h.ConversationService.ListConversations(r.Context(), uint(userID))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

// DeleteConversation handles DELETE /conversations/{id}. Messages go with
// the conversation.
func (h *ConversationHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, "invalid conversation ID", http.StatusBadRequest)
		return
	}

	if err := h.ConversationService.DeleteConversation(r.Context(), uint(id)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AppendMessage handles POST /messages.
func (h *ConversationHandler) AppendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConversationID uint   `json:"conversation_id"`
		Role           string `json:"role"`
		Text           string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	message, err := h.ConversationService.AppendMessage(r.Context(), req.ConversationID, req.Role, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

// ListMessages handles GET /messages/{id}, oldest first.
func (h *ConversationHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, "invalid conversation ID", http.StatusBadRequest)
		return
	}

	messages, err := h.ConversationService.ListMessages(r.Context(), uint(id))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}
