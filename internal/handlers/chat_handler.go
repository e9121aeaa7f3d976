package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/quetzal-chat/quetzal/internal/services"
)

// maxUploadSize bounds image uploads at 10 MiB.
const maxUploadSize = 10 << 20

// ChatHandler answers chat messages and image analysis requests. Both
// endpoints always respond with a {"text": ...} body on internal failure;
// only a malformed request produces an error status.
type ChatHandler struct {
	Resolver  *services.ResolverService
	UploadDir string
	Logger    services.Logger
}

func NewChatHandler(resolver *services.ResolverService, uploadDir string, logger services.Logger) *ChatHandler {
	return &ChatHandler{Resolver: resolver, UploadDir: uploadDir, Logger: logger}
}

// HandleChat resolves one user message: local knowledge first, then the
// reasoning service.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		writeError(w, "message is required", http.StatusBadRequest)
		return
	}

	answer := h.Resolver.Resolve(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, map[string]string{"text": answer})
}

// HandleAnalyzeImage accepts a multipart image upload, stages it under a
// random temp name, and asks the reasoning service to describe it. The
// staged file is removed whatever the outcome.
func (h *ChatHandler) HandleAnalyzeImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	tempPath := filepath.Join(h.UploadDir, uuid.NewString()+filepath.Ext(header.Filename))
	dst, err := os.Create(tempPath)
	if err != nil {
		h.Logger.Error("staging upload failed", "error", err.Error())
		writeJSON(w, http.StatusOK, map[string]string{"text": services.FallbackImageAnswer})
		return
	}
	defer os.Remove(tempPath)

	_, err = io.Copy(dst, file)
	dst.Close()
	if err != nil {
		h.Logger.Error("writing upload failed", "error", err.Error())
		writeJSON(w, http.StatusOK, map[string]string{"text": services.FallbackImageAnswer})
		return
	}

	data, err := os.ReadFile(tempPath)
	if err != nil {
		h.Logger.Error("reading upload failed", "error", err.Error())
		writeJSON(w, http.StatusOK, map[string]string{"text": services.FallbackImageAnswer})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	answer := h.Resolver.ResolveImage(r.Context(), data, mimeType)
	writeJSON(w, http.StatusOK, map[string]string{"text": answer})
}
