package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/contaflow/backoffice/internal/repository"
)

// UploadHandler exposes the importer as an HTTP endpoint.
type UploadHandler struct {
	service *Service
}

// NewUploadHandler wraps the service with a POST endpoint.
func NewUploadHandler(service *Service) http.Handler {
	return &UploadHandler{service: service}
}

func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	userIDRaw := strings.TrimSpace(r.FormValue("userId"))
	userID, err := uuid.Parse(userIDRaw)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid user id: %v", err), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	req := Request{
		UserID:   userID,
		FileName: header.Filename,
		Data:     bytes.NewReader(data),
	}

	result, err := h.service.Import(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// LogsHandler lists persisted row level import failures for a user.
type LogsHandler struct {
	logRepo repository.ImportLogRepository
}

// NewLogsHandler wraps the import log repository with a GET endpoint.
func NewLogsHandler(logRepo repository.ImportLogRepository) http.Handler {
	return &LogsHandler{logRepo: logRepo}
}

func (h *LogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, err := uuid.Parse(strings.TrimSpace(r.URL.Query().Get("userId")))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid user id: %v", err), http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	logs, err := h.logRepo.List(r.Context(), userID, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
