package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
	"go.uber.org/zap"
)

type StorageHandler struct {
	service ports.StorageService
	logger  *zap.Logger
}

func NewStorageHandler(service ports.StorageService, logger *zap.Logger) *StorageHandler {
	return &StorageHandler{service: service, logger: logger}
}

func (h *StorageHandler) Browse(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	entries, err := h.service.Browse(r.Context(), prefix)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prefix": prefix, "entries": entries})
}

type registerFileRequest struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// Register records metadata for a file the client has already uploaded to storage.
func (h *StorageHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerFileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	file, err := h.service.Register(r.Context(), domain.StoredFile{
		Path:        req.Path,
		Size:        req.Size,
		ContentType: req.ContentType,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, file)
}
