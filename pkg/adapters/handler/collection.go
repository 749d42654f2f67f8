package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
	"go.uber.org/zap"
)

// reserved query parameters; everything else on a listing is a field filter
var listParams = map[string]bool{"page": true, "limit": true, "offset": true, "sort": true}

type CollectionHandler struct {
	service ports.ContentService
	logger  *zap.Logger
}

func NewCollectionHandler(service ports.ContentService, logger *zap.Logger) *CollectionHandler {
	return &CollectionHandler{service: service, logger: logger}
}

func listOptions(r *http.Request) (domain.ListOptions, int) {
	q := r.URL.Query()
	limit := queryInt(r, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	if v := queryInt(r, "offset", -1); v >= 0 {
		offset = v
	}

	opts := domain.ListOptions{Sort: q.Get("sort"), Limit: limit, Offset: offset}
	for key := range q {
		if listParams[key] {
			continue
		}
		if opts.Filter == nil {
			opts.Filter = map[string]string{}
		}
		opts.Filter[key] = q.Get(key)
	}
	return opts, page
}

// List is the public listing. Failures read as an empty list.
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, page := listOptions(r)
	items, total := h.service.ListPublic(r.Context(), r.PathValue("name"), opts)

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  items,
		"total": total,
		"page":  page,
		"limit": opts.Limit,
	})
}

// AdminList includes drafts and reports store errors.
func (h *CollectionHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	opts, page := listOptions(r)
	items, total, err := h.service.List(r.Context(), r.PathValue("name"), opts)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  items,
		"total": total,
		"page":  page,
		"limit": opts.Limit,
	})
}

// GetPublic hides drafts from anonymous readers.
func (h *CollectionHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetPublic(r.Context(), r.PathValue("name"), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), r.PathValue("name"), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var data domain.Record
	if !decodeJSON(w, r, &data) {
		return
	}

	item, err := h.service.Create(r.Context(), r.PathValue("name"), data)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("record created", zap.String("collection", r.PathValue("name")), zap.String("user", UserEmail(r.Context())))
	writeJSON(w, http.StatusCreated, item)
}

func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var data domain.Record
	if !decodeJSON(w, r, &data) {
		return
	}

	item, err := h.service.Update(r.Context(), r.PathValue("name"), r.PathValue("id"), data)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("record updated",
		zap.String("collection", r.PathValue("name")),
		zap.String("id", r.PathValue("id")),
		zap.String("user", UserEmail(r.Context())))
	writeJSON(w, http.StatusOK, item)
}

func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("name"), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("record deleted",
		zap.String("collection", r.PathValue("name")),
		zap.String("id", r.PathValue("id")),
		zap.String("user", UserEmail(r.Context())))
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func (h *CollectionHandler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ReorderSections(r.Context(), req.IDs); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionHandler) Comments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.CommentThread(r.Context(), r.PathValue("id")))
}
