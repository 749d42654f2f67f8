package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/editor"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/mapper"
	"go.uber.org/zap"
)

// EditorHandler backs the admin markdown editor toolbar.
type EditorHandler struct {
	mapper      *mapper.Mapper
	highlighter *editor.Highlighter
	logger      *zap.Logger
}

func NewEditorHandler(m *mapper.Mapper, logger *zap.Logger) *EditorHandler {
	return &EditorHandler{mapper: m, highlighter: editor.NewHighlighter("github"), logger: logger}
}

type contextRequest struct {
	Text  string `json:"text"`
	Caret int    `json:"caret"`
}

func (h *EditorHandler) Context(w http.ResponseWriter, r *http.Request) {
	var req contextRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, editor.DetectContext(req.Text, req.Caret))
}

type applyRequest struct {
	Text           string `json:"text"`
	SelectionStart int    `json:"selectionStart"`
	SelectionEnd   int    `json:"selectionEnd"`
	Action         string `json:"action"`
}

type applyResponse struct {
	editor.Edit
	Active editor.ActiveStyles `json:"active"`
}

// Apply wraps the selection for a toolbar action and reports the styles active at the new caret.
func (h *EditorHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	edit, err := editor.Apply(req.Text, req.SelectionStart, req.SelectionEnd, req.Action)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, applyResponse{Edit: edit, Active: editor.DetectContext(edit.Text, edit.SelectionStart)})
}

type previewRequest struct {
	Text string `json:"text"`
}

func (h *EditorHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	overlay, err := h.highlighter.Highlight(req.Text)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"html":        h.mapper.RenderMarkdown(req.Text),
		"overlay":     overlay,
		"readingTime": mapper.ReadingTime(req.Text),
	})
}

func (h *EditorHandler) Stylesheet(w http.ResponseWriter, r *http.Request) {
	css, err := h.highlighter.CSS()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(css))
}
