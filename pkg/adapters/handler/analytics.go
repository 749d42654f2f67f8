package handler

import (
	"net/http"
	"time"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/analytics"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	service ports.AnalyticsService
	logger  *zap.Logger
}

func NewAnalyticsHandler(service ports.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, logger: logger}
}

// Summary never fails: storage errors come back as an empty summary.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q := analytics.LastDays(time.Now(), queryInt(r, "days", 0))
	writeJSON(w, http.StatusOK, h.service.Summary(r.Context(), q))
}

type recordEventRequest struct {
	Path     string `json:"path"`
	Referrer string `json:"referrer"`
}

// Record ingests a page view. The frontend posts once per page render; API reads
// are never counted, so a page that loads several collections is still one view.
func (h *AnalyticsHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if r.Header.Get("DNT") == "1" {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	if req.Referrer == "" {
		req.Referrer = r.Referer()
	}

	if err := h.service.RecordEvent(r.Context(), req.Path, requestCountry(r), req.Referrer, r.UserAgent()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// requestCountry reads the ISO country code set by the edge proxy.
func requestCountry(r *http.Request) string {
	for _, header := range []string{"CF-IPCountry", "X-Vercel-IP-Country"} {
		if v := r.Header.Get(header); v != "" && v != "XX" {
			return v
		}
	}
	return ""
}
