package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"go.uber.org/zap"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps service errors onto status codes. Unexpected errors are logged
// and answered with a generic 500.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var validation *domain.ValidationError
	var rateLimit *domain.RateLimitError
	switch {
	case errors.As(err, &validation):
		http.Error(w, validation.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnknownCollection):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &rateLimit):
		w.Header().Set("Retry-After", strconv.Itoa(int(max(rateLimit.RetryAfter.Seconds(), 1))))
		http.Error(w, "upstream rate limit, retry later", http.StatusTooManyRequests)
	case errors.Is(err, context.Canceled):
		// client went away
	default:
		logger.Error("request failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}
