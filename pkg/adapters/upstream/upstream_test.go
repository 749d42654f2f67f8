package upstream

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
)

func TestRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"", time.Second},
		{"7", 7 * time.Second},
		{"0", time.Second},
		{"soon", time.Second},
		{now.Add(30 * time.Second).Format(http.TimeFormat), 30 * time.Second},
		{now.Add(-time.Minute).Format(http.TimeFormat), time.Second},
	}
	for _, tt := range tests {
		h := http.Header{}
		if tt.header != "" {
			h.Set("Retry-After", tt.header)
		}
		assert.Equal(t, tt.want, RetryAfter(h, now), "header %q", tt.header)
	}
}

func response(code int, header http.Header, body string) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{StatusCode: code, Header: header, Body: io.NopCloser(strings.NewReader(body))}
}

func TestCheckStatus(t *testing.T) {
	assert.NoError(t, CheckStatus("svc", response(http.StatusOK, nil, "")))
	assert.NoError(t, CheckStatus("svc", response(http.StatusNoContent, nil, "")))

	assert.ErrorIs(t, CheckStatus("svc", response(http.StatusUnauthorized, nil, "")), domain.ErrUnauthorized)
	assert.ErrorIs(t, CheckStatus("svc", response(http.StatusNotFound, nil, "")), domain.ErrUnauthorized)

	err := CheckStatus("svc", response(http.StatusTooManyRequests, http.Header{"Retry-After": {"4"}}, ""))
	var rl *domain.RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 4*time.Second, rl.RetryAfter)

	err = CheckStatus("svc", response(http.StatusBadGateway, nil, "upstream down"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream down")
}
