// Package upstream holds the response handling shared by the third-party API clients.
package upstream

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
)

// DefaultRetryAfter applies when a 429 carries no usable Retry-After header.
const DefaultRetryAfter = time.Second

// RetryAfter reads a Retry-After header given in seconds or as an HTTP date.
func RetryAfter(h http.Header, now time.Time) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return DefaultRetryAfter
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return DefaultRetryAfter
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return DefaultRetryAfter
}

// CheckStatus maps an upstream response status onto the domain errors:
// 401 and 404 mean the integration is not authorized, 429 is a rate limit.
// Any other non-2xx status becomes a plain error carrying a snippet of the body.
func CheckStatus(service string, resp *http.Response) error {
	switch code := resp.StatusCode; {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusNotFound:
		return fmt.Errorf("%s: status %d: %w", service, code, domain.ErrUnauthorized)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", service, &domain.RateLimitError{RetryAfter: RetryAfter(resp.Header, time.Now())})
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: unexpected status %d: %s", service, code, strings.TrimSpace(string(body)))
	}
}
