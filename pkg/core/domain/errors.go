package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrUnknownCollection      = errors.New("unknown collection")
	ErrUnauthorized           = errors.New("integration not authorized")
	ErrAggregationUnsupported = errors.New("server-side aggregation unsupported")
)

// ValidationError reports a missing or malformed field before a write reaches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// RateLimitError is returned by upstream clients on HTTP 429.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}
