package mapper

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.000Z",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// str returns the first non-empty string found under keys.
func str(r domain.Record, keys ...string) string {
	for _, k := range keys {
		switch v := r[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		}
	}
	return ""
}

func num(r domain.Record, key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	}
	return 0
}

func integer(r domain.Record, key string) int {
	return int(num(r, key))
}

func boolean(r domain.Record, key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	}
	return false
}

// stringList accepts JSON arrays, []string and comma separated text.
func stringList(r domain.Record, key string) []string {
	out := []string{}
	switch v := r[key].(type) {
	case []string:
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func timestamp(r domain.Record, key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case string:
		v = strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func optionalTime(r domain.Record, key string) *time.Time {
	t := timestamp(r, key)
	if t.IsZero() {
		return nil
	}
	return &t
}

func stringMap(r domain.Record, key string) map[string]string {
	out := map[string]string{}
	switch v := r[key].(type) {
	case map[string]string:
		for k, s := range v {
			out[k] = s
		}
	case map[string]any:
		for k, item := range v {
			if s, ok := item.(string); ok {
				out[k] = s
			}
		}
	case domain.Record:
		for k, item := range v {
			if s, ok := item.(string); ok {
				out[k] = s
			}
		}
	}
	return out
}
