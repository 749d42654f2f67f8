// Package analytics turns raw page-view events into the dashboard summary.
//
// The same rules back both the SQL aggregation in the repository and the in-memory
// pass used when only raw events are available.
package analytics

import (
	"math"
	"net/url"
	"strings"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
)

// TopLimit caps routes and referrers in a summary.
const TopLimit = 5

// MobileTokens are matched against the user agent with ASCII-only case folding,
// the same folding SQLite applies in lower() and LIKE.
var MobileTokens = []string{"mobile", "android", "iphone", "ipad"}

var botTokens = []string{"bot", "crawler", "spider", "slurp", "headless", "lighthouse", "curl/", "wget/", "python-requests"}

// ClassifyDevice buckets a user agent as Mobile or Desktop.
func ClassifyDevice(userAgent string) string {
	ua := asciiLower(userAgent)
	for _, token := range MobileTokens {
		if strings.Contains(ua, token) {
			return domain.DeviceMobile
		}
	}
	return domain.DeviceDesktop
}

// IsBot is a substring heuristic used at ingestion time.
func IsBot(userAgent string) bool {
	ua := asciiLower(userAgent)
	if ua == "" {
		return true
	}
	for _, token := range botTokens {
		if strings.Contains(ua, token) {
			return true
		}
	}
	return false
}

// asciiLower folds A-Z only. strings.ToLower would also fold runes such as
// U+0130 to 'i', which SQLite leaves alone.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// ReferrerName reduces a referrer to its hostname. Unparseable values are kept
// verbatim and empty ones count as Direct.
func ReferrerName(referrer string) string {
	ref := strings.TrimSpace(referrer)
	if ref == "" || ref == domain.ReferrerDirect {
		return domain.ReferrerDirect
	}
	u, err := url.Parse(ref)
	if err != nil || u.Hostname() == "" {
		return ref
	}
	return u.Hostname()
}

// Percentage rounds count/total to a whole percent, 0 when total is 0.
func Percentage(count, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) * 100 / float64(total)))
}

// CountryName normalizes an empty country to Unknown.
func CountryName(country string) string {
	if c := strings.TrimSpace(country); c != "" {
		return c
	}
	return domain.CountryUnknown
}
