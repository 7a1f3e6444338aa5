package client

import (
	"net/http"
	"strconv"
	"time"
)

// quotaFeedback is the provider-reported rate limit state parsed from
// response headers. Absent values are -1 (remaining) and 0 (durations).
type quotaFeedback struct {
	remaining int
	resetIn   time.Duration
}

// parseQuotaHeaders reads X-RateLimit-Remaining and X-RateLimit-Reset.
// The reset header is accepted either as a delta in seconds or as a
// Unix timestamp; values far in the future relative to a plausible
// window length are treated as timestamps.
func parseQuotaHeaders(h http.Header, now time.Time) quotaFeedback {
	fb := quotaFeedback{remaining: -1}

	if v := h.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			fb.remaining = n
		}
	}

	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			// A year of seconds is far beyond any replenishment window,
			// so anything larger must be an epoch timestamp.
			if n > 365*24*3600 {
				if d := time.Unix(n, 0).Sub(now); d > 0 {
					fb.resetIn = d
				}
			} else {
				fb.resetIn = time.Duration(n) * time.Second
			}
		}
	}

	return fb
}

// parseRetryAfter reads the Retry-After header, accepting both the
// delta-seconds and HTTP-date forms. Zero means the header was absent
// or unparseable.
func parseRetryAfter(h http.Header, now time.Time) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}

	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 {
			return 0
		}
		return time.Duration(n) * time.Second
	}

	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
