package httpx

import (
	"net/http"
	"strconv"
)

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// ParseLimitOffset parses common pagination params and clamps to sane bounds.
// - defLimit: default limit when not specified
// - maxLimit: maximum allowed limit (values > maxLimit are clamped to maxLimit).
func ParseLimitOffset(r *http.Request, defLimit, maxLimit int) (int, int) {
	if maxLimit < 1 {
		maxLimit = 1
	}

	lim := parseIntQuery(r, "limit", defLimit)
	off := parseIntQuery(r, "offset", 0)
	if lim < 1 {
		lim = 1
	}
	if lim > maxLimit {
		lim = maxLimit
	}
	if off < 0 {
		off = 0
	}
	return lim, off
}

// queryStringPtr returns a pointer to the query param's value when present
// and non-empty, nil otherwise. List filters treat nil as "no filter".
func queryStringPtr(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}
