// Package session implements the anonymous ownership cookie: a
// client-held, script-readable list of event ids. It is a convenience
// signal for "events I created", not an authentication boundary. The
// value is neither signed nor bound to anything server-side.
package session

import (
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// CookieName is the client-held ownership cookie.
const CookieName = "owned_events"

// maxAgeSeconds gives the cookie a 7-day rolling lifetime; every write
// re-issues it.
const maxAgeSeconds = 7 * 24 * 60 * 60

// Encode serializes ids as a URL-encoded JSON array.
func Encode(ids []string) string {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		// A []string cannot fail to marshal; keep the function total anyway.
		return "%5B%5D"
	}
	return url.QueryEscape(string(b))
}

// Parse decodes a raw cookie value into the owned-id set. It is total:
// absent, malformed or non-array input yields the empty set, and
// non-string or empty-string entries are dropped.
func Parse(raw string) []string {
	if raw == "" {
		return []string{}
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		zap.L().Debug("unreadable ownership cookie", zap.Error(err))
		return []string{}
	}
	var entries []any
	if err := json.Unmarshal([]byte(decoded), &entries); err != nil {
		zap.L().Debug("unreadable ownership cookie", zap.Error(err))
		return []string{}
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if s, ok := e.(string); ok && s != "" {
			ids = append(ids, s)
		}
	}
	return ids
}

// Merge appends newID unless it is already present, preserving
// first-insertion order.
func Merge(existing []string, newID string) []string {
	if Contains(existing, newID) {
		return existing
	}
	return append(existing, newID)
}

// Contains reports whether id is in the caller-supplied set. This is
// the entire ownership check.
func Contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// FromRequest reads and decodes the ownership cookie, tolerating its
// absence.
func FromRequest(r *http.Request) []string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return []string{}
	}
	return Parse(c.Value)
}

// NewCookie builds the cookie to re-issue after a successful write.
// It must stay readable from script (the frontend shows "your events"),
// so HttpOnly is off on purpose.
func NewCookie(ids []string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    Encode(ids),
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: false,
		SameSite: http.SameSiteStrictMode,
	}
}
