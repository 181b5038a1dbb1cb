package auth

import (
	"net/http"
	"strings"
)

// CookieName is the cookie a browser session carries its token in.
const CookieName = "access_token"

// RequestToken finds the bearer token of an admin request. The token query
// parameter wins, then the Authorization header, then the cookie.
func RequestToken(r *http.Request) string {
	if t := strings.TrimSpace(r.URL.Query().Get("token")); t != "" {
		return t
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if t := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); t != "" {
			return t
		}
	}

	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}
