package auth

import (
	"net/http"
	"net/url"
	"strings"
)

// CookieName is the cookie that carries the access token for browser clients.
const CookieName = "token"

// TokenFromRequest returns the bearer credential of r. A non-empty
// "Authorization: Bearer" header wins over the token cookie.
func TokenFromRequest(r *http.Request) (string, bool) {
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token, true
	}
	cookies := parseCookies(strings.Join(r.Header.Values("Cookie"), "; "))
	if token := cookies[CookieName]; token != "" {
		return token, true
	}
	return "", false
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// parseCookies splits a Cookie header into a map. Each part is split at its
// first '=', keys and values are trimmed and percent-decoded, and later
// duplicates overwrite earlier ones.
func parseCookies(header string) map[string]string {
	cookies := map[string]string{}
	for _, part := range strings.Split(header, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key = decodeCookiePart(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		cookies[key] = decodeCookiePart(strings.TrimSpace(value))
	}
	return cookies
}

func decodeCookiePart(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
