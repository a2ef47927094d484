package middleware

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

var bearerPattern = regexp.MustCompile(`(?i)Bearer\s+(.*)$`)

// ExtractToken returns the bearer token from the Authorization header, falling
// back to the token query parameter. It returns "" when neither is present.
func ExtractToken(h http.Header, query url.Values) string {
	if m := bearerPattern.FindStringSubmatch(h.Get("Authorization")); m != nil {
		if token := strings.TrimSpace(m[1]); token != "" {
			return token
		}
	}
	return strings.TrimSpace(query.Get("token"))
}

// RedactURI masks the token query parameter so bearer tokens never reach the logs.
func RedactURI(uri string) string {
	u, err := url.ParseRequestURI(uri)
	if err != nil {
		return uri
	}
	q := u.Query()
	if !q.Has("token") {
		return uri
	}
	q.Set("token", "redacted")
	u.RawQuery = q.Encode()
	return u.RequestURI()
}
