package auth

import (
	"encoding/base64"
	"net/http"
	"strings"
	"unicode/utf8"
)

const basicPrefix = "Basic "

// AuthorizationHeader returns the raw Authorization header value, or the
// empty string when the request is nil or the header is absent.
func AuthorizationHeader(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.Header.Get("Authorization")
}

// ExtractBasicToken returns the payload after the exact "Basic " prefix
// (case-sensitive, single space), or the empty string when the header does
// not carry Basic credentials.
func ExtractBasicToken(header string) string {
	token, ok := strings.CutPrefix(header, basicPrefix)
	if !ok {
		return ""
	}
	return token
}

// DecodeBasicToken base64-decodes token and interprets the bytes as UTF-8.
// Invalid base64 or invalid UTF-8 yields the empty string, indistinguishable
// from absent credentials.
func DecodeBasicToken(token string) string {
	if token == "" {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil || !utf8.Valid(raw) {
		return ""
	}
	return string(raw)
}

// SplitBasicCredentials splits a decoded "email:password" pair on the first
// colon. Passwords may themselves contain colons.
func SplitBasicCredentials(decoded string) (email, password string, ok bool) {
	return strings.Cut(decoded, ":")
}

// SessionCookie returns the value of the cookie named name, or the empty
// string when the request is nil or the cookie is absent.
func SessionCookie(r *http.Request, name string) string {
	if r == nil || name == "" {
		return ""
	}
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
