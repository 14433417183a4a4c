package weibo

import (
	"net/http"
	"strings"
)

// ParseCookies splits a raw Cookie header string (the form copied out of
// browser devtools) into cookies usable with an http client. Malformed
// fragments are skipped rather than failing the whole string.
func ParseCookies(raw string) []*http.Cookie {
	var cookies []*http.Cookie
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, found := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:  name,
			Value: strings.TrimSpace(value),
		})
	}
	return cookies
}
