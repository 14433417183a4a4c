// Package textutil cleans raw post text before analysis.
//
// Normalization is best-effort and idempotent: running Normalize over its
// own output never changes it again. It never fails; pathological input
// comes back as an empty or unchanged string rather than an error.
package textutil

import (
	"regexp"
	"strings"
)

var (
	htmlTagRegex = regexp.MustCompile(`<[^>]+>`)
	urlRegex     = regexp.MustCompile(`https?://[a-zA-Z0-9$\-_@.&+!*(),%/?=:;~#]+`)
	mentionRegex = regexp.MustCompile(`@[\w\p{Han}\-]+`)
	hashtagRegex = regexp.MustCompile(`#([^#]+)#`)
	// pictographs, transport, supplemental symbols, dingbats
	emojiRegex      = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}\x{FE0F}]`)
	invisibleRegex  = regexp.MustCompile(`[\x{200B}-\x{200F}\x{202A}-\x{202E}\x{2060}-\x{2064}\x{FEFF}]`)
	controlRegex    = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Normalize strips markup and noise from raw post text: HTML tags, URLs,
// @-mentions, emoji and other pictographs, zero-width and directional
// control characters. #topic# delimiters are unwrapped to the bare topic.
// Whitespace runs collapse to single spaces.
func Normalize(raw string) string {
	text := NormalizeKeepTags(raw)
	text = mentionRegex.ReplaceAllString(text, "")

	// unwrap until stable so inputs like "##a##" cannot leave a
	// freshly-formed "#a#" behind
	for {
		unwrapped := hashtagRegex.ReplaceAllString(text, "$1")
		if unwrapped == text {
			break
		}
		text = unwrapped
	}

	return collapse(text)
}

// NormalizeKeepTags is the minimal normalization level: it removes markup,
// URLs, emoji and control characters but leaves @-mentions and #topic#
// delimiters intact.
func NormalizeKeepTags(raw string) string {
	text := htmlTagRegex.ReplaceAllString(raw, " ")
	text = urlRegex.ReplaceAllString(text, "")
	text = emojiRegex.ReplaceAllString(text, "")
	text = invisibleRegex.ReplaceAllString(text, "")
	text = controlRegex.ReplaceAllString(text, "")
	return collapse(text)
}

func collapse(text string) string {
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.Trim(text, " ")
}

// ContainsFold reports whether content contains keyword, ignoring case.
func ContainsFold(content, keyword string) bool {
	return strings.Contains(strings.ToLower(content), strings.ToLower(keyword))
}
