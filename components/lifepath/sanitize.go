package lifepath

import (
	"html"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	namePolicyOnce sync.Once
	namePolicy     *bluemonday.Policy
)

// cleanName strips markup from a submitted name and returns plain text
// limited to max runes. Output is unescaped; templates escape it again.
func cleanName(raw string, max int) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := html.UnescapeString(nameSanitizer().Sanitize(trimmed))
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if max > 0 && utf8.RuneCountInString(cleaned) > max {
		cleaned = strings.TrimSpace(string([]rune(cleaned)[:max]))
	}
	return cleaned
}

func nameSanitizer() *bluemonday.Policy {
	namePolicyOnce.Do(func() {
		namePolicy = bluemonday.StrictPolicy()
	})
	return namePolicy
}
