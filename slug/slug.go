// Package slug derives URL-safe identifiers from event titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9\s_-]+`)
	separators   = regexp.MustCompile(`[\s_-]+`)
)

// Make turns a title into a lowercase identifier containing only
// [a-z0-9-]. Runs of whitespace, underscores and hyphens collapse into a
// single hyphen. An input with no usable characters yields ""; callers
// must treat an empty slug as invalid.
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = invalidChars.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
