package fetch

import (
	"fmt"
	"regexp"
	"strings"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeName sanitizes a rock type for use as a directory or filename piece:
// spaces become underscores and anything outside [A-Za-z0-9._-] is dropped.
func SafeName(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	return unsafeNameChars.ReplaceAllString(s, "")
}

// BuildFilename returns the canonical saved-image name for a rock type and
// 1-based sequence number, e.g. "Rock_Salt_003.png".
func BuildFilename(rock string, index int) string {
	return fmt.Sprintf("%s_%03d.png", SafeName(rock), index)
}
