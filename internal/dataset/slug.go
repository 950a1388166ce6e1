package dataset

import "strings"

// Slug derives the filesystem-safe artifact key for an industry name:
// lower-cased, spaces replaced by underscores, path separators stripped.
func Slug(industry string) string {
	s := strings.ToLower(strings.TrimSpace(industry))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
