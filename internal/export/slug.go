package export

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9-]`)
	dashRuns  = regexp.MustCompile(`-+`)
	maxSlugLn = 50
)

// Slugify converts a string to a URL/path-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLn {
		s = strings.TrimRight(s[:maxSlugLn], "-")
	}
	return s
}

// Stem returns the file name without directory or extension.
func Stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
