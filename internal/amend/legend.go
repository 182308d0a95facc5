package amend

import (
	"regexp"
	"strings"
)

// Legends maps a version to sentences removed from its exported text.
type Legends map[Version][]string

// DefaultLegends returns the FASB markup legend sentences as they read once
// the added (old) or deleted (new) words have been filtered out.
func DefaultLegends() Legends {
	return Legends{
		Old: {
			"Terms from the Master Glossary are in bold type. Added text is , and deleted text is struck out .",
			"Terms from the Master Glossary are in bold type. Added text is .",
		},
		New: {
			"Terms from the Master Glossary are in bold type. Added text is underlined , and deleted text is .",
			"Terms from the Master Glossary are in bold type. Added text is underlined .",
		},
	}
}

// StripLegend removes every legend sentence registered for v from text,
// along with the spaces that follow it. Any run of whitespace in text
// matches a single space in a legend, so legends are found in two-space
// joined text and across line breaks.
func StripLegend(text string, v Version, legends Legends) string {
	for _, l := range legends[v] {
		words := strings.Fields(l)
		if len(words) == 0 {
			continue
		}
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		re := regexp.MustCompile(strings.Join(words, `\s+`) + `[ \t]*`)
		text = re.ReplaceAllString(text, "")
	}
	return text
}
