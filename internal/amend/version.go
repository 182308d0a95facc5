// Package amend reconstructs the pre- and post-amendment readings of a
// marked-up standards update. Added text is underlined; deleted text is
// struck through.
package amend

import (
	"fmt"
	"strings"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// Version names one reading of an amended document.
type Version string

const (
	Old Version = "old"
	New Version = "new"
)

// Versions lists both readings in output order.
var Versions = []Version{Old, New}

// ParseVersion accepts "old" or "new", ignoring case.
func ParseVersion(s string) (Version, error) {
	switch v := Version(strings.ToLower(strings.TrimSpace(s))); v {
	case Old, New:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown version %q", styled.ErrInvalidArgument, s)
}

// dropped returns the style whose tokens are absent from v.
func (v Version) dropped() (string, error) {
	switch v {
	case Old:
		return "underline", nil
	case New:
		return "line-through", nil
	}
	return "", fmt.Errorf("%w: unknown version %q", styled.ErrInvalidArgument, string(v))
}

// Filter keeps the tokens that belong to version v: the old reading drops
// underlined (added) text and the new reading drops struck (deleted) text.
// Decoration and tags are both consulted.
func Filter(tokens []styled.ScoredToken, v Version) ([]styled.ScoredToken, error) {
	style, err := v.dropped()
	if err != nil {
		return nil, err
	}
	out := make([]styled.ScoredToken, 0, len(tokens))
	for _, t := range tokens {
		if !t.HasStyle(style) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Assemble joins token texts with two spaces and breaks the result into
// sentence lines. See SplitSentences.
func Assemble(tokens []styled.ScoredToken) []string {
	return SplitSentences(JoinTokens(tokens))
}

// JoinTokens joins token texts with two spaces.
func JoinTokens(tokens []styled.ScoredToken) string {
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
	}
	return strings.Join(texts, "  ")
}

// SplitSentences breaks text after each ".  ". Unlike a plain split the
// period stays at the end of its line and blank lines are dropped.
func SplitSentences(text string) []string {
	parts := strings.Split(text, ".  ")
	lines := make([]string, 0, len(parts))
	for i, p := range parts {
		if i < len(parts)-1 {
			p += "."
		}
		if strings.TrimSpace(p) == "" {
			continue
		}
		lines = append(lines, p)
	}
	return lines
}
