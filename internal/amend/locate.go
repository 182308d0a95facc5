package amend

import (
	"fmt"
	"strings"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// Markers identify the amendment section of an update document.
type Markers struct {
	// Start is the exact text of the section heading's first token.
	Start string `yaml:"start" json:"start"`
	// HeadingSizes lists the font size labels the start token may carry.
	HeadingSizes []string `yaml:"heading_sizes" json:"heading_sizes"`
	// Follow is the exact text required right after the start token.
	Follow string `yaml:"follow" json:"follow"`
	// End is a substring of the token that closes the section.
	End string `yaml:"end" json:"end"`
}

// DefaultMarkers returns the markers of FASB Accounting Standards Updates.
func DefaultMarkers() Markers {
	return Markers{
		Start:        "Amendments to the",
		HeadingSizes: []string{"20pt", "16pt"},
		Follow:       "FASB Accounting Standards Codification",
		End:          "The amendments in this Update were adopted by",
	}
}

// SizeLabeler maps a raw font size to its bin label.
type SizeLabeler interface {
	FontSizeLabel(raw string) string
}

// Region is an inclusive token index range.
type Region struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Slice returns the tokens inside r.
func (r Region) Slice(tokens []styled.ScoredToken) []styled.ScoredToken {
	return tokens[r.Start : r.End+1]
}

// Len is the number of tokens in r.
func (r Region) Len() int { return r.End - r.Start + 1 }

// Locate finds the amendment section. The start token must be unique and
// directly followed by m.Follow. The section ends at the first later token
// containing m.End, or at the last token.
func Locate(tokens []styled.ScoredToken, m Markers, sizes SizeLabeler) (Region, error) {
	start := -1
	for i, t := range tokens {
		if t.Text != m.Start || !m.headingSize(sizes.FontSizeLabel(t.FontSize)) {
			continue
		}
		if start >= 0 {
			return Region{}, fmt.Errorf("%w: %q heading appears more than once (tokens %d and %d)",
				styled.ErrLocate, m.Start, start, i)
		}
		start = i
	}
	if start < 0 {
		return Region{}, fmt.Errorf("%w: no %q heading", styled.ErrLocate, m.Start)
	}
	if start+1 >= len(tokens) {
		return Region{}, fmt.Errorf("%w: %q heading is the last token", styled.ErrStructure, m.Start)
	}
	if next := tokens[start+1].Text; next != m.Follow {
		return Region{}, fmt.Errorf("%w: expected %q after %q, found %q",
			styled.ErrStructure, m.Follow, m.Start, next)
	}

	end := len(tokens) - 1
	for i := start + 1; i < len(tokens); i++ {
		if m.End != "" && strings.Contains(tokens[i].Text, m.End) {
			end = i
			break
		}
	}
	return Region{Start: start, End: end}, nil
}

func (m Markers) headingSize(label string) bool {
	for _, s := range m.HeadingSizes {
		if s == label {
			return true
		}
	}
	return false
}
