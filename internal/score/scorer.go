package score

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// Scorer computes token scores from a validated Table. It is safe for
// concurrent use.
type Scorer struct {
	table Table
}

// NewScorer validates t and returns a Scorer over a private copy of it.
func NewScorer(t Table) (*Scorer, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{table: t.clone()}, nil
}

// Default returns a Scorer over DefaultTable.
func Default() *Scorer {
	return &Scorer{table: DefaultTable()}
}

// Table returns a copy of the scorer's table.
func (s *Scorer) Table() Table {
	return s.table.clone()
}

// Score sums the tag, font size, decoration and weight contributions of t.
func (s *Scorer) Score(t styled.Token) float64 {
	total := sumValues(s.table.Tags, t.Tags)
	total += s.table.FontSizes[s.FontSizeLabel(t.FontSize)]
	total += sumValues(s.table.Decorations, t.TextDecoration)
	total += sumValues(s.table.Weights, t.FontWeight)
	return total
}

// FontSizeLabel maps a raw font size ("12pt", "16px", "14", "") to its bin
// label. Empty or unparseable sizes map to "".
func (s *Scorer) FontSizeLabel(raw string) string {
	size, ok := ParseFontSize(raw)
	if !ok {
		return ""
	}
	bins := s.table.Bins
	if size <= bins[0].Threshold {
		return bins[0].Label
	}
	last := len(bins) - 1
	if size >= bins[last].Threshold {
		return bins[last].Label
	}
	// First bin strictly above size; the one before it holds size.
	i := sort.Search(len(bins), func(i int) bool { return bins[i].Threshold > size })
	return bins[i-1].Label
}

// ParseFontSize converts a CSS-like size to points. px values are scaled by
// 0.75; other units are stripped. NaN and infinite sizes are unparseable.
func ParseFontSize(raw string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	scale := 1.0
	switch {
	case strings.HasSuffix(s, "pt"):
		s = strings.TrimSpace(strings.TrimSuffix(s, "pt"))
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSpace(strings.TrimSuffix(s, "px"))
		scale = 0.75
	default:
		s = strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' {
				return r
			}
			return -1
		}, s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v * scale, true
}

func sumValues(weights map[string]float64, field string) float64 {
	var total float64
	for _, v := range styled.Values(field) {
		total += weights[v]
	}
	return total
}
