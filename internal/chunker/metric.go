package chunker

import (
	"fmt"
	"strings"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// Metric measures chunk size for refinement.
type Metric string

const (
	MetricWords      Metric = "words"
	MetricCharacters Metric = "characters"
)

// ParseMetric accepts "words" or "characters" (also "chars"), ignoring case.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "words":
		return MetricWords, nil
	case "characters", "chars":
		return MetricCharacters, nil
	}
	return "", fmt.Errorf("%w: unknown metric %q", styled.ErrInvalidArgument, s)
}

// Measure returns the size of c under m.
func (m Metric) Measure(c styled.Chunk) (int, error) {
	switch m {
	case MetricWords:
		return c.Words(), nil
	case MetricCharacters:
		return c.Chars(), nil
	}
	return 0, fmt.Errorf("%w: unknown metric %q", styled.ErrInvalidArgument, string(m))
}
