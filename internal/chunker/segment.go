// Package chunker splits a styled token stream into chunks at high-scoring
// tokens and merges undersized neighbours.
package chunker

import (
	"fmt"
	"math"

	"github.com/dgallion1/stylechunk/internal/stats"
	"github.com/dgallion1/stylechunk/internal/styled"
)

// DefaultQuantile is the score quantile used by AutoCutoff when none is given.
const DefaultQuantile = 0.94

// Scorer assigns an importance score to a token.
type Scorer interface {
	Score(styled.Token) float64
}

// Cutoff selects the boundary threshold: either a fixed score or a quantile
// of the document's own scores.
type Cutoff struct {
	auto     bool
	value    float64
	quantile float64
}

// FixedCutoff marks every token scoring at least v as a boundary.
func FixedCutoff(v float64) Cutoff {
	return Cutoff{value: v}
}

// AutoCutoff derives the threshold from the q-quantile of all scores in the
// document, floored to an integer.
func AutoCutoff(q float64) Cutoff {
	return Cutoff{auto: true, quantile: q}
}

// Auto reports whether the threshold is derived from the document.
func (c Cutoff) Auto() bool { return c.auto }

// Quantile returns the quantile of an automatic cutoff.
func (c Cutoff) Quantile() float64 { return c.quantile }

func (c Cutoff) Validate() error {
	if c.auto && (math.IsNaN(c.quantile) || c.quantile < 0 || c.quantile > 1) {
		return fmt.Errorf("%w: cutoff quantile %v outside [0, 1]", styled.ErrConfig, c.quantile)
	}
	return nil
}

func (c Cutoff) String() string {
	if c.auto {
		return fmt.Sprintf("auto(q=%g)", c.quantile)
	}
	return fmt.Sprintf("%g", c.value)
}

// Scores returns the score of every token, in order.
func Scores(tokens []styled.Token, s Scorer) []float64 {
	out := make([]float64, len(tokens))
	for i, t := range tokens {
		out[i] = s.Score(t)
	}
	return out
}

// ResolveCutoff returns the numeric threshold c selects for scores. An
// automatic cutoff over no scores resolves to 0.
func ResolveCutoff(scores []float64, c Cutoff) float64 {
	if !c.auto {
		return c.value
	}
	if len(scores) == 0 {
		return 0
	}
	return math.Floor(stats.Quantile(scores, c.quantile))
}

// Label scores tokens, flags boundaries and assigns chunk ids. The id of a
// token is the number of boundary tokens at or before it, so tokens ahead
// of the first boundary get id 0.
func Label(tokens []styled.Token, s Scorer, c Cutoff) ([]styled.ScoredToken, float64) {
	scores := Scores(tokens, s)
	threshold := ResolveCutoff(scores, c)

	out := make([]styled.ScoredToken, len(tokens))
	id := 0
	for i, t := range tokens {
		boundary := scores[i] >= threshold
		if boundary {
			id++
		}
		out[i] = styled.ScoredToken{Token: t, Score: scores[i], Boundary: boundary, ChunkID: id}
	}
	return out, threshold
}

// Group splits a labeled stream into chunks of equal consecutive ids.
func Group(tokens []styled.ScoredToken) []styled.Chunk {
	var chunks []styled.Chunk
	for _, t := range tokens {
		n := len(chunks)
		if n == 0 || chunks[n-1].ID != t.ChunkID {
			chunks = append(chunks, styled.Chunk{ID: t.ChunkID})
			n++
		}
		chunks[n-1].Tokens = append(chunks[n-1].Tokens, t)
	}
	return chunks
}

// Segment labels tokens and groups them into chunks. Empty input yields no
// chunks.
func Segment(tokens []styled.Token, s Scorer, c Cutoff) []styled.Chunk {
	labeled, _ := Label(tokens, s, c)
	return Group(labeled)
}
