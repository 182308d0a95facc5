package chunker

import (
	"fmt"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// Refine makes one left-to-right pass merging undersized chunks into their
// successor. The chunk under the cursor absorbs the next one while it
// measures below lower and the pair together stays within upper; otherwise
// the cursor moves on. The last chunk is never merged backward.
//
// Absorbed tokens take the id of the absorbing chunk. The input is not
// modified.
func Refine(chunks []styled.Chunk, lower, upper int, metric Metric) ([]styled.Chunk, error) {
	if lower > upper {
		return nil, fmt.Errorf("%w: lower bound %d exceeds upper bound %d", styled.ErrInvalidArgument, lower, upper)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks to refine", styled.ErrInput)
	}

	out := make([]styled.Chunk, len(chunks))
	sizes := make([]int, len(chunks))
	for i, c := range chunks {
		n, err := metric.Measure(c)
		if err != nil {
			return nil, err
		}
		out[i] = styled.Chunk{ID: c.ID, Tokens: append([]styled.ScoredToken(nil), c.Tokens...)}
		sizes[i] = n
	}

	i := 0
	for i+1 < len(out) {
		cur, next := sizes[i], sizes[i+1]
		if cur < lower && cur+next <= upper {
			for _, t := range out[i+1].Tokens {
				t.ChunkID = out[i].ID
				out[i].Tokens = append(out[i].Tokens, t)
			}
			sizes[i] = cur + next
			out = append(out[:i+1], out[i+2:]...)
			sizes = append(sizes[:i+1], sizes[i+2:]...)
			continue
		}
		i++
	}
	return out, nil
}
