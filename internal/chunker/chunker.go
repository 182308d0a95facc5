package chunker

import (
	"fmt"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// Options controls the chunking pipeline.
type Options struct {
	Cutoff Cutoff
	Refine bool
	Metric Metric
	Lower  int
	Upper  int
}

// DefaultOptions returns a fixed cutoff of 7 with word-based refinement
// between 100 and 650.
func DefaultOptions() Options {
	return Options{
		Cutoff: FixedCutoff(7),
		Refine: true,
		Metric: MetricWords,
		Lower:  100,
		Upper:  650,
	}
}

func (o Options) Validate() error {
	if err := o.Cutoff.Validate(); err != nil {
		return err
	}
	if !o.Refine {
		return nil
	}
	if _, err := ParseMetric(string(o.Metric)); err != nil {
		return err
	}
	if o.Lower > o.Upper {
		return fmt.Errorf("%w: lower bound %d exceeds upper bound %d", styled.ErrInvalidArgument, o.Lower, o.Upper)
	}
	return nil
}

// Result is the outcome of Chunk for one document.
type Result struct {
	Cutoff float64
	Tokens []styled.ScoredToken
	Chunks []styled.Chunk
}

// Texts returns the joined text of each chunk.
func (r Result) Texts() []string {
	return styled.Texts(r.Chunks)
}

// Boundaries counts boundary tokens.
func (r Result) Boundaries() int {
	n := 0
	for _, t := range r.Tokens {
		if t.Boundary {
			n++
		}
	}
	return n
}

// Chunk scores, segments and, when enabled, refines tokens.
func Chunk(tokens []styled.Token, s Scorer, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	if len(tokens) == 0 {
		return Result{}, fmt.Errorf("%w: no tokens", styled.ErrInput)
	}
	if err := styled.Validate(tokens); err != nil {
		return Result{}, err
	}

	labeled, threshold := Label(tokens, s, opts.Cutoff)
	chunks := Group(labeled)
	if opts.Refine {
		var err error
		chunks, err = Refine(chunks, opts.Lower, opts.Upper, opts.Metric)
		if err != nil {
			return Result{}, fmt.Errorf("refine: %w", err)
		}
	}
	return Result{
		Cutoff: threshold,
		Tokens: styled.Flatten(chunks),
		Chunks: chunks,
	}, nil
}

// Renumber assigns chunk ids so that a run of consecutive boundary tokens
// opens a single chunk. Numbering starts at 1 and the first token is always
// in chunk 1. The input is not modified.
func Renumber(tokens []styled.ScoredToken) []styled.ScoredToken {
	out := make([]styled.ScoredToken, len(tokens))
	id := 1
	for i, t := range tokens {
		if i > 0 && t.Boundary && !tokens[i-1].Boundary {
			id++
		}
		t.ChunkID = id
		out[i] = t
	}
	return out
}
