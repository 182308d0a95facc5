package amend

import (
	"fmt"

	"github.com/dgallion1/stylechunk/internal/chunker"
	"github.com/dgallion1/stylechunk/internal/styled"
)

// Options controls Reconstruct.
type Options struct {
	// Scoped limits reconstruction to the located amendment section. When
	// false the whole document is used.
	Scoped  bool
	Markers Markers
	Sizes   SizeLabeler
}

// Readings holds both versions of one document.
type Readings struct {
	// Region is the section that was read, or the whole stream when unscoped.
	Region Region
	Old    []styled.ScoredToken
	New    []styled.ScoredToken
}

// Tokens returns the reading for v.
func (r Readings) Tokens(v Version) ([]styled.ScoredToken, error) {
	switch v {
	case Old:
		return r.Old, nil
	case New:
		return r.New, nil
	}
	return nil, fmt.Errorf("%w: unknown version %q", styled.ErrInvalidArgument, string(v))
}

// Reconstruct derives the old and new readings of tokens. Chunk ids are
// assigned over the whole stream before any text is dropped, so a heading
// keeps the same chunk in both readings. Unscoped reconstruction never
// fails; scoped reconstruction returns ErrLocate or ErrStructure when the
// section cannot be found.
func Reconstruct(tokens []styled.ScoredToken, opts Options) (Readings, error) {
	region := Region{Start: 0, End: len(tokens) - 1}
	if opts.Scoped {
		if opts.Sizes == nil {
			return Readings{}, fmt.Errorf("%w: scoped reconstruction needs a size labeler", styled.ErrConfig)
		}
		r, err := Locate(tokens, opts.Markers, opts.Sizes)
		if err != nil {
			return Readings{}, err
		}
		region = r
	}

	section := region.Slice(chunker.Renumber(tokens))
	old, _ := Filter(section, Old)
	nw, _ := Filter(section, New)
	return Readings{Region: region, Old: old, New: nw}, nil
}
