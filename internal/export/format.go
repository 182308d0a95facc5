package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/stylechunk/internal/chunker"
	"github.com/dgallion1/stylechunk/internal/styled"
)

// Format selects how a chunking result is rendered.
type Format string

const (
	// FormatText writes "Chunk N" blocks.
	FormatText Format = "text"
	// FormatJSON writes chunk texts with size metrics.
	FormatJSON Format = "json"
	// FormatTokens writes chunk texts together with their scored tokens.
	FormatTokens Format = "tokens"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatTokens:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", styled.ErrInvalidArgument, s)
}

// ChunkView is the serialized form of one chunk.
type ChunkView struct {
	ID     int                  `json:"chunk_id"`
	Text   string               `json:"text"`
	Words  int                  `json:"words"`
	Chars  int                  `json:"characters"`
	Tokens []styled.ScoredToken `json:"tokens,omitempty"`
}

// ResultView is the serialized form of one chunked document.
type ResultView struct {
	Document   string      `json:"document"`
	Cutoff     float64     `json:"cutoff"`
	Tokens     int         `json:"tokens"`
	Boundaries int         `json:"boundaries"`
	Chunks     []ChunkView `json:"chunks"`
}

// View builds the serialized form of res. Token groups are included only
// when withTokens is set.
func View(document string, res chunker.Result, withTokens bool) ResultView {
	v := ResultView{
		Document:   document,
		Cutoff:     res.Cutoff,
		Tokens:     len(res.Tokens),
		Boundaries: res.Boundaries(),
		Chunks:     make([]ChunkView, len(res.Chunks)),
	}
	for i, c := range res.Chunks {
		cv := ChunkView{ID: c.ID, Text: c.Text(), Words: c.Words(), Chars: c.Chars()}
		if withTokens {
			cv.Tokens = c.Tokens
		}
		v.Chunks[i] = cv
	}
	return v
}

// Write renders res to w in format f.
func Write(w io.Writer, f Format, document string, res chunker.Result) error {
	switch f {
	case FormatText:
		return WriteChunkText(w, styled.Flatten(res.Chunks))
	case FormatJSON, FormatTokens:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(View(document, res, f == FormatTokens))
	}
	return fmt.Errorf("%w: unknown format %q", styled.ErrInvalidArgument, string(f))
}

// Extension is the file extension used for format f.
func (f Format) Extension() string {
	if f == FormatText {
		return ".txt"
	}
	return ".json"
}
