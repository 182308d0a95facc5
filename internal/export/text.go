// Package export renders chunking results as text files, JSON documents and
// old/new version files.
package export

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// GroupByID collects tokens into chunks keyed by ChunkID, in ascending id
// order. Tokens keep their relative order within a chunk.
func GroupByID(tokens []styled.ScoredToken) []styled.Chunk {
	byID := map[int]*styled.Chunk{}
	var ids []int
	for _, t := range tokens {
		c, ok := byID[t.ChunkID]
		if !ok {
			c = &styled.Chunk{ID: t.ChunkID}
			byID[t.ChunkID] = c
			ids = append(ids, t.ChunkID)
		}
		c.Tokens = append(c.Tokens, t)
	}
	sort.Ints(ids)
	out := make([]styled.Chunk, len(ids))
	for i, id := range ids {
		out[i] = *byID[id]
	}
	return out
}

// ChunkText renders tokens as "Chunk N" blocks, one per chunk id.
func ChunkText(tokens []styled.ScoredToken) string {
	var sb strings.Builder
	for _, c := range GroupByID(tokens) {
		fmt.Fprintf(&sb, "Chunk %d\n%s\n\n", c.ID, c.Text())
	}
	return sb.String()
}

// WriteChunkText writes ChunkText(tokens) to w.
func WriteChunkText(w io.Writer, tokens []styled.ScoredToken) error {
	_, err := io.WriteString(w, ChunkText(tokens))
	return err
}

// WriteLines writes one line per entry.
func WriteLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
