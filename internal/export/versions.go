package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/stylechunk/internal/amend"
)

// VersionOptions controls how old/new readings are rendered.
type VersionOptions struct {
	// Lines writes sentence lines instead of "Chunk N" blocks.
	Lines bool
	// Legends are stripped from each reading; nil disables stripping.
	Legends amend.Legends
}

// RenderVersion renders reading v of r. Chunk mode groups tokens by the ids
// Reconstruct assigned.
func RenderVersion(r amend.Readings, v amend.Version, opts VersionOptions) (string, error) {
	tokens, err := r.Tokens(v)
	if err != nil {
		return "", err
	}
	if !opts.Lines {
		text := ChunkText(tokens)
		if opts.Legends != nil {
			text = amend.StripLegend(text, v, opts.Legends)
		}
		return text, nil
	}

	// Legends go before the sentence split.
	joined := amend.JoinTokens(tokens)
	if opts.Legends != nil {
		joined = amend.StripLegend(joined, v, opts.Legends)
	}
	lines := amend.SplitSentences(joined)
	text := strings.Join(lines, "\n")
	if len(lines) > 0 {
		text += "\n"
	}
	return text, nil
}

// WriteVersions writes <name>_old.txt and <name>_new.txt into dir and
// returns the paths written.
func WriteVersions(dir, name string, r amend.Readings, opts VersionOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	var paths []string
	for _, v := range amend.Versions {
		text, err := RenderVersion(r, v, opts)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", name, v))
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
