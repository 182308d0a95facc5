package pipeline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/stylechunk/internal/amend"
	"github.com/dgallion1/stylechunk/internal/chunker"
	"github.com/dgallion1/stylechunk/internal/parser"
	"github.com/dgallion1/stylechunk/internal/score"
	"github.com/dgallion1/stylechunk/internal/styled"
)

// Processor runs the synchronous per-document passes: parse, chunk and
// optionally reconstruct. It is safe for concurrent use.
type Processor struct {
	scorer     *score.Scorer
	parserOpts parser.Options
	markers    amend.Markers
}

func NewProcessor(s *score.Scorer, popts parser.Options) *Processor {
	if s == nil {
		s = score.Default()
	}
	return &Processor{scorer: s, parserOpts: popts, markers: amend.DefaultMarkers()}
}

// Scorer returns the shared scorer.
func (p *Processor) Scorer() *score.Scorer { return p.scorer }

// Output is everything produced for one document.
type Output struct {
	Document    *styled.Document
	ContentHash string
	Result      chunker.Result
	// Readings is set only when versions were requested.
	Readings *amend.Readings
}

// Parse tokenizes data with the parser chosen by filename.
func (p *Processor) Parse(filename string, data []byte) (*styled.Document, error) {
	doc, err := parser.ParseFile(bytes.NewReader(data), filename, p.parserOpts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return doc, nil
}

// Chunk scores, segments and refines doc.
func (p *Processor) Chunk(doc *styled.Document, opts chunker.Options) (chunker.Result, error) {
	res, err := chunker.Chunk(doc.Tokens, p.scorer, opts)
	if err != nil {
		return chunker.Result{}, fmt.Errorf("chunk: %w", err)
	}
	return res, nil
}

// Versions derives the old and new readings of a chunked document.
func (p *Processor) Versions(res chunker.Result, scoped bool) (amend.Readings, error) {
	r, err := amend.Reconstruct(res.Tokens, amend.Options{
		Scoped:  scoped,
		Markers: p.markers,
		Sizes:   p.scorer,
	})
	if err != nil {
		return amend.Readings{}, fmt.Errorf("reconstruct: %w", err)
	}
	return r, nil
}

// Run executes every pass for one file.
func (p *Processor) Run(filename string, data []byte, opts JobOptions) (*Output, error) {
	doc, err := p.Parse(filename, data)
	if err != nil {
		return nil, err
	}
	res, err := p.Chunk(doc, opts.Chunk)
	if err != nil {
		return nil, err
	}
	out := &Output{Document: doc, ContentHash: DocumentHash(doc), Result: res}
	if opts.Versions {
		r, err := p.Versions(res, opts.Scoped)
		if err != nil {
			return out, err
		}
		out.Readings = &r
	}
	return out, nil
}

// DocumentHash hashes the newline-joined token texts of doc.
func DocumentHash(doc *styled.Document) string {
	var sb strings.Builder
	for i, t := range doc.Tokens {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(t.Text)
	}
	return ContentHashHex([]byte(sb.String()))
}
