package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// TextParser handles plain text files. Each blank-line separated paragraph
// becomes one unstyled token.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*styled.Document, error) {
	paras, err := paragraphs(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	doc := &styled.Document{Title: baseTitle(filename)}
	for _, para := range paras {
		doc.Tokens = append(doc.Tokens, styled.Token{Text: para})
	}
	return doc, nil
}

// paragraphs splits r at blank lines and collapses each paragraph onto one
// line.
func paragraphs(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []string
	var current strings.Builder
	flush := func() {
		if t := collapse(current.String()); t != "" {
			out = append(out, t)
		}
		current.Reset()
	}

	for scanner.Scan() {
		// Form feeds separate pages and always end a paragraph.
		for i, part := range strings.Split(scanner.Text(), "\f") {
			if i > 0 || strings.TrimSpace(part) == "" {
				flush()
			}
			current.WriteString(part)
			current.WriteByte('\n')
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
