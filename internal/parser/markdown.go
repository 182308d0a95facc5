package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// Browser default sizes for rendered Markdown, in points.
var (
	markdownBodySize    = "12pt"
	markdownHeadingSize = map[int]string{1: "24pt", 2: "18pt", 3: "14pt", 4: "12pt", 5: "10pt", 6: "8pt"}
)

// MarkdownParser handles Markdown files using goldmark with the GFM
// strikethrough and table extensions. Inline <u>, <ins>, <del>, <s> and
// <strike> tags are honoured as decorations.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*styled.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Table))
	root := md.Parser().Parse(text.NewReader(src))

	w := &mdWalker{src: src}
	if err := ast.Walk(root, w.visit); err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}
	w.flush()
	return &styled.Document{Title: baseTitle(filename), Tokens: w.tokens}, nil
}

type mdWalker struct {
	src    []byte
	tokens []styled.Token

	heading    int
	emphasis   int
	strong     int
	strike     int
	underline  int
	blockquote int
	table      int
	tableHead  int

	style styled.Token
	buf   strings.Builder
}

func (w *mdWalker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch v := n.(type) {
	case *ast.Heading:
		w.flush()
		if entering {
			w.heading = v.Level
		} else {
			w.heading = 0
		}
	case *ast.Blockquote:
		w.flush()
		w.blockquote += delta(entering)
	case *east.Table:
		w.flush()
		w.table += delta(entering)
	case *east.TableHeader:
		w.tableHead += delta(entering)
	case *ast.Emphasis:
		if v.Level >= 2 {
			w.strong += delta(entering)
		} else {
			w.emphasis += delta(entering)
		}
	case *east.Strikethrough:
		w.strike += delta(entering)
	case *ast.RawHTML:
		if entering {
			for i := 0; i < v.Segments.Len(); i++ {
				w.rawTag(string(v.Segments.At(i).Value(w.src)))
			}
		}
	case *ast.Text:
		if entering {
			w.write(string(v.Segment.Value(w.src)))
			if v.SoftLineBreak() || v.HardLineBreak() {
				w.buf.WriteByte(' ')
			}
		}
	case *ast.String:
		if entering {
			w.write(string(v.Value))
		}
	case *ast.AutoLink:
		if entering {
			w.write(string(v.Label(w.src)))
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			w.flush()
			var code strings.Builder
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				code.Write(seg.Value(w.src))
			}
			w.write(code.String())
			w.flush()
		}
		return ast.WalkSkipChildren, nil
	case *ast.HTMLBlock:
		return ast.WalkSkipChildren, nil
	default:
		if n.Type() == ast.TypeBlock {
			w.flush()
		}
	}
	return ast.WalkContinue, nil
}

func delta(entering bool) int {
	if entering {
		return 1
	}
	return -1
}

// rawTag adjusts decoration depth for inline HTML tags.
func (w *mdWalker) rawTag(tag string) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if !strings.HasPrefix(tag, "<") {
		return
	}
	closing := strings.HasPrefix(tag, "</")
	name := strings.TrimLeft(tag, "</")
	if i := strings.IndexAny(name, " \t\n/>"); i >= 0 {
		name = name[:i]
	}
	d := 1
	if closing {
		d = -1
	}
	switch name {
	case "u", "ins":
		w.underline = max(w.underline+d, 0)
	case "del", "s", "strike":
		w.strike = max(w.strike+d, 0)
	}
}

// write appends s to the current run, starting a new token when the style
// at this point differs from the run's.
func (w *mdWalker) write(s string) {
	st := w.currentStyle()
	if st != w.style {
		w.flush()
		w.style = st
	}
	w.buf.WriteString(s)
}

func (w *mdWalker) flush() {
	if t := collapse(w.buf.String()); t != "" {
		tok := w.style
		tok.Text = t
		w.tokens = append(w.tokens, tok)
	}
	w.buf.Reset()
}

func (w *mdWalker) currentStyle() styled.Token {
	t := styled.Token{FontSize: markdownBodySize}
	var roles, decorations []string
	if w.heading > 0 {
		roles = append(roles, "header"+strconv.Itoa(w.heading))
		t.FontSize = markdownHeadingSize[w.heading]
		t.FontWeight = "bold"
	}
	if w.strong > 0 {
		roles = append(roles, "strong importance")
	}
	if w.emphasis > 0 {
		roles = append(roles, "emphasis")
	}
	if w.underline > 0 {
		roles = append(roles, "underline")
		decorations = append(decorations, "underline")
	}
	if w.strike > 0 {
		roles = append(roles, "line-through")
		decorations = append(decorations, "line-through")
	}
	if w.blockquote > 0 {
		roles = append(roles, "blockquote")
	}
	if w.table > 0 {
		roles = append(roles, "table")
		if w.tableHead > 0 {
			roles = append(roles, "table header")
		} else {
			roles = append(roles, "table cell")
		}
	}
	t.Tags = strings.Join(roles, ", ")
	t.TextDecoration = strings.Join(decorations, ", ")
	return t
}
