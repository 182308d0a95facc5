package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/stylechunk/internal/styled"
)

func tokenTexts(tokens []styled.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func findToken(t *testing.T, tokens []styled.Token, text string) styled.Token {
	t.Helper()
	for _, tok := range tokens {
		if tok.Text == text {
			return tok
		}
	}
	t.Fatalf("no token %q in %q", text, tokenTexts(tokens))
	return styled.Token{}
}

func TestMarkdownParser_InlineStyles(t *testing.T) {
	input := "# Title\n\nSome *emph* and **strong** text with ~~old~~ <u>new</u> words.\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", doc.Title)
	}

	want := []string{"Title", "Some", "emph", "and", "strong", "text with", "old", "new", "words."}
	got := tokenTexts(doc.Tokens)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected tokens %q, got %q", want, got)
	}

	title := findToken(t, doc.Tokens, "Title")
	if title.Tags != "header1" || title.FontSize != "24pt" || title.FontWeight != "bold" {
		t.Errorf("unexpected heading style %+v", title)
	}
	if tok := findToken(t, doc.Tokens, "emph"); tok.Tags != "emphasis" {
		t.Errorf("expected emphasis, got %q", tok.Tags)
	}
	if tok := findToken(t, doc.Tokens, "strong"); tok.Tags != "strong importance" {
		t.Errorf("expected strong importance, got %q", tok.Tags)
	}
	if tok := findToken(t, doc.Tokens, "old"); tok.TextDecoration != "line-through" {
		t.Errorf("expected line-through, got %q", tok.TextDecoration)
	}
	if tok := findToken(t, doc.Tokens, "new"); tok.TextDecoration != "underline" || tok.Tags != "underline" {
		t.Errorf("expected underline, got %+v", tok)
	}
	if tok := findToken(t, doc.Tokens, "words."); tok.Tags != "" || tok.FontSize != "12pt" {
		t.Errorf("expected plain body text, got %+v", tok)
	}
}

func TestMarkdownParser_HeadingLevels(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Tokens) != 6 {
		t.Fatalf("expected 6 tokens, got %d: %q", len(doc.Tokens), tokenTexts(doc.Tokens))
	}
	tests := map[string]string{
		"Title":              "header1",
		"Section A":          "header2",
		"Subsection A1":      "header3",
		"Intro text.":        "",
		"Section A content.": "",
	}
	for text, tags := range tests {
		if tok := findToken(t, doc.Tokens, text); tok.Tags != tags {
			t.Errorf("%q: expected tags %q, got %q", text, tags, tok.Tags)
		}
	}
}

func TestMarkdownParser_ListsAndTables(t *testing.T) {
	input := "- item one\n- item two\n\n| A | B |\n|---|---|\n| 1 | 2 |\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "list.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"item one", "item two", "A", "B", "1", "2"}
	if got := tokenTexts(doc.Tokens); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected tokens %q, got %q", want, got)
	}
	if tok := findToken(t, doc.Tokens, "A"); tok.Tags != "table, table header" {
		t.Errorf("expected table header, got %q", tok.Tags)
	}
	if tok := findToken(t, doc.Tokens, "2"); tok.Tags != "table, table cell" {
		t.Errorf("expected table cell, got %q", tok.Tags)
	}
}

func TestMarkdownParser_CodeBlock(t *testing.T) {
	input := "Text before.\n\n```\nfunc main() {\n}\n```\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "code.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %q", tokenTexts(doc.Tokens))
	}
	if doc.Tokens[1].Text != "func main() { }" {
		t.Errorf("unexpected code token %q", doc.Tokens[1].Text)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Tokens) != 0 {
		t.Errorf("expected 0 tokens, got %d", len(doc.Tokens))
	}
}
