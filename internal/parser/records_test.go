package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/stylechunk/internal/styled"
)

func TestCSVParser_TokenRecords(t *testing.T) {
	input := "text_content,font_size,tags,text_decoration\n" +
		"Amendments to the,20pt,header1,\n" +
		"\"added, text\",11pt,,underline\n" +
		"short row\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "tokens.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "tokens" {
		t.Errorf("expected title %q, got %q", "tokens", doc.Title)
	}
	if len(doc.Tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(doc.Tokens))
	}
	if doc.Tokens[0].FontSize != "20pt" || doc.Tokens[0].Tags != "header1" {
		t.Errorf("unexpected first token %+v", doc.Tokens[0])
	}
	if doc.Tokens[1].Text != "added, text" || doc.Tokens[1].TextDecoration != "underline" {
		t.Errorf("unexpected second token %+v", doc.Tokens[1])
	}
	if doc.Tokens[2].FontFamily != "" || doc.Tokens[2].FontSize != "" {
		t.Errorf("expected absent fields to be empty, got %+v", doc.Tokens[2])
	}
}

func TestCSVParser_Errors(t *testing.T) {
	p := &CSVParser{}
	if _, err := p.Parse(strings.NewReader("font_size\n12pt\n"), "x.csv"); !errors.Is(err, styled.ErrInput) {
		t.Errorf("expected ErrInput for missing column, got %v", err)
	}
	if _, err := p.Parse(strings.NewReader("text_content,tags\n,bold\n"), "x.csv"); !errors.Is(err, styled.ErrInput) {
		t.Errorf("expected ErrInput for empty text, got %v", err)
	}
}

func TestWriteCSV_ReadBack(t *testing.T) {
	tokens := []styled.Token{
		{Text: "Summary", FontSize: "16pt", Tags: "header2, bold"},
		{Text: "Body, with comma", FontColor: "#333"},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tokens); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, err := (&CSVParser{}).Parse(&buf, "back.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Tokens) != 2 || doc.Tokens[0] != tokens[0] || doc.Tokens[1] != tokens[1] {
		t.Fatalf("expected %+v, got %+v", tokens, doc.Tokens)
	}
}

func TestJSONParser(t *testing.T) {
	input := `[{"text_content": "Heading", "font_size": "20pt", "tags": "header1"}, {"text_content": "Body"}]`
	doc, err := (&JSONParser{}).Parse(strings.NewReader(input), "tokens.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Tokens) != 2 || doc.Tokens[0].Tags != "header1" {
		t.Fatalf("unexpected tokens %+v", doc.Tokens)
	}

	if _, err := (&JSONParser{}).Parse(strings.NewReader(`[{"tags": "bold"}]`), "x.json"); !errors.Is(err, styled.ErrInput) {
		t.Errorf("expected ErrInput for empty text, got %v", err)
	}
	if _, err := (&JSONParser{}).Parse(strings.NewReader(`{`), "x.json"); !errors.Is(err, styled.ErrInput) {
		t.Errorf("expected ErrInput for malformed json, got %v", err)
	}
}

func TestForFile(t *testing.T) {
	for _, name := range []string{"a.txt", "a.MD", "a.markdown", "a.csv", "a.json", "a.htm", "a.pdf", "a.docx"} {
		if _, err := ForFile(name, Options{}); err != nil {
			t.Errorf("ForFile(%q): unexpected error %v", name, err)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("IsSupportedExtension(%q) = false", name)
		}
	}
	if _, err := ForFile("a.xls", Options{}); !errors.Is(err, styled.ErrInput) {
		t.Errorf("expected ErrInput for unsupported extension, got %v", err)
	}
}

func TestParseFile_RejectsEmptyDocument(t *testing.T) {
	if _, err := ParseFile(strings.NewReader("\n\n"), "blank.txt", Options{}); !errors.Is(err, styled.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
	doc, err := ParseFile(strings.NewReader("hello"), "hi.txt", Options{})
	if err != nil || len(doc.Tokens) != 1 {
		t.Fatalf("unexpected result %v, %v", doc, err)
	}
}
