package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// DOCXParser handles .docx files. Adjacent runs with identical formatting
// inside a paragraph are merged into one token.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*styled.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	out := &styled.Document{Title: baseTitle(filename)}
	for _, item := range doc.Document.Body.Items {
		switch v := item.(type) {
		case *docx.Paragraph:
			out.Tokens = append(out.Tokens, docxParagraphTokens(v, nil)...)
		case *docx.Table:
			out.Tokens = append(out.Tokens, docxTableTokens(v)...)
		}
	}
	return out, nil
}

func docxTableTokens(t *docx.Table) []styled.Token {
	var tokens []styled.Token
	for _, row := range t.TableRows {
		for _, cell := range row.TableCells {
			for _, para := range cell.Paragraphs {
				tokens = append(tokens, docxParagraphTokens(para, []string{"table", "table row", "table cell"})...)
			}
			for _, nested := range cell.Tables {
				tokens = append(tokens, docxTableTokens(nested)...)
			}
		}
	}
	return tokens
}

func docxParagraphTokens(para *docx.Paragraph, extraRoles []string) []styled.Token {
	var baseRoles []string
	if level := docxHeadingLevel(para); level > 0 {
		baseRoles = append(baseRoles, "header"+strconv.Itoa(level))
	}
	baseRoles = append(baseRoles, extraRoles...)

	var tokens []styled.Token
	var text strings.Builder
	var style styled.Token
	flush := func() {
		if t := collapse(text.String()); t != "" {
			style.Text = t
			tokens = append(tokens, style)
		}
		text.Reset()
	}

	addRun := func(run *docx.Run) {
		s := docxRunStyle(run.RunProperties, baseRoles)
		if s != style {
			flush()
			style = s
		}
		for _, c := range run.Children {
			switch v := c.(type) {
			case *docx.Text:
				text.WriteString(v.Text)
			case *docx.Tab, *docx.BarterRabbet:
				text.WriteByte(' ')
			}
		}
	}

	for _, child := range para.Children {
		switch v := child.(type) {
		case *docx.Run:
			addRun(v)
		case *docx.Hyperlink:
			addRun(&v.Run)
		}
	}
	flush()
	return tokens
}

// docxRunStyle maps run properties to token style fields. The returned
// token has no text.
func docxRunStyle(rp *docx.RunProperties, baseRoles []string) styled.Token {
	roles := append([]string(nil), baseRoles...)
	var t styled.Token
	if rp == nil {
		t.Tags = strings.Join(roles, ", ")
		return t
	}
	if rp.Fonts != nil {
		t.FontFamily = rp.Fonts.ASCII
		if t.FontFamily == "" {
			t.FontFamily = rp.Fonts.HAnsi
		}
	}
	if rp.Size != nil {
		if half, err := strconv.ParseFloat(rp.Size.Val, 64); err == nil {
			t.FontSize = strconv.FormatFloat(half/2, 'f', -1, 64) + "pt"
		}
	}
	if rp.Bold != nil {
		t.FontWeight = "bold"
		roles = append(roles, "bold")
	}
	if rp.Italic != nil {
		roles = append(roles, "italic")
	}
	if rp.Color != nil && rp.Color.Val != "" && !strings.EqualFold(rp.Color.Val, "auto") {
		t.FontColor = "#" + strings.TrimPrefix(rp.Color.Val, "#")
	}
	if rp.Highlight != nil && rp.Highlight.Val != "" && rp.Highlight.Val != "none" {
		roles = append(roles, "highlighted")
	}
	if rp.VertAlign != nil {
		switch rp.VertAlign.Val {
		case "superscript":
			roles = append(roles, "superscript")
		case "subscript":
			roles = append(roles, "subscript")
		}
	}

	var decorations []string
	if rp.Underline != nil && rp.Underline.Val != "none" {
		decorations = append(decorations, "underline")
		roles = append(roles, "underline")
	}
	if rp.Strike != nil && rp.Strike.Val != "false" && rp.Strike.Val != "0" {
		decorations = append(decorations, "line-through")
		roles = append(roles, "line-through")
	}
	t.TextDecoration = strings.Join(decorations, ", ")
	t.Tags = strings.Join(roles, ", ")
	return t
}

// docxHeadingLevel reads the level from a "Heading1" / "heading 1" /
// "Title" paragraph style.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	level, err := strconv.Atoi(strings.TrimPrefix(style, "heading"))
	if err != nil || level < 1 || level > 6 {
		return 0
	}
	return level
}
