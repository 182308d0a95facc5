package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// PDFParser handles PDF files. Glyphs are grouped into runs of one font and
// size; bold and italic are read from the font name. When the library
// cannot read a file and FallbackPdftotext is set, pdftotext is used and
// the text comes back unstyled.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*styled.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	doc := &styled.Document{Title: baseTitle(filename)}
	tokens, err := extractPDFTokens(data)
	if err == nil && len(tokens) > 0 {
		doc.Tokens = tokens
		return doc, nil
	}
	if !p.FallbackPdftotext {
		if err == nil {
			return doc, nil
		}
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	paras, ferr := extractPdftotext(data)
	if ferr != nil {
		if err != nil {
			return nil, fmt.Errorf("extract pdf text: %w (fallback: %v)", err, ferr)
		}
		return nil, fmt.Errorf("extract pdf text: %w", ferr)
	}
	for _, para := range paras {
		doc.Tokens = append(doc.Tokens, styled.Token{Text: para})
	}
	return doc, nil
}

func extractPDFTokens(data []byte) ([]styled.Token, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	var tokens []styled.Token
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		texts, err := pageTexts(page)
		if err != nil {
			continue
		}
		tokens = append(tokens, pdfRunsToTokens(texts)...)
	}
	return tokens, nil
}

// pageTexts guards against panics inside the content stream decoder.
func pageTexts(page pdflib.Page) (texts []pdflib.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode page content: %v", r)
		}
	}()
	return page.Content().Text, nil
}

// pdfRunsToTokens merges consecutive glyphs sharing font and size. A space
// is inserted on line changes and on horizontal gaps wider than a fifth of
// the font size.
func pdfRunsToTokens(texts []pdflib.Text) []styled.Token {
	var tokens []styled.Token
	var buf strings.Builder
	var cur *pdflib.Text
	var lastX, lastY float64

	flush := func() {
		if cur == nil {
			return
		}
		if t := collapse(buf.String()); t != "" {
			tok := pdfFontStyle(cur.Font, cur.FontSize)
			tok.Text = t
			tokens = append(tokens, tok)
		}
		buf.Reset()
	}

	for i := range texts {
		g := texts[i]
		if cur == nil || g.Font != cur.Font || math.Abs(g.FontSize-cur.FontSize) > 0.05 {
			flush()
			cur = &texts[i]
		} else {
			sameLine := math.Abs(g.Y-lastY) < 0.5*g.FontSize
			if !sameLine || g.X-lastX > 0.2*g.FontSize {
				buf.WriteByte(' ')
			}
		}
		buf.WriteString(g.S)
		lastX, lastY = g.X+g.W, g.Y
	}
	flush()
	return tokens
}

// pdfFontStyle derives family, size, weight and roles from a PDF font name
// such as "ABCDEF+TimesNewRoman-BoldItalic".
func pdfFontStyle(font string, size float64) styled.Token {
	name := font
	if i := strings.IndexByte(name, '+'); i >= 0 {
		name = name[i+1:]
	}
	family := name
	if i := strings.IndexAny(family, "-,"); i >= 0 {
		family = family[:i]
	}
	lower := strings.ToLower(name)

	t := styled.Token{FontFamily: family, FontWeight: "normal"}
	if size > 0 {
		t.FontSize = strconv.FormatFloat(math.Round(size*10)/10, 'f', -1, 64) + "pt"
	}
	var roles []string
	for _, w := range []string{"bold", "black", "heavy", "semibold", "demi"} {
		if strings.Contains(lower, w) {
			t.FontWeight = "bold"
			roles = append(roles, "bold")
			break
		}
	}
	if strings.Contains(lower, "italic") || strings.Contains(lower, "oblique") {
		roles = append(roles, "italic")
	}
	t.Tags = strings.Join(roles, ", ")
	return t
}

func extractPdftotext(data []byte) ([]string, error) {
	tmp, err := os.CreateTemp("", "stylechunk-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	out, err := exec.Command("pdftotext", tmpPath, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return paragraphs(bytes.NewReader(out))
}
