package parser

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// recordColumns are the token record fields in input order.
var recordColumns = []string{
	"text_content", "font_family", "font_size", "font_weight",
	"text_decoration", "font_color", "tags",
}

// CSVParser reads a table of pre-extracted token records. The header row
// names the columns; text_content is required and the other columns are
// optional.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*styled.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &styled.Document{Title: baseTitle(filename)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := index["text_content"]; !ok {
		return nil, fmt.Errorf("%w: csv header has no text_content column", styled.ErrInput)
	}

	doc := &styled.Document{Title: baseTitle(filename)}
	for row := 2; ; row++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		field := func(name string) string {
			if i, ok := index[name]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		tok := styled.Token{
			Text:           field(recordColumns[0]),
			FontFamily:     field(recordColumns[1]),
			FontSize:       field(recordColumns[2]),
			FontWeight:     field(recordColumns[3]),
			TextDecoration: field(recordColumns[4]),
			FontColor:      field(recordColumns[5]),
			Tags:           field(recordColumns[6]),
		}
		if tok.Text == "" {
			return nil, fmt.Errorf("%w: csv row %d has empty text_content", styled.ErrInput, row)
		}
		doc.Tokens = append(doc.Tokens, tok)
	}
	return doc, nil
}

// JSONParser reads a JSON array of token records.
type JSONParser struct{}

func (p *JSONParser) Parse(r io.Reader, filename string) (*styled.Document, error) {
	var tokens []styled.Token
	if err := json.NewDecoder(r).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("%w: decode token records: %v", styled.ErrInput, err)
	}
	if err := styled.Validate(tokens); err != nil {
		return nil, err
	}
	return &styled.Document{Title: baseTitle(filename), Tokens: tokens}, nil
}

// WriteCSV writes tokens as a record table with a header row.
func WriteCSV(w io.Writer, tokens []styled.Token) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordColumns); err != nil {
		return err
	}
	for _, t := range tokens {
		rec := []string{t.Text, t.FontFamily, t.FontSize, t.FontWeight, t.TextDecoration, t.FontColor, t.Tags}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
