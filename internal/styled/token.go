package styled

import "strings"

// Token is one run of text with the style it was rendered in.
// Multi-valued fields (TextDecoration, FontWeight, Tags) are comma-joined.
type Token struct {
	Text           string `json:"text_content"`
	FontFamily     string `json:"font_family"`
	FontSize       string `json:"font_size"`
	FontWeight     string `json:"font_weight"`
	TextDecoration string `json:"text_decoration"`
	FontColor      string `json:"font_color"`
	Tags           string `json:"tags"`
}

// ScoredToken is a Token with the derived scoring fields attached.
type ScoredToken struct {
	Token
	Score    float64 `json:"total_score"`
	Boundary bool    `json:"is_cutoff"`
	ChunkID  int     `json:"chunk"`
}

// Document is the ordered token stream produced for one source file.
type Document struct {
	Title  string
	Tokens []Token
}

// Values splits a comma-joined style field into trimmed, non-empty values.
func Values(field string) []string {
	if field == "" {
		return nil
	}
	parts := strings.Split(field, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HasStyle reports whether the decoration or the tags of t mention style,
// ignoring case.
func (t Token) HasStyle(style string) bool {
	style = strings.ToLower(style)
	return strings.Contains(strings.ToLower(t.TextDecoration), style) ||
		strings.Contains(strings.ToLower(t.Tags), style)
}

// Validate checks that every token carries text.
func Validate(tokens []Token) error {
	for i, t := range tokens {
		if strings.TrimSpace(t.Text) == "" {
			return inputErrorf("token %d has empty text", i)
		}
	}
	return nil
}
