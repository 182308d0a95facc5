package styled

import (
	"strings"
	"unicode/utf8"
)

// Chunk is a contiguous run of scored tokens sharing one chunk id.
type Chunk struct {
	ID     int           `json:"chunk_id"`
	Tokens []ScoredToken `json:"tokens"`
}

// Text joins the token texts with single spaces.
func (c Chunk) Text() string {
	var sb strings.Builder
	for i, t := range c.Tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// Words counts whitespace-separated words in Text.
func (c Chunk) Words() int {
	return len(strings.Fields(c.Text()))
}

// Chars counts runes in Text.
func (c Chunk) Chars() int {
	return utf8.RuneCountInString(c.Text())
}

// Flatten concatenates the tokens of chunks in order.
func Flatten(chunks []Chunk) []ScoredToken {
	n := 0
	for _, c := range chunks {
		n += len(c.Tokens)
	}
	out := make([]ScoredToken, 0, n)
	for _, c := range chunks {
		out = append(out, c.Tokens...)
	}
	return out
}

// Texts returns the joined text of every chunk.
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text()
	}
	return out
}

// Unscored strips scoring fields from a scored token stream.
func Unscored(tokens []ScoredToken) []Token {
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		out[i] = t.Token
	}
	return out
}
