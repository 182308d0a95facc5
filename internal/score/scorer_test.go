package score

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/stylechunk/internal/styled"
)

func TestScore_HeadingScenario(t *testing.T) {
	s := Default()
	tok := styled.Token{
		Text:           "Amendments to the",
		Tags:           "header1",
		FontSize:       "20pt",
		FontWeight:     "bold",
		TextDecoration: "none",
	}
	assert.Equal(t, 17.0, s.Score(tok))
}

func TestScore_MultiValueFields(t *testing.T) {
	s := Default()
	tok := styled.Token{
		Text:           "x",
		Tags:           "header2, bold, emphasis, unknown",
		TextDecoration: "underline, line-through",
		FontWeight:     "bold",
	}
	// 5 + 2 + 1 tags, 1 decoration, 1 weight, 0 for empty size.
	assert.Equal(t, 10.0, s.Score(tok))
}

func TestScore_EmptyToken(t *testing.T) {
	assert.Equal(t, 0.0, Default().Score(styled.Token{Text: "plain"}))
}

func TestScore_NonFiniteSizeAddsNothing(t *testing.T) {
	s := Default()
	for _, size := range []string{"NaNpt", "nanpx", "Infpt"} {
		assert.Equal(t, 0.0, s.Score(styled.Token{Text: "x", FontSize: size}), size)
	}
}

func TestFontSizeLabel(t *testing.T) {
	s := Default()
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"large", ""},
		{"12pt", "12pt"},
		{"12.5pt", "12pt"},
		{"14pt", "13pt"},
		{"16px", "12pt"},
		{"14", "13pt"},
		{"4pt", "6pt"},
		{"6pt", "6pt"},
		{"7pt", "6pt"},
		{"72pt", "72pt"},
		{"100pt", "72pt"},
		{" 20 PT ", "20pt"},
		{"1.5em", "6pt"},
		{"NaNpt", ""},
		{"nanpx", ""},
		{"NaN", ""},
		{"+Infpt", ""},
		{"-infpx", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, s.FontSizeLabel(tt.raw))
		})
	}
}

func TestNewScorer_RejectsBadBins(t *testing.T) {
	tests := map[string][]Bin{
		"empty":    nil,
		"unsorted": {{10, "10pt"}, {8, "8pt"}},
		"equal":    {{10, "10pt"}, {10, "10pt-b"}},
		"no label": {{10, ""}},
	}
	for name, bins := range tests {
		t.Run(name, func(t *testing.T) {
			tbl := DefaultTable()
			tbl.Bins = bins
			_, err := NewScorer(tbl)
			require.Error(t, err)
			assert.True(t, errors.Is(err, styled.ErrConfig))
		})
	}
}

func TestNewScorer_CopiesTable(t *testing.T) {
	tbl := DefaultTable()
	s, err := NewScorer(tbl)
	require.NoError(t, err)
	tbl.Tags["header1"] = 100
	assert.Equal(t, 6.0, s.Score(styled.Token{Text: "x", Tags: "header1"}))
}

func TestReadTable_OverridesDefaults(t *testing.T) {
	doc := `
tags:
  header1: 10
  highlighted: 3
bins:
  - {threshold: 10, label: small}
  - {threshold: 20, label: big}
font_sizes:
  big: 5
`
	tbl, err := ReadTable(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 10.0, tbl.Tags["header1"])
	assert.Equal(t, 5.0, tbl.Tags["header2"], "unlisted keys keep defaults")
	require.Len(t, tbl.Bins, 2)

	s, err := NewScorer(tbl)
	require.NoError(t, err)
	assert.Equal(t, "big", s.FontSizeLabel("30pt"))
	assert.Equal(t, 18.0, s.Score(styled.Token{Text: "x", Tags: "header1, highlighted", FontSize: "24pt"}))
}

func TestReadTable_JSON(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader(`{"weights": {"bold": 4}}`))
	require.NoError(t, err)
	assert.Equal(t, 4.0, tbl.Weights["bold"])
	assert.Len(t, tbl.Bins, 16)
}

func TestReadTable_Invalid(t *testing.T) {
	_, err := ReadTable(strings.NewReader("bins:\n  - {threshold: 5, label: a}\n  - {threshold: 1, label: b}\n"))
	assert.ErrorIs(t, err, styled.ErrConfig)

	_, err = ReadTable(strings.NewReader("tags: [not, a, map]"))
	assert.ErrorIs(t, err, styled.ErrConfig)
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, DefaultTable().WriteYAML(&sb))
	tbl, err := ReadTable(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, DefaultTable(), tbl)
}
