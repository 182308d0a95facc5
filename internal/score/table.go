// Package score assigns a numeric importance score to styled tokens from a
// table of per-style weights.
package score

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// Bin maps every font size at or above Threshold (and below the next bin)
// to Label.
type Bin struct {
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Label     string  `yaml:"label" json:"label"`
}

// Table holds the weights for each style dimension. Keys missing from a map
// weigh 0.
type Table struct {
	Tags        map[string]float64 `yaml:"tags" json:"tags"`
	FontSizes   map[string]float64 `yaml:"font_sizes" json:"font_sizes"`
	Decorations map[string]float64 `yaml:"decorations" json:"decorations"`
	Weights     map[string]float64 `yaml:"weights" json:"weights"`
	Bins        []Bin              `yaml:"bins" json:"bins"`
}

// DefaultTable returns a fresh copy of the built-in weights.
func DefaultTable() Table {
	return Table{
		Tags: map[string]float64{
			"header1":           6,
			"header2":           5,
			"header3":           4,
			"header4":           3,
			"header5":           2,
			"header6":           1,
			"bold":              2,
			"strong importance": 2,
			"emphasis":          1,
		},
		FontSizes: map[string]float64{
			"":     0,
			"6pt":  0,
			"8pt":  0.5,
			"9pt":  1,
			"10pt": 2,
			"11pt": 2.5,
			"12pt": 4,
			"13pt": 7,
			"15pt": 7.5,
			"16pt": 8,
			"18pt": 9,
			"20pt": 10,
			"24pt": 12,
			"28pt": 14,
			"36pt": 18,
			"48pt": 24,
			"72pt": 36,
		},
		Decorations: map[string]float64{
			"underline":    1,
			"none":         0,
			"line-through": 0,
			"overline":     0,
		},
		Weights: map[string]float64{
			"bold":   1,
			"normal": 0,
		},
		Bins: []Bin{
			{6, "6pt"}, {8, "8pt"}, {9, "9pt"}, {10, "10pt"},
			{11, "11pt"}, {12, "12pt"}, {13, "13pt"}, {15, "15pt"},
			{16, "16pt"}, {18, "18pt"}, {20, "20pt"}, {24, "24pt"},
			{28, "28pt"}, {36, "36pt"}, {48, "48pt"}, {72, "72pt"},
		},
	}
}

// Validate checks that the bins are non-empty, labeled, and strictly
// increasing.
func (t Table) Validate() error {
	if len(t.Bins) == 0 {
		return fmt.Errorf("%w: font size bins are empty", styled.ErrConfig)
	}
	for i, b := range t.Bins {
		if b.Label == "" {
			return fmt.Errorf("%w: bin %d has no label", styled.ErrConfig, i)
		}
		if i > 0 && b.Threshold <= t.Bins[i-1].Threshold {
			return fmt.Errorf("%w: bin thresholds not strictly increasing at %d (%g after %g)",
				styled.ErrConfig, i, b.Threshold, t.Bins[i-1].Threshold)
		}
	}
	return nil
}

// clone deep-copies the maps and bins so a Scorer never shares mutable state
// with its caller.
func (t Table) clone() Table {
	cp := func(m map[string]float64) map[string]float64 {
		out := make(map[string]float64, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out
	}
	return Table{
		Tags:        cp(t.Tags),
		FontSizes:   cp(t.FontSizes),
		Decorations: cp(t.Decorations),
		Weights:     cp(t.Weights),
		Bins:        append([]Bin(nil), t.Bins...),
	}
}

// ReadTable decodes a YAML or JSON table. Keys absent from the document keep
// their default weights; a bins list, when present, replaces the default bins.
func ReadTable(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("read score table: %w", err)
	}
	t := DefaultTable()
	if len(bytes.TrimSpace(data)) == 0 {
		return t, nil
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("%w: decode score table: %v", styled.ErrConfig, err)
	}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// LoadTable reads a table file. An empty path yields the default table.
func LoadTable(path string) (Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open score table: %w", err)
	}
	defer f.Close()
	return ReadTable(f)
}

// WriteYAML encodes t as YAML.
func (t Table) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode score table: %w", err)
	}
	return enc.Close()
}
