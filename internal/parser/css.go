package parser

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// declarations is a set of CSS property values keyed by property name.
type declarations map[string]string

func (d declarations) clone() declarations {
	out := make(declarations, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func (d declarations) merge(other declarations) {
	for k, v := range other {
		d[k] = v
	}
}

func (d declarations) set(property []byte, values []css.Token) {
	key := strings.ToLower(strings.TrimSpace(string(property)))
	if key == "" {
		return
	}
	d[key] = tokenText(values)
}

// parseDeclarations reads an inline style attribute. Reading stops at the
// first malformed declaration.
func parseDeclarations(s string) declarations {
	out := declarations{}
	p := css.NewParser(parse.NewInputString(s), true)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			return out
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			out.set(data, p.Values())
		}
	}
}

// parseStylesheet reads the rulesets of a <style> block. A leading "." is
// stripped from each selector so class names can be looked up directly;
// any other selector is kept verbatim. Rules for the same selector merge in
// source order. Declarations inside at-rules other than nested rulesets are
// ignored.
func parseStylesheet(src string) map[string]declarations {
	rules := map[string]declarations{}
	p := css.NewParser(parse.NewInputString(src), false)

	var selectors []string
	var open declarations
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			return rules
		case css.QualifiedRuleGrammar:
			selectors = append(selectors, tokenText(p.Values()))
		case css.BeginRulesetGrammar:
			selectors = append(selectors, tokenText(p.Values()))
			open = declarations{}
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			if open != nil {
				open.set(data, p.Values())
			}
		case css.EndRulesetGrammar:
			for _, sel := range strings.Split(strings.Join(selectors, ","), ",") {
				sel = strings.TrimPrefix(strings.TrimSpace(sel), ".")
				if sel == "" {
					continue
				}
				if existing, ok := rules[sel]; ok {
					existing.merge(open)
					continue
				}
				rules[sel] = open.clone()
			}
			selectors, open = nil, nil
		case css.BeginAtRuleGrammar, css.AtRuleGrammar:
			selectors = nil
		}
	}
}

func tokenText(values []css.Token) string {
	var sb strings.Builder
	for _, v := range values {
		sb.Write(v.Data)
	}
	return strings.TrimSpace(sb.String())
}
