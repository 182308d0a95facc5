package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// tagRoles maps element names to the role labels carried in Token.Tags.
// Elements without an entry contribute no role.
var tagRoles = map[string]string{
	"h1": "header1", "h2": "header2", "h3": "header3",
	"h4": "header4", "h5": "header5", "h6": "header6",
	"data-list-text": "header2",
	"strong":         "strong importance",
	"b":              "bold",
	"em":             "emphasis",
	"i":              "italic",
	"mark":           "highlighted",
	"u":              "underline",
	"ins":            "underline",
	"del":            "line-through",
	"s":              "line-through",
	"strike":         "line-through",
	"small":          "small",
	"cite":           "citation",
	"blockquote":     "blockquote",
	"sup":            "superscript",
	"sub":            "subscript",
	"table":          "table",
	"tr":             "table row",
	"td":             "table cell",
	"th":             "table header",
	"tbody":          "table body",
	"thead":          "table head",
	"tfoot":          "table foot",
}

// roles maps an element path to its de-duplicated role labels in first
// occurrence order.
func roles(elements []string) string {
	seen := make(map[string]bool, len(elements))
	var out []string
	for _, e := range elements {
		r, ok := tagRoles[e]
		if !ok || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return strings.Join(out, ", ")
}

// HTMLParser emits one token per text node, carrying the CSS inherited from
// the enclosing elements (class rules from <style> blocks, then inline
// style attributes) and the role labels of its ancestors.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*styled.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	out := &styled.Document{Title: strings.TrimSuffix(filename, filepath.Ext(filename))}
	if title := findTitle(doc); title != "" {
		out.Title = title
	}

	w := &htmlWalker{sheet: collectStyles(doc)}
	root := findBody(doc)
	if root == nil {
		root = doc
	}
	w.walk(root, declarations{}, nil)
	out.Tokens = w.tokens
	return out, nil
}

type htmlWalker struct {
	sheet  map[string]declarations
	tokens []styled.Token
}

func (w *htmlWalker) walk(n *html.Node, inherited declarations, path []string) {
	switch n.Type {
	case html.TextNode:
		text := strings.Join(strings.Fields(n.Data), " ")
		if text == "" {
			return
		}
		w.tokens = append(w.tokens, styled.Token{
			Text:           text,
			FontFamily:     inherited["font-family"],
			FontSize:       inherited["font-size"],
			FontWeight:     inherited["font-weight"],
			TextDecoration: inherited["text-decoration"],
			FontColor:      inherited["color"],
			Tags:           roles(path),
		})
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	current := inherited
	if n.Type == html.ElementNode {
		current = inherited.clone()
		for _, cls := range strings.Fields(attr(n, "class")) {
			if rule, ok := w.sheet[cls]; ok {
				current.merge(rule)
			}
		}
		if inline := attr(n, "style"); inline != "" {
			current.merge(parseDeclarations(inline))
		}
		path = append(path[:len(path):len(path)], n.Data)

		if marker, ok := attrOK(n, "data-list-text"); ok && strings.TrimSpace(marker) != "" {
			w.tokens = append(w.tokens, styled.Token{
				Text: strings.TrimSpace(marker),
				Tags: roles(append(path[:len(path):len(path)], "data-list-text")),
			})
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, current, path)
	}
}

func collectStyles(doc *html.Node) map[string]declarations {
	sheet := map[string]declarations{}
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "style" {
			for sel, decls := range parseStylesheet(rawText(n)) {
				if existing, ok := sheet[sel]; ok {
					existing.merge(decls)
					continue
				}
				sheet[sel] = decls
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	return sheet
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func rawText(n *html.Node) string {
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
	}
	return buf.String()
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
