// Package extract produces bounded-length visible text from page content.
package extract

import (
	"context"
	"io"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultMaxRunes bounds the text handed to the classifier.
const DefaultMaxRunes = 2000

// Extractor produces the text of the current page.
type Extractor interface {
	Extract(ctx context.Context) (string, error)
}

// skipped holds elements whose text is never visible.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
	atom.Svg:      true,
	atom.Iframe:   true,
}

// HTMLText returns the visible text of an HTML document, whitespace
// collapsed and truncated to maxRunes (no limit when maxRunes <= 0).
func HTMLText(r io.Reader, maxRunes int) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipped[n.DataAtom] {
			return
		}
		if n.Type == html.ElementNode && hiddenAttr(n) {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return Truncate(Collapse(b.String()), maxRunes), nil
}

func hiddenAttr(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "aria-hidden":
			if a.Val == "true" {
				return true
			}
		}
	}
	return false
}

// Collapse folds every whitespace run into a single space and trims the ends.
func Collapse(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// Truncate cuts s to at most maxRunes runes. maxRunes <= 0 disables the limit.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}

// Page holds the current content of one tab. Content can be replaced while
// an observer reads it.
type Page struct {
	maxRunes int

	mu   sync.RWMutex
	text string
	html string
}

// NewPage returns an empty page bounded to maxRunes of extracted text.
func NewPage(maxRunes int) *Page {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxRunes
	}
	return &Page{maxRunes: maxRunes}
}

// SetText replaces the page content with plain text.
func (p *Page) SetText(text string) {
	p.mu.Lock()
	p.text, p.html = text, ""
	p.mu.Unlock()
}

// SetHTML replaces the page content with an HTML document.
func (p *Page) SetHTML(doc string) {
	p.mu.Lock()
	p.text, p.html = "", doc
	p.mu.Unlock()
}

// Extract implements Extractor.
func (p *Page) Extract(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.RLock()
	text, doc := p.text, p.html
	p.mu.RUnlock()

	if doc != "" {
		return HTMLText(strings.NewReader(doc), p.maxRunes)
	}
	return Truncate(Collapse(text), p.maxRunes), nil
}
