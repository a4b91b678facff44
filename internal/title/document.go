package title

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Element is a read-only view of one element.
type Element interface {
	// Tag returns the lower-case tag name.
	Tag() string
	Attr(name string) (string, bool)
	// Value returns the current value of an input-like control.
	Value() string
	// Text returns the element's text content.
	Text() string
}

// Document gives read access to an element tree.
type Document interface {
	// QueryAll returns the elements matching a CSS selector in document order.
	QueryAll(selector string) ([]Element, error)
}

// HTMLDocument adapts a goquery document.
type HTMLDocument struct {
	doc *goquery.Document
}

// NewHTMLDocument wraps doc.
func NewHTMLDocument(doc *goquery.Document) *HTMLDocument {
	return &HTMLDocument{doc: doc}
}

// ParseHTML parses markup into a Document.
func ParseHTML(markup string) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return NewHTMLDocument(doc), nil
}

func (d *HTMLDocument) QueryAll(selector string) ([]Element, error) {
	// goquery treats an invalid selector as matching nothing; surface it instead.
	if _, err := cascadia.Compile(selector); err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", selector, err)
	}

	var out []Element
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, htmlElement{sel: s})
	})
	return out, nil
}

type htmlElement struct {
	sel *goquery.Selection
}

func (e htmlElement) Tag() string {
	return strings.ToLower(goquery.NodeName(e.sel))
}

func (e htmlElement) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e htmlElement) Value() string {
	if e.Tag() == "textarea" {
		return e.sel.Text()
	}
	v, _ := e.sel.Attr("value")
	return v
}

func (e htmlElement) Text() string {
	return e.sel.Text()
}

// isInputLike reports whether the element's value, not its text, is read.
func isInputLike(el Element) bool {
	switch el.Tag() {
	case "input", "textarea":
		return true
	default:
		return false
	}
}
