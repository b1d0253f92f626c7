// Package tree exposes the document model and resolves the effective
// style of its elements: selector matching through the rule index,
// then the cascade over presentational hints, matched rules, custom
// properties and inline style.
//
// See https://www.w3.org/TR/css-cascade-3/
package tree

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/minkbrowser/mink/css/parser"
)

// Attr is one element attribute, original case of the value kept.
type Attr struct {
	Name, Value string
}

// Node is either an element or a text run.
type Node struct {
	Element *Element
	Text    string
}

// Element is one node of the document tree. The tree is immutable
// during a layout pass; ancestors are tracked by callers as stacks
// rather than parent pointers.
type Element struct {
	tagName      string
	attrs        []Attr
	Children     []*Node
	siblingIndex int
	root         bool
}

// NewElement builds a detached element, mostly useful in tests.
func NewElement(tag string, attrs []Attr, children []*Node) *Element {
	el := &Element{tagName: tag, attrs: attrs, Children: children}
	numberChildren(el)
	return el
}

func TextNode(text string) *Node       { return &Node{Text: text} }
func ElementNode(el *Element) *Node    { return &Node{Element: el} }

func (e *Element) Tag() string { return e.tagName }

// Attributes returns the attributes in document order.
func (e *Element) Attributes() []Attr { return e.attrs }

func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *Element) ID() string {
	id, _ := e.Attribute("id")
	return id
}

func (e *Element) HasClass(class string) bool {
	list, _ := e.Attribute("class")
	for _, c := range strings.Fields(list) {
		if c == class {
			return true
		}
	}
	return false
}

func (e *Element) IsLink() bool {
	_, has := e.Attribute("href")
	return e.tagName == "a" && has
}

func (e *Element) Href() string {
	href, _ := e.Attribute("href")
	return href
}

func (e *Element) IsRoot() bool { return e.root }

func (e *Element) SiblingIndex() int { return e.siblingIndex }

func (e *Element) IsChecked() bool {
	if e.tagName != "input" {
		return false
	}
	typ, _ := e.Attribute("type")
	if typ != "checkbox" && typ != "radio" {
		return false
	}
	_, checked := e.Attribute("checked")
	return checked
}

// StyleAttr returns the inline style attribute content.
func (e *Element) StyleAttr() string {
	s, _ := e.Attribute("style")
	return s
}

// Document is a parsed HTML document plus the raw text of its
// embedded stylesheets, kept unparsed until the viewport is known.
type Document struct {
	Root       *Element
	StyleTexts []string
}

// Stylesheets parses the document's embedded style elements against
// the given viewport (for media queries).
func (d *Document) Stylesheets(viewport parser.Size) []*parser.Stylesheet {
	out := make([]*parser.Stylesheet, 0, len(d.StyleTexts))
	for _, src := range d.StyleTexts {
		out = append(out, parser.ParseStylesheet(src, viewport))
	}
	return out
}

// LoadHTML parses an HTML document and converts it to the engine's
// tree, collecting <style> element contents along the way.
func LoadHTML(r io.Reader) (*Document, error) {
	parsed, err := html.ParseWithOptions(r, html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, fmt.Errorf("invalid html input: %s", err)
	}
	doc := &Document{}
	var rootNode *html.Node
	for n := parsed.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.DataAtom == atom.Html {
			rootNode = n
			break
		}
	}
	if rootNode == nil {
		return nil, fmt.Errorf("invalid html input: no root element")
	}
	doc.Root = convertElement(rootNode, doc)
	doc.Root.root = true
	doc.Root.siblingIndex = 1
	return doc, nil
}

func convertElement(n *html.Node, doc *Document) *Element {
	el := &Element{tagName: strings.ToLower(n.Data)}
	for _, a := range n.Attr {
		el.attrs = append(el.attrs, Attr{Name: strings.ToLower(a.Key), Value: a.Val})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			child := convertElement(c, doc)
			el.Children = append(el.Children, ElementNode(child))
		case html.TextNode:
			if el.tagName == "style" {
				doc.StyleTexts = append(doc.StyleTexts, c.Data)
			} else {
				el.Children = append(el.Children, TextNode(c.Data))
			}
		}
	}
	numberChildren(el)
	return el
}

func numberChildren(el *Element) {
	i := 0
	for _, c := range el.Children {
		if c.Element != nil {
			i++
			c.Element.siblingIndex = i
		}
	}
}
