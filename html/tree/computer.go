package tree

import (
	"strconv"
	"strings"

	"github.com/minkbrowser/mink/css/parser"
	pr "github.com/minkbrowser/mink/css/properties"
	"github.com/minkbrowser/mink/css/selector"
)

// StyleComputer resolves computed styles against a fixed stylesheet
// set and viewport. Build it once per layout pass; it is read only
// afterwards, so computing the same element twice yields the same
// style.
type StyleComputer struct {
	index *selector.Index
	rules []parser.Rule
}

// NewStyleComputer flattens the stylesheets into the rule index.
// Rule ids assigned by the index double as the global source order.
func NewStyleComputer(sheets []*parser.Stylesheet) *StyleComputer {
	sc := &StyleComputer{index: selector.NewIndex()}
	for _, sheet := range sheets {
		for _, rule := range sheet.Rules {
			sc.index.Add(rule.Selectors)
			sc.rules = append(sc.rules, rule)
		}
	}
	return sc
}

// Compute resolves the style of el. ancestors is the chain from the
// root (first) to the parent (last); parent is the parent's computed
// style, nil for the root.
func (sc *StyleComputer) Compute(el *Element, ancestors []*Element, parent *Style) *Style {
	b := newBuilder(parent, DefaultDisplay(el))
	applyPresentationalHints(b, el)

	chain := make([]selector.Node, len(ancestors))
	for i, a := range ancestors {
		chain[i] = a
	}
	matches := sc.index.Match(el, chain)

	inline := parser.ParseInline(el.StyleAttr())

	// custom properties first, so every regular value sees final vars
	for _, m := range matches {
		p := Priority{Spec: m.Specificity, Order: m.Rule}
		for _, decl := range sc.rules[m.Rule].Declarations {
			if strings.HasPrefix(decl.Name, "--") {
				b.applyCustomDeclaration(decl.Name, decl.Value, p)
			}
		}
	}
	for _, decl := range inline {
		if strings.HasPrefix(decl.Name, "--") {
			b.applyCustomDeclaration(decl.Name, decl.Value, inlinePriority)
		}
	}
	b.finalizeCustom()

	for _, m := range matches {
		p := Priority{Spec: m.Specificity, Order: m.Rule}
		for _, decl := range sc.rules[m.Rule].Declarations {
			if !strings.HasPrefix(decl.Name, "--") {
				b.apply(decl, p)
			}
		}
	}
	for _, decl := range inline {
		if !strings.HasPrefix(decl.Name, "--") {
			b.apply(decl, inlinePriority)
		}
	}
	return b.style
}

// DefaultDisplay maps an element to its user agent display type.
func DefaultDisplay(el *Element) pr.Display {
	switch el.Tag() {
	case "head", "style", "script", "meta", "link", "title", "base":
		return pr.None
	case "table":
		return pr.Table
	case "tr":
		return pr.TableRow
	case "td", "th":
		return pr.TableCell
	case "html", "body", "div", "p", "center", "header", "main", "footer",
		"nav", "section", "article", "aside", "ul", "ol", "li",
		"h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre", "form", "hr":
		return pr.Block
	case "img", "svg", "button", "input":
		return pr.InlineBlock
	default:
		return pr.Inline
	}
}

// applyPresentationalHints feeds the legacy HTML styling attributes
// and heading defaults into the cascade at zero priority, so any
// author declaration overrides them.
func applyPresentationalHints(b *builder, el *Element) {
	var zero Priority
	s := b.style

	setMargin := func(v Px) {
		b.applyEdges("margin", pr.UniformEdges(pr.PxLength(v)), zero, &s.Margin)
	}
	setVMargin := func(v Px) {
		e := pr.Edges{Top: pr.PxLength(v), Bottom: pr.PxLength(v),
			Left: pr.PxLength(0), Right: pr.PxLength(0)}
		b.applyEdges("margin", e, zero, &s.Margin)
	}
	setBold := func() {
		if b.raise("font-weight", zero) {
			s.Bold = true
		}
	}
	setFontSize := func(v Px) {
		if b.raise("font-size", zero) {
			s.FontSize = v
		}
	}
	setAlign := func(a pr.TextAlign) {
		if b.raise("text-align", zero) {
			s.TextAlign = a
		}
	}

	switch el.Tag() {
	case "body":
		setMargin(8)
	case "b", "strong":
		setBold()
	case "u":
		if b.raise("text-decoration", zero) {
			s.Underline = true
		}
	case "h1":
		setFontSize(32)
		setBold()
		setVMargin(21)
	case "h2":
		setFontSize(24)
		setBold()
		setVMargin(20)
	case "h3":
		setFontSize(19)
		setBold()
		setVMargin(19)
	case "center":
		setAlign(pr.AlignCenter)
	case "td":
		if _, has := el.Attribute("align"); !has {
			setAlign(pr.AlignLeft)
		}
	case "font":
		if v, has := el.Attribute("color"); has {
			if c, ok := pr.ParseColor(v); ok {
				if b.raise("color", zero) {
					s.Color = c
				}
			}
		}
	}

	if v, has := el.Attribute("bgcolor"); has {
		if c, ok := pr.ParseColor(v); ok {
			if b.raise("background-color", zero) {
				s.BackgroundColor = c
			}
		}
	}
	if v, has := el.Attribute("width"); has {
		if px, ok := parseHTMLLength(v); ok {
			if b.raise("width", zero) {
				s.Width = pr.PxLength(px)
			}
		}
	}
	if v, has := el.Attribute("height"); has {
		if px, ok := parseHTMLLength(v); ok {
			if b.raise("height", zero) {
				s.Height = pr.PxLength(px)
			}
		}
	}
	if v, has := el.Attribute("align"); has {
		var a pr.TextAlign
		ok := true
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "left":
			a = pr.AlignLeft
		case "center":
			a = pr.AlignCenter
		case "right":
			a = pr.AlignRight
		default:
			ok = false
		}
		if ok {
			setAlign(a)
		}
	}
}

// parseHTMLLength parses legacy width/height attributes: a bare
// number of pixels, optionally suffixed with px.
func parseHTMLLength(s string) (Px, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false
	}
	return Px(v), true
}
