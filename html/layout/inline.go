package layout

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/minkbrowser/mink/backend"
	pr "github.com/minkbrowser/mink/css/properties"
	"github.com/minkbrowser/mink/html/tree"
	"github.com/minkbrowser/mink/text"
	"github.com/minkbrowser/mink/utils"
)

// runStyle is the slice of a computed style one text fragment needs.
type runStyle struct {
	font      text.Style
	color     pr.Color
	underline bool
}

type inlineToken struct {
	kind    tokenKind
	word    string
	style   runStyle
	visible bool
	href    string

	// box tokens
	boxSize size
	// replaced boxes carry their element so content paints inline
	boxEl    *tree.Element
	boxStyle *tree.Style
}

type tokenKind uint8

const (
	tokenWord tokenKind = iota
	tokenSpace
	tokenNewline
	tokenBox
)

func isReplacedElement(el *tree.Element) bool {
	switch el.Tag() {
	case "img", "input", "svg":
		return true
	}
	return false
}

func anchorHref(el *tree.Element) string {
	if el.Tag() != "a" {
		return ""
	}
	href, _ := el.Attribute("href")
	return strings.TrimSpace(href)
}

func (e *engine) layoutInlineNodes(nodes []*tree.Node, parentStyle *tree.Style,
	ancestors *[]*tree.Element, contentBox backend.Rect, startY Px, paint bool,
	linkHref string) (Px, error) {

	tokens, err := e.collectInlineTokens(nodes, parentStyle, ancestors, paint, linkHref, contentBox.W)
	if err != nil {
		return 0, err
	}
	return e.layoutTokens(tokens, parentStyle, contentBox, startY, paint)
}

func (e *engine) measureInlineNodes(nodes []*tree.Node, parentStyle *tree.Style,
	ancestors *[]*tree.Element, maxWidth Px) (size, error) {

	tokens, err := e.collectInlineTokens(nodes, parentStyle, ancestors, false, "", maxWidth)
	if err != nil {
		return size{}, err
	}
	return e.measureTokens(tokens, parentStyle, maxWidth)
}

type inlineCursor struct {
	pending    bool
	spaceStyle runStyle
	spaceVis   bool
	spaceHref  string
}

func (c *inlineCursor) markPendingSpace(style runStyle, visible bool, href string) {
	c.pending = true
	c.spaceStyle = style
	c.spaceVis = visible
	c.spaceHref = href
}

func (c *inlineCursor) clearPendingSpace() { c.pending = false }

func (c *inlineCursor) flushPendingSpace(out *[]inlineToken) {
	if !c.pending {
		return
	}
	c.pending = false
	if len(*out) == 0 || (*out)[len(*out)-1].kind == tokenNewline {
		return
	}
	*out = append(*out, inlineToken{
		kind: tokenSpace, style: c.spaceStyle, visible: c.spaceVis, href: c.spaceHref,
	})
}

func (e *engine) collectInlineTokens(nodes []*tree.Node, parentStyle *tree.Style,
	ancestors *[]*tree.Element, paint bool, linkHref string, maxWidth Px) ([]inlineToken, error) {

	var out []inlineToken
	var cursor inlineCursor
	for _, node := range nodes {
		if err := e.collectTokens(node, parentStyle, ancestors, paint, linkHref, maxWidth, &cursor, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (e *engine) collectTokens(node *tree.Node, parentStyle *tree.Style,
	ancestors *[]*tree.Element, paint bool, linkHref string, maxWidth Px,
	cursor *inlineCursor, out *[]inlineToken) error {

	if node.Element == nil {
		visible := paint && parentStyle.Visible
		pushText(node.Text, e.runStyleFor(parentStyle), parentStyle.TextTransform, visible, linkHref, cursor, out)
		return nil
	}

	el := node.Element
	style := e.styles.Compute(el, *ancestors, parentStyle)
	if style.Display == pr.None {
		return nil
	}

	if el.Tag() == "br" {
		*out = append(*out, inlineToken{kind: tokenNewline})
		cursor.clearPendingSpace()
		return nil
	}

	if href := anchorHref(el); href != "" {
		linkHref = href
	}
	paint = paint && style.Visible

	if isReplacedElement(el) {
		cursor.flushPendingSpace(out)
		s, err := e.measureReplacedOuterSize(el, style, maxWidth)
		if err != nil {
			return err
		}
		*out = append(*out, inlineToken{
			kind: tokenBox, boxSize: s, visible: paint, href: linkHref,
			boxEl: el, boxStyle: style,
		})
		return nil
	}

	*ancestors = append(*ancestors, el)
	defer func() { *ancestors = (*ancestors)[:len(*ancestors)-1] }()

	if style.Display == pr.Inline {
		margin := resolveEdges(style.Margin, 0)
		padding := resolveEdges(style.Padding, 0)
		pushInlineSpacing(out, utils.SatAdd(margin.left, padding.left))
		for _, child := range el.Children {
			if err := e.collectTokens(child, style, ancestors, paint, linkHref, maxWidth, cursor, out); err != nil {
				return err
			}
		}
		pushInlineSpacing(out, utils.SatAdd(margin.right, padding.right))
		return nil
	}

	// inline-block and anything else that is not flow block: an
	// opaque box sized from its declared dimensions
	cursor.flushPendingSpace(out)
	*out = append(*out, inlineToken{kind: tokenBox, boxSize: inlineBoxSize(style), visible: paint, href: linkHref})
	return nil
}

func pushInlineSpacing(out *[]inlineToken, width Px) {
	if width <= 0 {
		return
	}
	*out = append(*out, inlineToken{kind: tokenBox, boxSize: size{w: width}})
}

func inlineBoxSize(style *tree.Style) size {
	margin := resolveEdges(style.Margin, 0)
	padding := resolveEdges(style.Padding, 0)
	w := utils.SatAdd(style.Width.Resolve(0),
		utils.SatAdd(utils.SatAdd(margin.left, margin.right), utils.SatAdd(padding.left, padding.right)))
	h := utils.SatAdd(style.Height.Resolve(0),
		utils.SatAdd(utils.SatAdd(margin.top, margin.bottom), utils.SatAdd(padding.top, padding.bottom)))
	return size{w: w, h: h}
}

func (e *engine) runStyleFor(style *tree.Style) runStyle {
	return runStyle{
		font:      e.textStyleFor(style),
		color:     style.Color,
		underline: style.Underline,
	}
}

// transformWord applies text-transform before measurement so line
// breaking sees the painted glyphs.
func transformWord(word string, t pr.TextTransform) string {
	switch t {
	case pr.Uppercase:
		return cases.Upper(language.Und).String(word)
	case pr.Lowercase:
		return cases.Lower(language.Und).String(word)
	case pr.Capitalize:
		return cases.Title(language.Und, cases.NoLower).String(word)
	}
	return word
}

func pushText(s string, style runStyle, transform pr.TextTransform, visible bool,
	linkHref string, cursor *inlineCursor, out *[]inlineToken) {

	runes := []rune(s)
	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) {
			cursor.markPendingSpace(style, visible, linkHref)
			i++
			continue
		}
		cursor.flushPendingSpace(out)

		start := i
		for i < len(runes) && !unicode.IsSpace(runes[i]) {
			i++
		}
		word := transformWord(string(runes[start:i]), transform)
		*out = append(*out, inlineToken{
			kind: tokenWord, word: word, style: style, visible: visible, href: linkHref,
		})
	}
}

type fragment struct {
	// text fragments
	text    string
	style   runStyle
	width   Px
	visible bool
	href    string

	// box fragments
	isBox    bool
	boxSize  size
	boxEl    *tree.Element
	boxStyle *tree.Style
}

type line struct {
	fragments          []fragment
	width              Px
	ascent             Px
	descent            Px
	height             Px
	explicitLineHeight Px // 0 means none
}

func newLine(explicitLineHeight Px, base text.Metrics) *line {
	ascent := utils.MaxPxs(base.Ascent, 1)
	descent := utils.MaxPxs(base.Descent, 0)
	textHeight := utils.MaxPxs(utils.SatAdd(ascent, descent), 1)
	height := textHeight
	if explicitLineHeight > height {
		height = explicitLineHeight
	}
	return &line{
		ascent: ascent, descent: descent,
		height:             utils.MaxPxs(height, 1),
		explicitLineHeight: explicitLineHeight,
	}
}

func (l *line) push(f fragment, metrics text.Metrics) {
	if f.isBox {
		l.width = utils.SatAdd(l.width, f.boxSize.w)
		l.height = utils.MaxPxs(l.height, utils.MaxPxs(f.boxSize.h, 1))
	} else {
		l.width = utils.SatAdd(l.width, f.width)
		l.ascent = utils.MaxPxs(l.ascent, utils.MaxPxs(metrics.Ascent, 1))
		l.descent = utils.MaxPxs(l.descent, utils.MaxPxs(metrics.Descent, 0))
	}
	textHeight := utils.MaxPxs(utils.SatAdd(l.ascent, l.descent), 1)
	l.height = utils.MaxPxs(l.height, textHeight)
	if l.explicitLineHeight > 0 {
		l.height = utils.MaxPxs(l.height, l.explicitLineHeight)
	}
	l.fragments = append(l.fragments, f)
}

// baselineOffset centers extra line height around the text baseline.
func (l *line) baselineOffset() Px {
	textHeight := utils.MaxPxs(utils.SatAdd(l.ascent, l.descent), 1)
	extra := utils.MaxPxs(utils.SatSub(l.height, textHeight), 0)
	return utils.SatAdd(l.ascent, extra/2)
}

// breakTokensIntoLines fills lines greedily. A word wider than the
// whole line is binary searched by rune boundary for the longest
// prefix that fits, wrapping the remainder. nowrap disables both.
func (e *engine) breakTokensIntoLines(tokens []inlineToken, parentStyle *tree.Style,
	maxWidth Px) ([]*line, error) {

	baseMetrics, err := e.measurer.Metrics(e.textStyleFor(parentStyle))
	if err != nil {
		return nil, err
	}
	nowrap := parentStyle.WhiteSpace == pr.Nowrap

	var lines []*line
	current := newLine(parentStyle.LineHeight, baseMetrics)
	var x Px

	flush := func() {
		lines = append(lines, current)
		current = newLine(parentStyle.LineHeight, baseMetrics)
		x = 0
	}

	for _, token := range tokens {
		switch token.kind {
		case tokenNewline:
			flush()

		case tokenSpace:
			if x == 0 {
				continue
			}
			spaceWidth, err := e.measurer.Width(token.style.font, " ")
			if err != nil {
				return nil, err
			}
			if !nowrap && utils.SatAdd(x, spaceWidth) > maxWidth {
				continue
			}
			metrics, err := e.measurer.Metrics(token.style.font)
			if err != nil {
				return nil, err
			}
			current.push(fragment{
				text: " ", style: token.style, width: spaceWidth,
				visible: token.visible, href: token.href,
			}, metrics)
			x = utils.SatAdd(x, spaceWidth)

		case tokenWord:
			if token.word == "" {
				continue
			}
			metrics, err := e.measurer.Metrics(token.style.font)
			if err != nil {
				return nil, err
			}
			word := token.word
			for word != "" {
				wordWidth, err := e.measurer.Width(token.style.font, word)
				if err != nil {
					return nil, err
				}
				if nowrap || utils.SatAdd(x, wordWidth) <= maxWidth {
					current.push(fragment{
						text: word, style: token.style, width: wordWidth,
						visible: token.visible, href: token.href,
					}, metrics)
					x = utils.SatAdd(x, wordWidth)
					break
				}
				if x != 0 {
					flush()
					continue
				}
				// overlong word: longest fitting prefix, at least
				// one rune to guarantee progress
				prefix, prefixWidth, rest, err := e.longestFittingPrefix(token.style.font, word, maxWidth)
				if err != nil {
					return nil, err
				}
				current.push(fragment{
					text: prefix, style: token.style, width: prefixWidth,
					visible: token.visible, href: token.href,
				}, metrics)
				if rest == "" {
					x = utils.SatAdd(x, prefixWidth)
					break
				}
				flush()
				word = rest
			}

		case tokenBox:
			if !nowrap && x != 0 && utils.SatAdd(x, token.boxSize.w) > maxWidth {
				flush()
			}
			current.push(fragment{
				isBox: true, boxSize: token.boxSize, visible: token.visible,
				href: token.href, boxEl: token.boxEl, boxStyle: token.boxStyle,
			}, text.Metrics{})
			x = utils.SatAdd(x, token.boxSize.w)
		}
	}

	if len(current.fragments) > 0 {
		lines = append(lines, current)
	}
	return lines, nil
}

// longestFittingPrefix binary searches the rune boundary below which
// the word still fits in maxWidth.
func (e *engine) longestFittingPrefix(font text.Style, word string, maxWidth Px) (prefix string, width Px, rest string, err error) {
	runes := []rune(word)
	lo, hi := 1, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		w, err := e.measurer.Width(font, string(runes[:mid]))
		if err != nil {
			return "", 0, "", err
		}
		if w <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if lo < 1 {
		lo = 1
	}
	prefix = string(runes[:lo])
	width, err = e.measurer.Width(font, prefix)
	if err != nil {
		return "", 0, "", err
	}
	return prefix, width, string(runes[lo:]), nil
}

func (e *engine) layoutTokens(tokens []inlineToken, parentStyle *tree.Style,
	contentBox backend.Rect, startY Px, paint bool) (Px, error) {

	lines, err := e.breakTokensIntoLines(tokens, parentStyle, contentBox.W)
	if err != nil {
		return 0, err
	}

	y := startY
	for _, l := range lines {
		if y >= e.viewport.Height {
			break
		}
		var xOffset Px
		switch parentStyle.TextAlign {
		case pr.AlignCenter:
			xOffset = utils.MaxPxs(utils.SatSub(contentBox.W, l.width)/2, 0)
		case pr.AlignRight:
			xOffset = utils.MaxPxs(utils.SatSub(contentBox.W, l.width), 0)
		}

		baselineY := utils.SatAdd(y, l.baselineOffset())
		x := utils.SatAdd(contentBox.X, xOffset)
		for _, frag := range l.fragments {
			if frag.isBox {
				if paint && frag.visible {
					if !parentStyle.BackgroundColor.IsTransparent() {
						e.list.Push(&backend.DrawRect{
							Rect:  backend.Rect{X: x, Y: y, W: frag.boxSize.w, H: frag.boxSize.h},
							Color: parentStyle.BackgroundColor,
						})
					}
					if frag.boxEl != nil {
						if err := e.paintInlineReplaced(frag, x, y); err != nil {
							return 0, err
						}
					}
					if frag.href != "" && frag.boxSize.w > 0 {
						e.links = append(e.links, backend.LinkHitRegion{
							Href:  frag.href,
							Rect:  backend.Rect{X: x, Y: y, W: frag.boxSize.w, H: utils.MaxPxs(frag.boxSize.h, l.height)},
							Fixed: e.fixedDepth > 0,
						})
					}
				}
				x = utils.SatAdd(x, frag.boxSize.w)
				continue
			}

			if paint && frag.visible {
				e.list.Push(&backend.DrawText{
					X: x, Y: baselineY,
					Text:      frag.text,
					Style:     frag.style.font,
					Color:     frag.style.color,
					Underline: frag.style.underline,
				})
				if frag.href != "" {
					e.links = append(e.links, backend.LinkHitRegion{
						Href:  frag.href,
						Rect:  backend.Rect{X: x, Y: y, W: frag.width, H: l.height},
						Fixed: e.fixedDepth > 0,
					})
				}
			}
			x = utils.SatAdd(x, frag.width)
		}
		y = utils.SatAdd(y, l.height)
	}

	return utils.MaxPxs(utils.SatSub(y, startY), 0), nil
}

// paintInlineReplaced paints replaced content placed in a line box,
// inset to its content box within the outer fragment size.
func (e *engine) paintInlineReplaced(frag fragment, x, y Px) error {
	style := frag.boxStyle
	margin := resolveEdges(style.Margin, 0)
	border := resolveEdges(style.BorderWidth, 0)
	padding := resolveEdges(style.Padding, 0)
	outer := backend.Rect{X: x, Y: y, W: frag.boxSize.w, H: frag.boxSize.h}
	borderBox := inset(outer, margin)
	e.paintBorder(borderBox, style, border)
	return e.paintReplacedContent(frag.boxEl, style, inset(borderBox, addEdges(border, padding)))
}

func (e *engine) measureTokens(tokens []inlineToken, parentStyle *tree.Style,
	maxWidth Px) (size, error) {

	lines, err := e.breakTokensIntoLines(tokens, parentStyle, utils.MaxPxs(maxWidth, 0))
	if err != nil {
		return size{}, err
	}
	var out size
	for _, l := range lines {
		out.w = utils.MaxPxs(out.w, l.width)
		out.h = utils.SatAdd(out.h, l.height)
	}
	return out, nil
}
