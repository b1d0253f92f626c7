package layout

import (
	"strconv"
	"strings"

	"github.com/minkbrowser/mink/backend"
	pr "github.com/minkbrowser/mink/css/properties"
	"github.com/minkbrowser/mink/html/tree"
	"github.com/minkbrowser/mink/utils"
)

// edges are the four sides of a box property resolved to pixels.
type edges struct {
	top, right, bottom, left Px
}

// resolveEdges resolves lengths against the percentage base; auto
// resolves to zero.
func resolveEdges(e pr.Edges, base Px) edges {
	return edges{
		top:    e.Top.Resolve(base),
		right:  e.Right.Resolve(base),
		bottom: e.Bottom.Resolve(base),
		left:   e.Left.Resolve(base),
	}
}

func addEdges(a, b edges) edges {
	return edges{
		top:    utils.SatAdd(a.top, b.top),
		right:  utils.SatAdd(a.right, b.right),
		bottom: utils.SatAdd(a.bottom, b.bottom),
		left:   utils.SatAdd(a.left, b.left),
	}
}

func inset(r backend.Rect, e edges) backend.Rect {
	return backend.Rect{
		X: utils.SatAdd(r.X, e.left),
		Y: utils.SatAdd(r.Y, e.top),
		W: utils.MaxPxs(utils.SatSub(r.W, utils.SatAdd(e.left, e.right)), 0),
		H: utils.MaxPxs(utils.SatSub(r.H, utils.SatAdd(e.top, e.bottom)), 0),
	}
}

func rectRight(r backend.Rect) Px  { return utils.SatAdd(r.X, r.W) }
func rectBottom(r backend.Rect) Px { return utils.SatAdd(r.Y, r.H) }

type size struct {
	w, h Px
}

// constrainFlowContentBox narrows a content box to the horizontal
// band left free by floats, keeping the vertical extent.
func constrainFlowContentBox(contentBox, flowArea backend.Rect) backend.Rect {
	left := utils.MaxPxs(flowArea.X, contentBox.X)
	right := utils.MinPxs(rectRight(flowArea), rectRight(contentBox))
	return backend.Rect{
		X: left,
		Y: contentBox.Y,
		W: utils.MaxPxs(utils.SatSub(right, left), 0),
		H: contentBox.H,
	}
}

// Flex, grid and table containers never intersect sibling floats;
// they move below or beside them as a whole.
func establishesBlockFormattingContext(style *tree.Style) bool {
	switch style.Display {
	case pr.Flex, pr.Grid, pr.Table:
		return true
	}
	return false
}

func requiredOuterWidthForFloatClearance(style *tree.Style, availableWidth Px) Px {
	margin := resolveEdges(style.Margin, availableWidth)
	marginLeft := margin.left
	if style.Margin.Left.IsAuto() {
		marginLeft = 0
	}
	marginRight := margin.right
	if style.Margin.Right.IsAuto() {
		marginRight = 0
	}
	borderWidth := Px(1)
	if style.Width.IsSet() {
		borderWidth = utils.MaxPxs(style.Width.Resolve(availableWidth), 0)
	}
	return utils.MaxPxs(utils.SatAdd(marginLeft, utils.SatAdd(borderWidth, marginRight)), 1)
}

func resolveCanvasBackground(htmlStyle, bodyStyle *tree.Style) pr.Color {
	if htmlStyle != nil && !htmlStyle.BackgroundColor.IsTransparent() {
		return htmlStyle.BackgroundColor
	}
	if bodyStyle != nil {
		return bodyStyle.BackgroundColor
	}
	return pr.Transparent
}

// isFlowBlock decides whether a child participates in block flow or
// joins the surrounding inline run. div, p and table stay blocks
// whatever their display; a span containing block level tags is
// promoted so the malformed markup common on the web still flows.
func isFlowBlock(style *tree.Style, el *tree.Element) bool {
	switch style.Display {
	case pr.Block, pr.Flex, pr.Grid, pr.Table, pr.TableRow, pr.TableCell:
		return true
	case pr.Inline, pr.InlineBlock:
		switch el.Tag() {
		case "div", "p", "table":
			return true
		}
		if el.Tag() != "span" {
			return false
		}
		for _, child := range el.Children {
			if child.Element == nil {
				continue
			}
			switch child.Element.Tag() {
			case "html", "body", "div", "p", "center", "header", "main", "footer",
				"nav", "ul", "ol", "li", "h1", "h2", "h3", "blockquote", "pre",
				"table", "tr", "td":
				return true
			}
		}
	}
	return false
}

// applyBlockAlignment shifts a fixed width block inside a wider
// container when the parent's text-align asks for it.
func applyBlockAlignment(align pr.TextAlign, containing backend.Rect, defaultX, width Px, margin edges) Px {
	if width <= 0 {
		return defaultX
	}
	available := utils.SatSub(containing.W, utils.SatAdd(margin.left, margin.right))
	if available <= width {
		return defaultX
	}
	switch align {
	case pr.AlignCenter:
		return utils.SatAdd(containing.X, (available-width)/2)
	case pr.AlignRight:
		return utils.SatAdd(utils.SatAdd(containing.X, utils.SatSub(available, width)), margin.left)
	}
	return defaultX
}

// applyAutoMarginAlignment resolves auto horizontal margins: both
// auto centers the box, auto left pushes it to the right edge.
func applyAutoMarginAlignment(style *tree.Style, containing backend.Rect, defaultX, width Px, margin edges) Px {
	autoLeft := style.Margin.Left.IsAuto()
	autoRight := style.Margin.Right.IsAuto()
	leftPx := margin.left
	if autoLeft {
		leftPx = 0
	}
	rightPx := margin.right
	if autoRight {
		rightPx = 0
	}
	available := utils.MaxPxs(utils.SatSub(containing.W, utils.SatAdd(leftPx, rightPx)), 0)
	if available <= width {
		return defaultX
	}
	remaining := utils.MaxPxs(utils.SatSub(available, width), 0)
	switch {
	case autoLeft && autoRight:
		return utils.SatAdd(utils.SatAdd(containing.X, leftPx), remaining/2)
	case autoLeft:
		return utils.SatAdd(utils.SatAdd(containing.X, leftPx), remaining)
	}
	return defaultX
}

func parsePercentage(value string) (float32, bool) {
	value = strings.TrimSpace(value)
	number, ok := strings.CutSuffix(value, "%")
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(number), 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}
