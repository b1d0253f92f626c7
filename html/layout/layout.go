// Package layout turns a styled document tree into a display list:
// block flow around floats, inline line breaking, flex, grid and
// table containers, replaced elements and positioned boxes.
//
// See https://www.w3.org/TR/CSS2/visuren.html
package layout

import (
	"fmt"

	"github.com/minkbrowser/mink/backend"
	"github.com/minkbrowser/mink/css/parser"
	pr "github.com/minkbrowser/mink/css/properties"
	"github.com/minkbrowser/mink/html/tree"
	"github.com/minkbrowser/mink/images"
	"github.com/minkbrowser/mink/logger"
	"github.com/minkbrowser/mink/text"
	"github.com/minkbrowser/mink/utils"
)

type Px = utils.Px

// Options configures one layout pass.
type Options struct {
	// Viewport is the target size in pixels.
	Viewport parser.Size
	// Measurer is required; layout fails without text metrics.
	Measurer text.TextMeasurer
	// Images sizes replaced raster content. Optional; img elements
	// without a loader take only their declared dimensions.
	Images *images.Loader
	// Stylesheets are applied before the document's own style
	// elements, typically a user agent sheet.
	Stylesheets []*parser.Stylesheet
}

// Result is the output of a layout pass.
type Result struct {
	DisplayList backend.DisplayList
	Links       []backend.LinkHitRegion
	// Height is the document height, at least the viewport height.
	Height Px
	// CanvasBackground is the page background resolved from the html
	// element, falling back to body. Transparent when neither sets
	// one.
	CanvasBackground pr.Color
}

// Layout runs one full pass over the document. The pass is a pure
// function of its inputs: identical documents, viewports and
// collaborators produce identical results.
func Layout(doc *tree.Document, opts Options) (*Result, error) {
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout requires a text measurer")
	}
	logger.ProgressLogger.Printf("step 1/2 - resolving styles (viewport %dx%d)",
		opts.Viewport.Width, opts.Viewport.Height)
	sheets := append(opts.Stylesheets, doc.Stylesheets(opts.Viewport)...)
	e := &engine{
		styles:   tree.NewStyleComputer(sheets),
		measurer: opts.Measurer,
		images:   opts.Images,
		viewport: opts.Viewport,
	}
	logger.ProgressLogger.Printf("step 2/2 - laying out boxes")
	height, err := e.layoutDocument(doc)
	if err != nil {
		return nil, err
	}
	return &Result{
		DisplayList:      e.list,
		Links:            e.links,
		Height:           height,
		CanvasBackground: e.canvasBackground,
	}, nil
}

type engine struct {
	styles   *tree.StyleComputer
	measurer text.TextMeasurer
	images   *images.Loader
	viewport parser.Size

	list             backend.DisplayList
	links            []backend.LinkHitRegion
	positioned       []backend.Rect
	fixedDepth       int
	canvasBackground pr.Color
}

func (e *engine) currentPositionedContainingBlock() backend.Rect {
	if n := len(e.positioned); n > 0 {
		return e.positioned[n-1]
	}
	return backend.Rect{W: utils.MaxPxs(e.viewport.Width, 0), H: utils.MaxPxs(e.viewport.Height, 0)}
}

// pushPositionedContainingBlock records the padding box of a
// positioned ancestor. The box height is not known yet at push time;
// zero falls back to the viewport height.
func (e *engine) pushPositionedContainingBlock(borderBox backend.Rect, border edges) {
	height := borderBox.H
	if height <= 0 {
		height = utils.MaxPxs(e.viewport.Height, 0)
	}
	padded := inset(backend.Rect{X: borderBox.X, Y: borderBox.Y, W: borderBox.W, H: height}, border)
	e.positioned = append(e.positioned, padded)
}

func (e *engine) popPositionedContainingBlock() {
	if n := len(e.positioned); n > 0 {
		e.positioned = e.positioned[:n-1]
	}
}

func (e *engine) layoutDocument(doc *tree.Document) (Px, error) {
	root := doc.Root
	style := e.styles.Compute(root, nil, nil)

	bodyStyle := style
	if root.Tag() == "html" {
		if body := findFirstElement(root, "body"); body != nil {
			bodyStyle = e.styles.Compute(body, []*tree.Element{root}, style)
		}
	}

	rect := backend.Rect{W: utils.MaxPxs(e.viewport.Width, 0), H: utils.MaxPxs(e.viewport.Height, 0)}
	e.positioned = e.positioned[:0]
	e.positioned = append(e.positioned, rect)
	e.canvasBackground = resolveCanvasBackground(style, bodyStyle)

	var ancestors []*tree.Element
	cursorY := rect.Y
	err := e.layoutBlockBox(root, style, nil, &ancestors, rect, &cursorY, true, nil)
	if err != nil {
		return 0, err
	}
	return utils.Maxs(cursorY, e.viewport.Height, 0), nil
}

// layoutBlockBox lays out one block level element inside containing,
// advancing cursorY by its outer height. flowOverride, when present,
// narrows the content box of a non BFC block sitting beside floats
// while the border box keeps the full containing width.
func (e *engine) layoutBlockBox(el *tree.Element, style, parentStyle *tree.Style,
	ancestors *[]*tree.Element, containing backend.Rect, cursorY *Px, paint bool,
	flowOverride *backend.Rect) error {

	if style.Display == pr.None {
		return nil
	}

	paint = paint && style.Visible
	if paint && style.Opacity == 0 {
		paint = false
	}
	needsOpacityGroup := paint && style.Opacity < 1
	if needsOpacityGroup {
		e.list.Push(&backend.PushOpacity{Opacity: style.Opacity})
	}

	margin := resolveEdges(style.Margin, containing.W)
	border := resolveEdges(style.BorderWidth, containing.W)
	padding := resolveEdges(style.Padding, containing.W)

	var replacedSize *size
	if isReplacedElement(el) {
		s, err := e.measureReplacedOuterSize(el, style, containing.W)
		if err != nil {
			return err
		}
		replacedSize = &s
	}

	marginLeft := margin.left
	if style.Margin.Left.IsAuto() {
		marginLeft = 0
	}
	marginRight := margin.right
	if style.Margin.Right.IsAuto() {
		marginRight = 0
	}

	availableWidth := utils.MaxPxs(utils.SatSub(containing.W, utils.SatAdd(marginLeft, marginRight)), 0)
	var usedWidth Px
	if replacedSize != nil {
		usedWidth = utils.MaxPxs(utils.SatSub(replacedSize.w, utils.SatAdd(margin.left, margin.right)), 0)
	} else {
		usedWidth = e.resolveUsedWidth(el, style, availableWidth)
		if style.MinWidth.IsSet() {
			usedWidth = utils.MaxPxs(usedWidth, style.MinWidth.Resolve(availableWidth))
		}
		if style.MaxWidth.IsSet() {
			usedWidth = utils.MinPxs(usedWidth, style.MaxWidth.Resolve(availableWidth))
		}
		usedWidth = utils.MaxPxs(usedWidth, 0)
	}

	x := utils.SatAdd(containing.X, marginLeft)
	y := utils.SatAdd(*cursorY, margin.top)

	if style.Margin.Left.IsAuto() || style.Margin.Right.IsAuto() {
		x = applyAutoMarginAlignment(style, containing, x, usedWidth, margin)
	} else if parentStyle != nil {
		x = applyBlockAlignment(parentStyle.TextAlign, containing, x, usedWidth, margin)
	}

	borderBox := backend.Rect{X: x, Y: y, W: usedWidth}
	contentBox := inset(borderBox, addEdges(border, padding))
	childContentBox := contentBox
	if flowOverride != nil {
		childContentBox = constrainFlowContentBox(contentBox, *flowOverride)
	}

	backgroundIndex := -1
	if paint {
		backgroundIndex = e.pushBackground(borderBox, style, 0)
	}

	var contentHeight Px
	if replacedSize != nil {
		borderHeight := utils.MaxPxs(utils.SatSub(replacedSize.h, utils.SatAdd(margin.top, margin.bottom)), 0)
		contentHeight = utils.MaxPxs(utils.SatSub(borderHeight,
			utils.SatAdd(utils.SatAdd(border.top, padding.top), utils.SatAdd(padding.bottom, border.bottom))), 0)
	} else {
		pushedPositioning := false
		if style.Position.IsPositioned() {
			e.pushPositionedContainingBlock(borderBox, border)
			pushedPositioning = true
		}
		*ancestors = append(*ancestors, el)
		var err error
		switch style.Display {
		case pr.Table:
			var s size
			s, err = e.layoutTable(el, style, ancestors, contentBox, paint)
			contentHeight = s.h
		case pr.Flex:
			contentHeight, err = e.layoutFlexContainer(el, style, ancestors, contentBox, paint)
		case pr.Grid:
			contentHeight, err = e.layoutGrid(el, style, ancestors, contentBox, paint)
		default:
			contentHeight, err = e.layoutFlowChildren(el.Children, style, ancestors, childContentBox, paint)
		}
		*ancestors = (*ancestors)[:len(*ancestors)-1]
		if pushedPositioning {
			e.popPositionedContainingBlock()
		}
		if err != nil {
			return err
		}
	}

	borderHeight := utils.SatAdd(utils.SatAdd(border.top, padding.top),
		utils.SatAdd(contentHeight, utils.SatAdd(padding.bottom, border.bottom)))
	if style.Height.IsSet() {
		borderHeight = utils.MaxPxs(borderHeight, style.Height.Resolve(containing.H))
	}
	if style.MinHeight.IsSet() {
		borderHeight = utils.MaxPxs(borderHeight, style.MinHeight.Resolve(containing.H))
	}

	if backgroundIndex >= 0 {
		e.setBackgroundHeight(backgroundIndex, borderHeight)
	}

	if paint {
		fullBox := backend.Rect{X: borderBox.X, Y: borderBox.Y, W: borderBox.W, H: borderHeight}
		e.paintBorder(fullBox, style, border)
		if replacedSize != nil {
			if err := e.paintReplacedContent(el, style, inset(fullBox, addEdges(border, padding))); err != nil {
				return err
			}
		}
	}

	if needsOpacityGroup {
		e.list.Push(&backend.PopOpacity{Opacity: style.Opacity})
	}

	*cursorY = utils.SatAdd(y, utils.SatAdd(borderHeight, margin.bottom))
	return nil
}

// layoutPositionedBox lays out an absolute or fixed box against its
// containing block. Fixed boxes open a viewport anchored group in
// the display list.
func (e *engine) layoutPositionedBox(el *tree.Element, style *tree.Style,
	ancestors *[]*tree.Element, containing backend.Rect, paint bool) error {

	if style.Display == pr.None {
		return nil
	}

	paint = paint && style.Visible
	if paint && style.Opacity == 0 {
		paint = false
	}
	isFixed := paint && style.Position == pr.Fixed
	if isFixed {
		e.fixedDepth++
		e.list.Push(&backend.PushFixed{})
	}
	needsOpacityGroup := paint && style.Opacity < 1
	if needsOpacityGroup {
		e.list.Push(&backend.PushOpacity{Opacity: style.Opacity})
	}

	if style.Position == pr.Fixed {
		containing = backend.Rect{W: utils.MaxPxs(e.viewport.Width, 0), H: utils.MaxPxs(e.viewport.Height, 0)}
	}

	margin := resolveEdges(style.Margin, containing.W)
	border := resolveEdges(style.BorderWidth, containing.W)
	padding := resolveEdges(style.Padding, containing.W)

	var replacedSize *size
	if isReplacedElement(el) {
		s, err := e.measureReplacedOuterSize(el, style, containing.W)
		if err != nil {
			return err
		}
		replacedSize = &s
	}

	var usedWidth Px
	switch {
	case style.Width.IsSet():
		usedWidth = style.Width.Resolve(containing.W)
	case style.Left.IsSet() && style.Right.IsSet():
		left := style.Left.Resolve(containing.W)
		right := style.Right.Resolve(containing.W)
		usedWidth = utils.SatSub(containing.W, utils.SatAdd(left, right))
	case replacedSize != nil:
		usedWidth = utils.MaxPxs(utils.SatSub(replacedSize.w, utils.SatAdd(margin.left, margin.right)), 0)
	default:
		var err error
		usedWidth, err = e.measureElementMaxContentWidth(el, style, ancestors, containing.W)
		if err != nil {
			return err
		}
	}
	if style.MinWidth.IsSet() {
		usedWidth = utils.MaxPxs(usedWidth, style.MinWidth.Resolve(containing.W))
	}
	if style.MaxWidth.IsSet() {
		usedWidth = utils.MinPxs(usedWidth, style.MaxWidth.Resolve(containing.W))
	}
	usedWidth = utils.MaxPxs(usedWidth, 0)

	var x Px
	switch {
	case style.Left.IsSet():
		x = utils.SatAdd(containing.X, style.Left.Resolve(containing.W))
	case style.Right.IsSet():
		x = utils.SatSub(utils.SatSub(utils.SatAdd(containing.X, containing.W), usedWidth),
			style.Right.Resolve(containing.W))
	default:
		x = containing.X
	}
	y := containing.Y
	if style.Top.IsSet() {
		y = utils.SatAdd(containing.Y, style.Top.Resolve(containing.H))
	}

	if !style.Margin.Left.IsAuto() {
		x = utils.SatAdd(x, margin.left)
	}
	y = utils.SatAdd(y, margin.top)

	borderBox := backend.Rect{X: x, Y: y, W: usedWidth}
	contentBox := inset(borderBox, addEdges(border, padding))

	commandStart := len(e.list.Commands)
	linkStart := len(e.links)
	backgroundIndex := -1
	if paint {
		backgroundIndex = e.pushBackground(borderBox, style, 0)
	}

	var contentHeight Px
	if replacedSize != nil {
		borderHeight := utils.MaxPxs(utils.SatSub(replacedSize.h, utils.SatAdd(margin.top, margin.bottom)), 0)
		contentHeight = utils.MaxPxs(utils.SatSub(borderHeight,
			utils.SatAdd(utils.SatAdd(border.top, padding.top), utils.SatAdd(padding.bottom, border.bottom))), 0)
	} else {
		pushedPositioning := false
		if style.Position.IsPositioned() {
			e.pushPositionedContainingBlock(borderBox, border)
			pushedPositioning = true
		}
		*ancestors = append(*ancestors, el)
		var err error
		switch style.Display {
		case pr.Table:
			var s size
			s, err = e.layoutTable(el, style, ancestors, contentBox, paint)
			contentHeight = s.h
		case pr.Flex:
			contentHeight, err = e.layoutFlexContainer(el, style, ancestors, contentBox, paint)
		case pr.Grid:
			contentHeight, err = e.layoutGrid(el, style, ancestors, contentBox, paint)
		default:
			contentHeight, err = e.layoutFlowChildren(el.Children, style, ancestors, contentBox, paint)
		}
		*ancestors = (*ancestors)[:len(*ancestors)-1]
		if pushedPositioning {
			e.popPositionedContainingBlock()
		}
		if err != nil {
			return err
		}
	}

	borderHeight := utils.SatAdd(utils.SatAdd(border.top, padding.top),
		utils.SatAdd(contentHeight, utils.SatAdd(padding.bottom, border.bottom)))
	if style.Height.IsSet() {
		borderHeight = utils.MaxPxs(borderHeight, style.Height.Resolve(containing.H))
	}
	if style.MinHeight.IsSet() {
		borderHeight = utils.MaxPxs(borderHeight, style.MinHeight.Resolve(containing.H))
	}

	// bottom without top anchors the bottom edge instead
	if !style.Top.IsSet() && style.Bottom.IsSet() {
		bottom := style.Bottom.Resolve(containing.H)
		newY := utils.SatSub(utils.SatSub(utils.SatAdd(containing.Y, containing.H), borderHeight), bottom)
		delta := utils.SatSub(newY, borderBox.Y)
		if delta != 0 {
			e.shiftCommandsY(commandStart, linkStart, delta)
			borderBox.Y = newY
		}
	}

	if backgroundIndex >= 0 {
		e.setBackgroundHeight(backgroundIndex, borderHeight)
	}

	if paint {
		fullBox := backend.Rect{X: borderBox.X, Y: borderBox.Y, W: borderBox.W, H: borderHeight}
		e.paintBorder(fullBox, style, border)
		if replacedSize != nil {
			if err := e.paintReplacedContent(el, style, inset(fullBox, addEdges(border, padding))); err != nil {
				return err
			}
		}
	}

	if needsOpacityGroup {
		e.list.Push(&backend.PopOpacity{Opacity: style.Opacity})
	}
	if isFixed {
		e.list.Push(&backend.PopFixed{})
		e.fixedDepth--
	}
	return nil
}

// layoutFlowChildren is normal block flow: inline runs gather into
// line boxes, block children flush them and advance the cursor,
// floats accumulate placements that narrow following content. Float
// painting is deferred so floats paint above the in-flow content
// that wraps around them.
func (e *engine) layoutFlowChildren(children []*tree.Node, parentStyle *tree.Style,
	ancestors *[]*tree.Element, contentBox backend.Rect, paint bool) (Px, error) {

	type deferredFloatPaint struct {
		commands []backend.Command
		links    []backend.LinkHitRegion
	}

	inheritedHref := inheritedLinkHref(*ancestors)

	cursorY := contentBox.Y
	var inlineNodes []*tree.Node
	var floats []floatPlacement
	maxFloatBottom := cursorY
	var deferred []deferredFloatPaint

	flushInline := func() error {
		if len(inlineNodes) == 0 {
			return nil
		}
		flowBox, newY := flowAreaAtY(floats, contentBox, cursorY)
		cursorY = newY
		height, err := e.layoutInlineNodes(inlineNodes, parentStyle, ancestors, flowBox, cursorY, paint, inheritedHref)
		if err != nil {
			return err
		}
		cursorY = utils.SatAdd(cursorY, height)
		inlineNodes = inlineNodes[:0]
		return nil
	}

	for _, child := range children {
		if child.Element == nil {
			inlineNodes = append(inlineNodes, child)
			continue
		}
		el := child.Element
		style := e.styles.Compute(el, *ancestors, parentStyle)
		if style.Display == pr.None {
			continue
		}

		if style.Clear != pr.ClearNone {
			cursorY = utils.MaxPxs(cursorY, clearedY(floats, style.Clear))
		}

		if (style.Float == pr.FloatLeft || style.Float == pr.FloatRight) && !style.Position.OutOfFlow() {
			if err := flushInline(); err != nil {
				return 0, err
			}

			savedCommands := e.list.Commands
			savedLinks := e.links
			e.list.Commands = nil
			e.links = nil

			placement, err := e.layoutFloat(el, style, parentStyle, ancestors, contentBox, cursorY, floats, paint)
			if err != nil {
				return 0, err
			}
			deferred = append(deferred, deferredFloatPaint{commands: e.list.Commands, links: e.links})

			e.list.Commands = savedCommands
			e.links = savedLinks
			maxFloatBottom = utils.MaxPxs(maxFloatBottom, utils.SatAdd(placement.rect.Y, placement.rect.H))
			floats = append(floats, placement)
			continue
		}

		if style.Position.OutOfFlow() {
			if err := flushInline(); err != nil {
				return 0, err
			}
			containing := e.currentPositionedContainingBlock()
			if err := e.layoutPositionedBox(el, style, ancestors, containing, paint); err != nil {
				return 0, err
			}
			continue
		}

		if isFlowBlock(style, el) {
			if err := flushInline(); err != nil {
				return 0, err
			}

			if establishesBlockFormattingContext(style) {
				required := requiredOuterWidthForFloatClearance(style, contentBox.W)
				flowBox, newY := flowAreaForWidth(floats, contentBox, cursorY, required)
				cursorY = newY
				childCursorY := cursorY
				err := e.layoutBlockBox(el, style, parentStyle, ancestors,
					backend.Rect{X: flowBox.X, Y: cursorY, W: flowBox.W, H: contentBox.H},
					&childCursorY, paint, nil)
				if err != nil {
					return 0, err
				}
				cursorY = childCursorY
			} else {
				flowBox := flowAreaAtExactY(floats, contentBox, cursorY)
				childCursorY := cursorY
				err := e.layoutBlockBox(el, style, parentStyle, ancestors,
					backend.Rect{X: contentBox.X, Y: cursorY, W: contentBox.W, H: contentBox.H},
					&childCursorY, paint, &flowBox)
				if err != nil {
					return 0, err
				}
				cursorY = childCursorY
			}
		} else {
			inlineNodes = append(inlineNodes, child)
		}
	}

	if err := flushInline(); err != nil {
		return 0, err
	}

	for _, d := range deferred {
		e.list.Commands = append(e.list.Commands, d.commands...)
		e.links = append(e.links, d.links...)
	}

	return utils.MaxPxs(utils.SatSub(utils.MaxPxs(cursorY, maxFloatBottom), contentBox.Y), 0), nil
}

func (e *engine) resolveUsedWidth(el *tree.Element, style *tree.Style, availableWidth Px) Px {
	if style.Width.IsSet() {
		return utils.MaxPxs(style.Width.Resolve(availableWidth), 0)
	}
	if style.Display == pr.Table {
		if attr, ok := el.Attribute("width"); ok {
			if percent, ok := parsePercentage(attr); ok {
				return utils.MaxPxs(utils.SatPx(float64(availableWidth)*float64(percent)/100), 0)
			}
		}
	}
	return availableWidth
}

func (e *engine) textStyleFor(style *tree.Style) text.Style {
	return text.Style{
		Family:        style.FontFamily,
		Size:          style.FontSize,
		Bold:          style.Bold,
		LetterSpacing: style.LetterSpacing,
	}
}

func (e *engine) paintBorder(borderBox backend.Rect, style *tree.Style, border edges) {
	if style.BorderStyle != pr.BorderSolid {
		return
	}
	color := style.BorderColor
	if border.top <= 0 && border.right <= 0 && border.bottom <= 0 && border.left <= 0 {
		return
	}

	if border.top == border.right && border.top == border.bottom && border.top == border.left && border.top > 0 {
		e.list.Push(&backend.DrawRoundedRectBorder{
			Rect:   borderBox,
			Radius: style.BorderRadius,
			Width:  border.top,
			Color:  color,
		})
		return
	}

	if border.top > 0 {
		e.list.Push(&backend.DrawRect{
			Rect:  backend.Rect{X: borderBox.X, Y: borderBox.Y, W: borderBox.W, H: border.top},
			Color: color,
		})
	}
	if border.bottom > 0 {
		e.list.Push(&backend.DrawRect{
			Rect: backend.Rect{
				X: borderBox.X,
				Y: utils.SatSub(utils.SatAdd(borderBox.Y, borderBox.H), border.bottom),
				W: borderBox.W, H: border.bottom,
			},
			Color: color,
		})
	}

	middleHeight := utils.MaxPxs(utils.SatSub(borderBox.H, utils.SatAdd(border.top, border.bottom)), 0)
	if middleHeight <= 0 {
		return
	}
	if border.left > 0 {
		e.list.Push(&backend.DrawRect{
			Rect: backend.Rect{
				X: borderBox.X, Y: utils.SatAdd(borderBox.Y, border.top),
				W: border.left, H: middleHeight,
			},
			Color: color,
		})
	}
	if border.right > 0 {
		e.list.Push(&backend.DrawRect{
			Rect: backend.Rect{
				X: utils.SatSub(utils.SatAdd(borderBox.X, borderBox.W), border.right),
				Y: utils.SatAdd(borderBox.Y, border.top),
				W: border.right, H: middleHeight,
			},
			Color: color,
		})
	}
}

// pushBackground emits the box background at height zero and returns
// its command index, to be patched once the content height is known.
// Returns -1 when there is nothing to paint.
func (e *engine) pushBackground(borderBox backend.Rect, style *tree.Style, height Px) int {
	if borderBox.W <= 0 {
		return -1
	}

	if style.BackgroundGradient != nil {
		index := len(e.list.Commands)
		e.list.Push(&backend.DrawGradientRect{
			Rect:     backend.Rect{X: borderBox.X, Y: borderBox.Y, W: borderBox.W, H: height},
			Gradient: *style.BackgroundGradient,
		})
		return index
	}

	if style.BackgroundColor.IsTransparent() {
		return -1
	}
	index := len(e.list.Commands)
	rect := backend.Rect{X: borderBox.X, Y: borderBox.Y, W: borderBox.W, H: height}
	if style.BorderRadius > 0 {
		e.list.Push(&backend.DrawRoundedRect{Rect: rect, Radius: style.BorderRadius, Color: style.BackgroundColor})
	} else {
		e.list.Push(&backend.DrawRect{Rect: rect, Color: style.BackgroundColor})
	}
	return index
}

func (e *engine) setBackgroundHeight(index int, height Px) {
	if index < 0 || index >= len(e.list.Commands) {
		return
	}
	switch c := e.list.Commands[index].(type) {
	case *backend.DrawRect:
		c.Rect.H = height
	case *backend.DrawRoundedRect:
		c.Rect.H = height
	case *backend.DrawGradientRect:
		c.Rect.H = height
	}
}

// shiftCommandsY moves every command and link region from the given
// indexes on by dy, used when a bottom anchored positioned box
// learns its height after painting its content.
func (e *engine) shiftCommandsY(commandStart, linkStart int, dy Px) {
	for i := linkStart; i < len(e.links); i++ {
		e.links[i].Rect.Y = utils.SatAdd(e.links[i].Rect.Y, dy)
	}
	for _, cmd := range e.list.Commands[commandStart:] {
		switch c := cmd.(type) {
		case *backend.DrawRect:
			c.Rect.Y = utils.SatAdd(c.Rect.Y, dy)
		case *backend.DrawRoundedRect:
			c.Rect.Y = utils.SatAdd(c.Rect.Y, dy)
		case *backend.DrawRoundedRectBorder:
			c.Rect.Y = utils.SatAdd(c.Rect.Y, dy)
		case *backend.DrawGradientRect:
			c.Rect.Y = utils.SatAdd(c.Rect.Y, dy)
		case *backend.DrawText:
			c.Y = utils.SatAdd(c.Y, dy)
		case *backend.DrawImage:
			c.Rect.Y = utils.SatAdd(c.Rect.Y, dy)
		case *backend.DrawSvg:
			c.Rect.Y = utils.SatAdd(c.Rect.Y, dy)
		}
	}
}

func inheritedLinkHref(ancestors []*tree.Element) string {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if ancestors[i].Tag() != "a" {
			continue
		}
		if href := anchorHref(ancestors[i]); href != "" {
			return href
		}
	}
	return ""
}

func findFirstElement(el *tree.Element, tag string) *tree.Element {
	if el.Tag() == tag {
		return el
	}
	for _, child := range el.Children {
		if child.Element == nil {
			continue
		}
		if found := findFirstElement(child.Element, tag); found != nil {
			return found
		}
	}
	return nil
}
