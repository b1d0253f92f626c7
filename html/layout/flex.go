package layout

import (
	"strings"

	"github.com/minkbrowser/mink/backend"
	pr "github.com/minkbrowser/mink/css/properties"
	"github.com/minkbrowser/mink/html/tree"
	"github.com/minkbrowser/mink/text"
	"github.com/minkbrowser/mink/utils"
)

// flexItem is one in-flow child of a flex container: either a bare
// text run (laid out with the container's style) or an element.
type flexItem struct {
	textNode *tree.Node
	element  *tree.Element
	style    *tree.Style
	margin   edges
}

// layoutFlexContainer dispatches on flex-direction. Only the main
// axis flexes; the cross axis follows align-items.
func (e *engine) layoutFlexContainer(el *tree.Element, style *tree.Style,
	ancestors *[]*tree.Element, contentBox backend.Rect, paint bool) (Px, error) {

	if style.Display != pr.Flex {
		return 0, nil
	}
	if style.FlexDirection == pr.Column {
		return e.layoutFlexColumn(el, style, ancestors, contentBox, paint)
	}
	return e.layoutFlexRowContainer(el, style, ancestors, contentBox, paint)
}

func (e *engine) layoutFlexRowContainer(el *tree.Element, style *tree.Style,
	ancestors *[]*tree.Element, contentBox backend.Rect, paint bool) (Px, error) {

	if contentBox.W <= 0 {
		return 0, e.layoutFlexPositionedChildren(el, style, ancestors, contentBox, paint)
	}
	items := e.collectFlexItems(el, style, ancestors, contentBox.W)
	if len(items) == 0 {
		return 0, e.layoutFlexPositionedChildren(el, style, ancestors, contentBox, paint)
	}

	var height Px
	var err error
	if style.FlexWrap == pr.Wrap {
		height, err = e.layoutFlexRowWrapped(style, ancestors, contentBox, paint, items)
	} else {
		measured := make([]Px, len(items))
		for i, item := range items {
			measured[i], err = e.measureItemMainSizeRow(style, ancestors, item, contentBox.W)
			if err != nil {
				return 0, err
			}
		}
		height, err = e.layoutFlexRowLine(style, ancestors, contentBox, paint, items, measured)
	}
	if err != nil {
		return 0, err
	}
	return height, e.layoutFlexPositionedChildren(el, style, ancestors, contentBox, paint)
}

// layoutFlexRowWrapped packs items into as many lines as needed,
// breaking before the item that would overflow the row.
func (e *engine) layoutFlexRowWrapped(containerStyle *tree.Style, ancestors *[]*tree.Element,
	contentBox backend.Rect, paint bool, items []*flexItem) (Px, error) {

	gap := utils.MaxPxs(containerStyle.Gap, 0)
	cursorY := contentBox.Y
	lineStart := 0
	var lineUsed Px

	measured := make([]Px, len(items))
	for i, item := range items {
		var err error
		measured[i], err = e.measureItemMainSizeRow(containerStyle, ancestors, item, contentBox.W)
		if err != nil {
			return 0, err
		}
	}

	layoutLine := func(from, to int) error {
		height, err := e.layoutFlexRowLine(containerStyle, ancestors,
			backend.Rect{X: contentBox.X, Y: cursorY, W: contentBox.W, H: contentBox.H},
			paint, items[from:to], measured[from:to])
		if err != nil {
			return err
		}
		cursorY = utils.SatAdd(cursorY, height)
		return nil
	}

	for i, item := range items {
		outer := utils.SatAdd(item.margin.left, utils.SatAdd(utils.MaxPxs(measured[i], 0), item.margin.right))
		addition := outer
		if i != lineStart {
			addition = utils.SatAdd(gap, outer)
		}
		if lineUsed > 0 && utils.SatAdd(lineUsed, addition) > contentBox.W {
			if err := layoutLine(lineStart, i); err != nil {
				return 0, err
			}
			lineStart = i
			lineUsed = outer
		} else {
			lineUsed = utils.SatAdd(lineUsed, addition)
		}
	}
	if lineStart < len(items) {
		if err := layoutLine(lineStart, len(items)); err != nil {
			return 0, err
		}
	}
	return utils.MaxPxs(utils.SatSub(cursorY, contentBox.Y), 0), nil
}

func (e *engine) layoutFlexRowLine(containerStyle *tree.Style, ancestors *[]*tree.Element,
	lineBox backend.Rect, paint bool, items []*flexItem, measuredMain []Px) (Px, error) {

	if len(items) == 0 || lineBox.W <= 0 {
		return 0, nil
	}

	sizes := make([]size, len(items))
	for i, item := range items {
		borderWidth := measuredMain[i]
		if borderWidth < 0 {
			borderWidth = 0
		}
		if borderWidth > lineBox.W {
			borderWidth = lineBox.W
		}
		borderHeight, err := e.measureItemBorderHeight(containerStyle, ancestors, item, borderWidth)
		if err != nil {
			return 0, err
		}
		sizes[i] = size{w: borderWidth, h: borderHeight}
	}

	distributeFlexGrowRow(containerStyle, items, lineBox.W, sizes)

	var lineHeight Px
	for i, item := range items {
		outer := utils.SatAdd(item.margin.top, utils.SatAdd(sizes[i].h, item.margin.bottom))
		lineHeight = utils.MaxPxs(lineHeight, outer)
	}

	positions := computeMainPositions(containerStyle.JustifyContent, lineBox.W, containerStyle.Gap, items, sizes)

	for i, item := range items {
		borderX := utils.SatAdd(utils.SatAdd(lineBox.X, positions[i]), item.margin.left)
		borderY := alignCrossStart(containerStyle.AlignItems, lineBox.Y, lineHeight,
			sizes[i].h, item.margin.top, item.margin.bottom)
		_, err := e.layoutFlexItemBox(containerStyle, ancestors, item,
			backend.Rect{X: borderX, Y: borderY, W: sizes[i].w, H: sizes[i].h}, paint)
		if err != nil {
			return 0, err
		}
	}
	return utils.MaxPxs(lineHeight, 0), nil
}

func (e *engine) layoutFlexColumn(el *tree.Element, style *tree.Style,
	ancestors *[]*tree.Element, contentBox backend.Rect, paint bool) (Px, error) {

	items := e.collectFlexItems(el, style, ancestors, contentBox.W)
	if len(items) == 0 {
		return 0, e.layoutFlexPositionedChildren(el, style, ancestors, contentBox, paint)
	}

	cursorY := contentBox.Y
	gap := utils.MaxPxs(style.Gap, 0)

	for i, item := range items {
		if cursorY >= e.viewport.Height {
			break
		}
		borderWidth := resolveColumnItemWidth(contentBox.W, item)
		borderHeight, err := e.measureItemBorderHeight(style, ancestors, item, borderWidth)
		if err != nil {
			return 0, err
		}
		alignedX := alignColumnCrossStart(style.AlignItems, contentBox.X, contentBox.W,
			borderWidth, item.margin.left, item.margin.right)

		_, err = e.layoutFlexItemBox(style, ancestors, item,
			backend.Rect{X: alignedX, Y: utils.SatAdd(cursorY, item.margin.top), W: borderWidth, H: borderHeight},
			paint)
		if err != nil {
			return 0, err
		}

		cursorY = utils.SatAdd(cursorY,
			utils.SatAdd(item.margin.top, utils.SatAdd(borderHeight, item.margin.bottom)))
		if i+1 < len(items) {
			cursorY = utils.SatAdd(cursorY, gap)
		}
	}

	if err := e.layoutFlexPositionedChildren(el, style, ancestors, contentBox, paint); err != nil {
		return 0, err
	}
	return utils.MaxPxs(utils.SatSub(cursorY, contentBox.Y), 0), nil
}

func alignCrossStart(align pr.AlignItems, lineY, lineHeight, itemHeight, marginTop, marginBottom Px) Px {
	itemHeight = utils.MaxPxs(itemHeight, 0)
	lineHeight = utils.MaxPxs(lineHeight, 0)
	remaining := utils.MaxPxs(utils.SatSub(lineHeight,
		utils.SatAdd(marginTop, utils.SatAdd(itemHeight, marginBottom))), 0)
	switch align {
	case pr.AlignItemsCenter:
		return utils.SatAdd(utils.SatAdd(lineY, marginTop), remaining/2)
	case pr.AlignItemsEnd:
		return utils.SatAdd(utils.SatAdd(lineY, marginTop), remaining)
	}
	return utils.SatAdd(lineY, marginTop)
}

func alignColumnCrossStart(align pr.AlignItems, containerX, containerWidth, itemWidth, marginLeft, marginRight Px) Px {
	available := utils.MaxPxs(utils.SatSub(containerWidth, utils.SatAdd(marginLeft, marginRight)), 0)
	itemWidth = utils.MaxPxs(itemWidth, 0)
	remaining := utils.MaxPxs(utils.SatSub(available, itemWidth), 0)
	switch align {
	case pr.AlignItemsCenter:
		return utils.SatAdd(utils.SatAdd(containerX, marginLeft), remaining/2)
	case pr.AlignItemsEnd:
		return utils.SatAdd(utils.SatAdd(containerX, marginLeft), remaining)
	}
	return utils.SatAdd(containerX, marginLeft)
}

func (e *engine) collectFlexItems(el *tree.Element, style *tree.Style,
	ancestors *[]*tree.Element, containerWidth Px) []*flexItem {

	var items []*flexItem
	for _, child := range el.Children {
		if child.Element == nil {
			if strings.TrimSpace(child.Text) == "" {
				continue
			}
			items = append(items, &flexItem{textNode: child, style: style})
			continue
		}
		childStyle := e.styles.Compute(child.Element, *ancestors, style)
		if childStyle.Display == pr.None {
			continue
		}
		if childStyle.Position.OutOfFlow() {
			continue
		}
		items = append(items, &flexItem{
			element: child.Element,
			style:   childStyle,
			margin:  resolveEdges(childStyle.Margin, containerWidth),
		})
	}
	return items
}

func (e *engine) layoutFlexPositionedChildren(el *tree.Element, containerStyle *tree.Style,
	ancestors *[]*tree.Element, containing backend.Rect, paint bool) error {

	for _, child := range el.Children {
		if child.Element == nil {
			continue
		}
		style := e.styles.Compute(child.Element, *ancestors, containerStyle)
		if style.Display == pr.None {
			continue
		}
		if style.Position.OutOfFlow() {
			if err := e.layoutPositionedBox(child.Element, style, ancestors, containing, paint); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *engine) measureItemMainSizeRow(parentStyle *tree.Style, ancestors *[]*tree.Element,
	item *flexItem, maxWidth Px) (Px, error) {

	var borderWidth Px
	switch {
	case item.element != nil && item.style.FlexBasis.IsSet():
		borderWidth = item.style.FlexBasis.Resolve(maxWidth)
	case item.element != nil && item.style.Width.IsSet():
		borderWidth = item.style.Width.Resolve(maxWidth)
	case item.textNode != nil:
		s, err := e.measureInlineNodes([]*tree.Node{item.textNode}, parentStyle, ancestors, maxWidth)
		if err != nil {
			return 0, err
		}
		borderWidth = s.w
	default:
		var err error
		borderWidth, err = e.measureElementMaxContentWidth(item.element, item.style, ancestors, maxWidth)
		if err != nil {
			return 0, err
		}
	}

	borderWidth = utils.MaxPxs(borderWidth, 0)
	if item.element != nil {
		if item.style.MinWidth.IsSet() {
			borderWidth = utils.MaxPxs(borderWidth, utils.MaxPxs(item.style.MinWidth.Resolve(maxWidth), 0))
		}
		if item.style.MaxWidth.IsSet() {
			borderWidth = utils.MinPxs(borderWidth, utils.MaxPxs(item.style.MaxWidth.Resolve(maxWidth), 0))
		}
	}
	return utils.MinPxs(borderWidth, utils.MaxPxs(maxWidth, 0)), nil
}

// measureElementMaxContentWidth is the widest the element wants to
// be without wrapping, used for floats, flex basis and content
// sized grid tracks.
func (e *engine) measureElementMaxContentWidth(el *tree.Element, style *tree.Style,
	ancestors *[]*tree.Element, maxWidth Px) (Px, error) {

	maxWidth = utils.MaxPxs(maxWidth, 0)
	if style.Width.IsSet() {
		return utils.MinPxs(utils.MaxPxs(style.Width.Resolve(maxWidth), 0), maxWidth), nil
	}
	if style.Display == pr.Flex {
		return e.measureFlexContainerMaxContentWidth(el, style, ancestors, maxWidth)
	}
	if isReplacedElement(el) {
		s, err := e.measureReplacedOuterSize(el, style, maxWidth)
		if err != nil {
			return 0, err
		}
		margin := resolveEdges(style.Margin, maxWidth)
		borderWidth := utils.MaxPxs(utils.SatSub(s.w, utils.SatAdd(margin.left, margin.right)), 0)
		return utils.MinPxs(borderWidth, maxWidth), nil
	}

	var width Px
	*ancestors = append(*ancestors, el)
	var err error
	if isFlowBlock(style, el) {
		for _, child := range el.Children {
			var w Px
			w, err = e.measureNodeMaxContentWidth(child, style, ancestors, maxWidth)
			if err != nil {
				break
			}
			width = utils.MaxPxs(width, w)
		}
	} else {
		width, err = e.measureInlineChildrenWidth(el.Children, style, ancestors, maxWidth)
	}
	*ancestors = (*ancestors)[:len(*ancestors)-1]
	if err != nil {
		return 0, err
	}

	border := resolveEdges(style.BorderWidth, maxWidth)
	padding := resolveEdges(style.Padding, maxWidth)
	width = utils.SatAdd(width,
		utils.SatAdd(utils.SatAdd(border.left, border.right), utils.SatAdd(padding.left, padding.right)))
	return utils.MinPxs(utils.MaxPxs(width, 0), maxWidth), nil
}

func (e *engine) measureFlexContainerMaxContentWidth(el *tree.Element, style *tree.Style,
	ancestors *[]*tree.Element, maxWidth Px) (Px, error) {

	gap := utils.MaxPxs(style.Gap, 0)
	var primary Px
	hasAnyItem := false

	*ancestors = append(*ancestors, el)
	defer func() { *ancestors = (*ancestors)[:len(*ancestors)-1] }()

	for _, child := range el.Children {
		var childWidth, marginLeft, marginRight Px
		if child.Element == nil {
			if strings.TrimSpace(child.Text) == "" {
				continue
			}
			s, err := e.measureInlineNodes([]*tree.Node{child}, style, ancestors, maxWidth)
			if err != nil {
				return 0, err
			}
			childWidth = s.w
		} else {
			childStyle := e.styles.Compute(child.Element, *ancestors, style)
			if childStyle.Display == pr.None {
				continue
			}
			var width Px
			switch {
			case childStyle.FlexBasis.IsSet():
				width = utils.MaxPxs(childStyle.FlexBasis.Resolve(maxWidth), 0)
			case childStyle.Width.IsSet():
				width = utils.MaxPxs(childStyle.Width.Resolve(maxWidth), 0)
			default:
				var err error
				width, err = e.measureElementMaxContentWidth(child.Element, childStyle, ancestors, maxWidth)
				if err != nil {
					return 0, err
				}
			}
			if childStyle.MinWidth.IsSet() {
				width = utils.MaxPxs(width, utils.MaxPxs(childStyle.MinWidth.Resolve(maxWidth), 0))
			}
			if childStyle.MaxWidth.IsSet() {
				width = utils.MinPxs(width, utils.MaxPxs(childStyle.MaxWidth.Resolve(maxWidth), 0))
			}
			childWidth = utils.MinPxs(width, maxWidth)
			margin := resolveEdges(childStyle.Margin, maxWidth)
			marginLeft, marginRight = margin.left, margin.right
		}

		outerWidth := utils.SatAdd(marginLeft, utils.SatAdd(utils.MaxPxs(childWidth, 0), marginRight))
		if style.FlexDirection == pr.Column {
			primary = utils.MaxPxs(primary, outerWidth)
		} else {
			if hasAnyItem {
				primary = utils.SatAdd(primary, gap)
			}
			primary = utils.SatAdd(primary, outerWidth)
		}
		hasAnyItem = true
	}

	border := resolveEdges(style.BorderWidth, maxWidth)
	padding := resolveEdges(style.Padding, maxWidth)
	total := utils.SatAdd(primary,
		utils.SatAdd(utils.SatAdd(border.left, border.right), utils.SatAdd(padding.left, padding.right)))
	return utils.MinPxs(utils.MaxPxs(total, 0), maxWidth), nil
}

func (e *engine) measureNodeMaxContentWidth(node *tree.Node, parentStyle *tree.Style,
	ancestors *[]*tree.Element, maxWidth Px) (Px, error) {

	if node.Element == nil {
		return e.measureTextRunWidth(node.Text, e.textStyleFor(parentStyle))
	}
	style := e.styles.Compute(node.Element, *ancestors, parentStyle)
	if style.Display == pr.None {
		return 0, nil
	}
	if style.Width.IsSet() {
		return utils.MinPxs(utils.MaxPxs(style.Width.Resolve(maxWidth), 0), maxWidth), nil
	}
	return e.measureElementMaxContentWidth(node.Element, style, ancestors, maxWidth)
}

func (e *engine) measureInlineChildrenWidth(children []*tree.Node, parentStyle *tree.Style,
	ancestors *[]*tree.Element, maxWidth Px) (Px, error) {

	var total Px
	pendingSpace := false
	for _, child := range children {
		if child.Element == nil {
			segment, spaceAfter, err := e.measureTextRunWidthWithPendingSpace(
				child.Text, e.textStyleFor(parentStyle), pendingSpace)
			if err != nil {
				return 0, err
			}
			total = utils.SatAdd(total, segment)
			pendingSpace = spaceAfter
			continue
		}

		style := e.styles.Compute(child.Element, *ancestors, parentStyle)
		if style.Display == pr.None {
			continue
		}
		var width Px
		if isReplacedElement(child.Element) {
			s, err := e.measureReplacedOuterSize(child.Element, style, maxWidth)
			if err != nil {
				return 0, err
			}
			margin := resolveEdges(style.Margin, maxWidth)
			width = utils.MaxPxs(utils.SatSub(s.w, utils.SatAdd(margin.left, margin.right)), 0)
		} else {
			var err error
			width, err = e.measureElementMaxContentWidth(child.Element, style, ancestors, maxWidth)
			if err != nil {
				return 0, err
			}
		}

		if pendingSpace && width > 0 {
			spaceWidth, err := e.measurer.Width(e.textStyleFor(parentStyle), " ")
			if err != nil {
				return 0, err
			}
			total = utils.SatAdd(total, spaceWidth)
		}
		pendingSpace = false

		margin := resolveEdges(style.Margin, maxWidth)
		total = utils.SatAdd(total, utils.SatAdd(width, utils.SatAdd(margin.left, margin.right)))
	}
	return utils.MinPxs(utils.MaxPxs(total, 0), maxWidth), nil
}

func (e *engine) measureTextRunWidth(s string, font text.Style) (Px, error) {
	var width Px
	first := true
	for _, word := range strings.Fields(s) {
		wordWidth, err := e.measurer.Width(font, word)
		if err != nil {
			return 0, err
		}
		if !first {
			spaceWidth, err := e.measurer.Width(font, " ")
			if err != nil {
				return 0, err
			}
			width = utils.SatAdd(width, spaceWidth)
		}
		first = false
		width = utils.SatAdd(width, wordWidth)
	}
	return utils.MaxPxs(width, 0), nil
}

func (e *engine) measureTextRunWidthWithPendingSpace(s string, font text.Style,
	pendingSpace bool) (Px, bool, error) {

	var width Px
	anyWord := false
	firstWord := true
	for _, word := range strings.Fields(s) {
		if (pendingSpace && firstWord) || anyWord {
			spaceWidth, err := e.measurer.Width(font, " ")
			if err != nil {
				return 0, false, err
			}
			width = utils.SatAdd(width, spaceWidth)
		}
		firstWord = false
		anyWord = true
		wordWidth, err := e.measurer.Width(font, word)
		if err != nil {
			return 0, false, err
		}
		width = utils.SatAdd(width, wordWidth)
	}

	endsWithSpace := s != "" && strings.TrimSpace(s[len(s)-1:]) == ""
	return utils.MaxPxs(width, 0), endsWithSpace, nil
}

// distributeFlexGrowRow hands leftover row width to growing items in
// proportion to flex-grow; the last grower absorbs rounding.
func distributeFlexGrowRow(containerStyle *tree.Style, items []*flexItem, maxWidth Px, sizes []size) {
	maxWidth = utils.MaxPxs(maxWidth, 0)
	if maxWidth <= 0 || len(items) == 0 {
		return
	}
	gap := utils.MaxPxs(containerStyle.Gap, 0)
	totalOuter := utils.SatMul(gap, Px(len(items)-1))
	for i, item := range items {
		totalOuter = utils.SatAdd(totalOuter,
			utils.SatAdd(item.margin.left, utils.SatAdd(sizes[i].w, item.margin.right)))
	}
	remaining := utils.MaxPxs(utils.SatSub(maxWidth, totalOuter), 0)
	if remaining == 0 {
		return
	}

	var totalGrow float64
	lastGrower := -1
	for i, item := range items {
		if item.element == nil {
			continue
		}
		grow := float64(item.style.FlexGrow)
		if grow > 0 {
			totalGrow += grow
			lastGrower = i
		}
	}
	if totalGrow <= 0 {
		return
	}

	var distributed Px
	for i, item := range items {
		if item.element == nil {
			continue
		}
		grow := float64(item.style.FlexGrow)
		if grow <= 0 {
			continue
		}
		var extra Px
		if i == lastGrower {
			extra = utils.SatSub(remaining, distributed)
		} else {
			extra = utils.SatPx(float64(remaining) * grow / totalGrow)
		}
		distributed = utils.SatAdd(distributed, extra)
		sizes[i].w = utils.MinPxs(utils.SatAdd(sizes[i].w, extra), maxWidth)
	}
}

// computeMainPositions resolves justify-content to an x offset per
// item within the line.
func computeMainPositions(justify pr.JustifyContent, maxWidth, gapPx Px, items []*flexItem, sizes []size) []Px {
	gap := utils.MaxPxs(gapPx, 0)
	if len(items) == 0 {
		return nil
	}

	var totalOuter Px
	for i, item := range items {
		totalOuter = utils.SatAdd(totalOuter,
			utils.SatAdd(item.margin.left, utils.SatAdd(sizes[i].w, item.margin.right)))
	}
	totalOuter = utils.SatAdd(totalOuter, utils.SatMul(gap, Px(len(items)-1)))
	remaining := utils.MaxPxs(utils.SatSub(maxWidth, totalOuter), 0)

	var startOffset, spacing Px
	spacing = gap
	switch justify {
	case pr.JustifyCenter:
		startOffset = remaining / 2
	case pr.JustifyEnd:
		startOffset = remaining
	case pr.SpaceBetween:
		if len(items) > 1 {
			spacing = utils.SatAdd(gap, remaining/Px(len(items)-1))
		}
	}

	positions := make([]Px, 0, len(items))
	cursor := utils.MaxPxs(startOffset, 0)
	for i, item := range items {
		positions = append(positions, cursor)
		cursor = utils.SatAdd(cursor,
			utils.SatAdd(item.margin.left, utils.SatAdd(sizes[i].w, item.margin.right)))
		if i+1 < len(items) {
			cursor = utils.SatAdd(cursor, spacing)
		}
	}
	return positions
}

// measureItemBorderHeight resolves an item's height by a silent
// layout pass at the given width.
func (e *engine) measureItemBorderHeight(parentStyle *tree.Style, ancestors *[]*tree.Element,
	item *flexItem, borderWidth Px) (Px, error) {

	borderWidth = utils.MaxPxs(borderWidth, 0)
	if item.textNode != nil {
		s, err := e.measureInlineNodes([]*tree.Node{item.textNode}, parentStyle, ancestors, borderWidth)
		if err != nil {
			return 0, err
		}
		return utils.MaxPxs(s.h, 0), nil
	}
	height, err := e.layoutFlexItemBox(parentStyle, ancestors, item,
		backend.Rect{W: borderWidth, H: e.viewport.Height}, false)
	if err != nil {
		return 0, err
	}
	return utils.MaxPxs(height, 0), nil
}

func resolveColumnItemWidth(containerWidth Px, item *flexItem) Px {
	containerWidth = utils.MaxPxs(containerWidth, 0)
	if item.element != nil && item.style.Width.IsSet() {
		return utils.MinPxs(utils.MaxPxs(item.style.Width.Resolve(containerWidth), 0), containerWidth)
	}
	return containerWidth
}

// layoutFlexItemBox lays one item into its border box and returns
// the resolved border height.
func (e *engine) layoutFlexItemBox(parentStyle *tree.Style, ancestors *[]*tree.Element,
	item *flexItem, borderBox backend.Rect, paint bool) (Px, error) {

	if borderBox.W <= 0 {
		return 0, nil
	}
	style := item.style

	paint = paint && style.Visible
	if paint && style.Opacity == 0 {
		paint = false
	}
	needsOpacityGroup := paint && style.Opacity < 1
	if needsOpacityGroup {
		e.list.Push(&backend.PushOpacity{Opacity: style.Opacity})
	}

	backgroundIndex := -1
	if paint && item.element != nil {
		backgroundIndex = e.pushBackground(borderBox, style, 0)
	}

	border := resolveEdges(style.BorderWidth, borderBox.W)
	padding := resolveEdges(style.Padding, borderBox.W)
	if item.textNode != nil {
		border, padding = edges{}, edges{}
	}
	contentBox := inset(borderBox, addEdges(border, padding))

	var contentHeight Px
	var err error
	if item.textNode != nil {
		contentHeight, err = e.layoutInlineNodes([]*tree.Node{item.textNode}, parentStyle,
			ancestors, contentBox, contentBox.Y, paint, "")
	} else {
		el := item.element
		*ancestors = append(*ancestors, el)
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
			if el.Tag() == "a" {
				contentHeight, err = e.layoutInlineNodes(el.Children, style, ancestors,
					contentBox, contentBox.Y, paint, anchorHref(el))
			} else {
				contentHeight, err = e.layoutFlowChildren(el.Children, style, ancestors, contentBox, paint)
			}
		}
		*ancestors = (*ancestors)[:len(*ancestors)-1]
	}
	if err != nil {
		return 0, err
	}

	borderHeight := utils.MaxPxs(utils.SatAdd(utils.SatAdd(border.top, padding.top),
		utils.SatAdd(contentHeight, utils.SatAdd(padding.bottom, border.bottom))), 0)
	if item.element != nil {
		if style.Height.IsSet() {
			borderHeight = utils.MaxPxs(borderHeight, utils.MaxPxs(style.Height.Resolve(0), 0))
		}
		if style.MinHeight.IsSet() {
			borderHeight = utils.MaxPxs(borderHeight, utils.MaxPxs(style.MinHeight.Resolve(0), 0))
		}
	}

	if backgroundIndex >= 0 {
		e.setBackgroundHeight(backgroundIndex, borderHeight)
	}
	if paint && item.element != nil {
		e.paintBorder(backend.Rect{X: borderBox.X, Y: borderBox.Y, W: borderBox.W, H: borderHeight}, style, border)
	}
	if needsOpacityGroup {
		e.list.Push(&backend.PopOpacity{Opacity: style.Opacity})
	}
	return borderHeight, nil
}
