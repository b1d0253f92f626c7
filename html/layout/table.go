package layout

import (
	"strconv"
	"strings"

	"github.com/minkbrowser/mink/backend"
	pr "github.com/minkbrowser/mink/css/properties"
	"github.com/minkbrowser/mink/html/tree"
	"github.com/minkbrowser/mink/utils"
)

type tableCell struct {
	element *tree.Element
	style   *tree.Style
	colSpan int
}

type tableRow struct {
	element *tree.Element
	style   *tree.Style
	cells   []tableCell
}

// layoutTable implements classic HTML table layout: column min
// widths come from the longest unbreakable word per column, leftover
// width goes to the widest flexible column, and every cell of a row
// shares the row height.
func (e *engine) layoutTable(el *tree.Element, style *tree.Style,
	ancestors *[]*tree.Element, contentBox backend.Rect, paint bool) (size, error) {

	cellSpacing := tableAttrPx(el, "cellspacing", 2)
	cellPadding := tableAttrPx(el, "cellpadding", 1)

	rows := e.collectTableRows(el, style, ancestors)
	if len(rows) == 0 {
		return size{}, nil
	}
	colCount := 0
	for _, row := range rows {
		span := 0
		for _, cell := range row.cells {
			span += cell.colSpan
		}
		colCount = utils.MaxInt(colCount, span)
	}
	if colCount == 0 {
		return size{}, nil
	}

	colWidths, fixed, err := e.tableColumnMinWidths(rows, colCount, cellPadding, contentBox.W)
	if err != nil {
		return size{}, err
	}

	// Leftover space is given to the single widest non-fixed column
	// rather than spread across all of them.
	totalSpacing := utils.SatMul(cellSpacing, Px(colCount+1))
	used := totalSpacing
	for _, w := range colWidths {
		used = utils.SatAdd(used, w)
	}
	if extra := utils.SatSub(contentBox.W, used); extra > 0 {
		widest := -1
		for i, w := range colWidths {
			if fixed[i] {
				continue
			}
			if widest == -1 || w > colWidths[widest] {
				widest = i
			}
		}
		if widest >= 0 {
			colWidths[widest] = utils.SatAdd(colWidths[widest], extra)
			used = contentBox.W
		}
	}
	tableWidth := utils.MinPxs(used, utils.MaxPxs(contentBox.W, 0))

	colOffsets := make([]Px, colCount)
	cursor := cellSpacing
	for i, w := range colWidths {
		colOffsets[i] = cursor
		cursor = utils.SatAdd(cursor, utils.SatAdd(w, cellSpacing))
	}

	cursorY := utils.SatAdd(contentBox.Y, cellSpacing)
	for _, row := range rows {
		if cursorY >= e.viewport.Height {
			break
		}
		rowHeight, err := e.measureTableRowHeight(row, colWidths, colOffsets, cellSpacing, cellPadding, ancestors)
		if err != nil {
			return size{}, err
		}
		if row.style != nil && row.style.Height.IsSet() {
			rowHeight = utils.MaxPxs(rowHeight, utils.MaxPxs(row.style.Height.Resolve(0), 0))
		}
		if err := e.layoutTableRowCells(row, colWidths, colOffsets, cellSpacing, cellPadding,
			contentBox.X, cursorY, rowHeight, ancestors, paint); err != nil {
			return size{}, err
		}
		cursorY = utils.SatAdd(cursorY, utils.SatAdd(rowHeight, cellSpacing))
	}

	return size{w: tableWidth, h: utils.MaxPxs(utils.SatSub(cursorY, contentBox.Y), 0)}, nil
}

// collectTableRows gathers tr elements, looking through thead, tbody
// and tfoot wrappers, and the td/th cells of each row.
func (e *engine) collectTableRows(el *tree.Element, style *tree.Style,
	ancestors *[]*tree.Element) []tableRow {

	var rows []tableRow
	var walk func(parent *tree.Element, parentStyle *tree.Style)
	walk = func(parent *tree.Element, parentStyle *tree.Style) {
		for _, child := range parent.Children {
			if child.Element == nil {
				continue
			}
			switch child.Element.Tag() {
			case "tr":
				rowStyle := e.styles.Compute(child.Element, *ancestors, parentStyle)
				if rowStyle.Display == pr.None {
					continue
				}
				row := tableRow{element: child.Element, style: rowStyle}
				for _, cellNode := range child.Element.Children {
					if cellNode.Element == nil {
						continue
					}
					if !utils.IsIn([]string{"td", "th"}, cellNode.Element.Tag()) {
						continue
					}
					cellStyle := e.styles.Compute(cellNode.Element, append(*ancestors, child.Element), rowStyle)
					if cellStyle.Display == pr.None {
						continue
					}
					row.cells = append(row.cells, tableCell{
						element: cellNode.Element,
						style:   cellStyle,
						colSpan: cellColSpan(cellNode.Element),
					})
				}
				rows = append(rows, row)
			case "thead", "tbody", "tfoot":
				sectionStyle := e.styles.Compute(child.Element, *ancestors, parentStyle)
				if sectionStyle.Display == pr.None {
					continue
				}
				walk(child.Element, sectionStyle)
			}
		}
	}
	walk(el, style)
	return rows
}

func cellColSpan(el *tree.Element) int {
	if v, ok := el.Attribute("colspan"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 1 {
			return utils.MinInt(n, 1000)
		}
	}
	return 1
}

func tableAttrPx(el *tree.Element, name string, fallback Px) Px {
	if v, ok := el.Attribute(name); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			return utils.SatPx(float64(n))
		}
	}
	return fallback
}

// tableColumnMinWidths computes the minimum width of each column.
// Single-span cells contribute either their explicit width, which
// pins the column, or their longest word plus horizontal paddings.
func (e *engine) tableColumnMinWidths(rows []tableRow, colCount int,
	cellPadding, available Px) ([]Px, []bool, error) {

	widths := make([]Px, colCount)
	fixed := make([]bool, colCount)
	for _, row := range rows {
		col := 0
		for _, cell := range row.cells {
			if cell.colSpan != 1 {
				col += cell.colSpan
				continue
			}
			if col >= colCount {
				break
			}
			if cell.style.Width.IsSet() {
				w := utils.MaxPxs(cell.style.Width.Resolve(available), 0)
				widths[col] = utils.MaxPxs(widths[col], w)
				fixed[col] = true
			} else {
				word, err := e.longestWordWidth(cell.element, cell.style)
				if err != nil {
					return nil, nil, err
				}
				padding := resolveEdges(cell.style.Padding, available)
				w := utils.SatAdd(word, utils.SatAdd(utils.SatAdd(padding.left, padding.right),
					utils.SatMul(cellPadding, 2)))
				widths[col] = utils.MaxPxs(widths[col], w)
				if cell.style.TextAlign == pr.AlignRight {
					fixed[col] = true
				}
			}
			col++
		}
	}
	return widths, fixed, nil
}

// longestWordWidth is the widest single word anywhere inside the
// element, the hard lower bound on how narrow the content can wrap.
func (e *engine) longestWordWidth(el *tree.Element, style *tree.Style) (Px, error) {
	font := e.textStyleFor(style)
	var widest Px
	var walk func(nodes []*tree.Node) error
	walk = func(nodes []*tree.Node) error {
		for _, node := range nodes {
			if node.Element != nil {
				if err := walk(node.Element.Children); err != nil {
					return err
				}
				continue
			}
			for _, word := range strings.Fields(node.Text) {
				w, err := e.measurer.Width(font, word)
				if err != nil {
					return err
				}
				widest = utils.MaxPxs(widest, w)
			}
		}
		return nil
	}
	if err := walk(el.Children); err != nil {
		return 0, err
	}
	return widest, nil
}

func (e *engine) measureTableRowHeight(row tableRow, colWidths, colOffsets []Px,
	cellSpacing, cellPadding Px, ancestors *[]*tree.Element) (Px, error) {

	var rowHeight Px
	col := 0
	for _, cell := range row.cells {
		if col >= len(colWidths) {
			break
		}
		cellWidth := tableSpanWidth(colWidths, cellSpacing, col, cell.colSpan)
		height, err := e.layoutTableCell(cell, backend.Rect{W: cellWidth, H: e.viewport.Height},
			cellPadding, 0, ancestors, false)
		if err != nil {
			return 0, err
		}
		rowHeight = utils.MaxPxs(rowHeight, height)
		col += cell.colSpan
	}
	return rowHeight, nil
}

func (e *engine) layoutTableRowCells(row tableRow, colWidths, colOffsets []Px,
	cellSpacing, cellPadding Px, tableX, rowY, rowHeight Px,
	ancestors *[]*tree.Element, paint bool) error {

	col := 0
	for _, cell := range row.cells {
		if col >= len(colWidths) {
			break
		}
		cellWidth := tableSpanWidth(colWidths, cellSpacing, col, cell.colSpan)
		borderBox := backend.Rect{
			X: utils.SatAdd(tableX, colOffsets[col]),
			Y: rowY,
			W: cellWidth,
			H: rowHeight,
		}
		if _, err := e.layoutTableCell(cell, borderBox, cellPadding, rowHeight, ancestors, paint); err != nil {
			return err
		}
		col += cell.colSpan
	}
	return nil
}

func tableSpanWidth(colWidths []Px, cellSpacing Px, start, span int) Px {
	var total Px
	for i := 0; i < span; i++ {
		idx := start + i
		if idx >= len(colWidths) {
			break
		}
		if i > 0 {
			total = utils.SatAdd(total, cellSpacing)
		}
		total = utils.SatAdd(total, colWidths[idx])
	}
	return total
}

// layoutTableCell flows the cell contents and returns the resolved
// border height. A non-zero rowHeight stretches the painted
// background and border to the shared row height.
func (e *engine) layoutTableCell(cell tableCell, borderBox backend.Rect,
	cellPadding, rowHeight Px, ancestors *[]*tree.Element, paint bool) (Px, error) {

	style := cell.style
	paint = paint && style.Visible
	if paint && style.Opacity == 0 {
		paint = false
	}
	needsOpacityGroup := paint && style.Opacity < 1
	if needsOpacityGroup {
		e.list.Push(&backend.PushOpacity{Opacity: style.Opacity})
	}

	backgroundIndex := -1
	if paint {
		backgroundIndex = e.pushBackground(borderBox, style, 0)
	}

	border := resolveEdges(style.BorderWidth, borderBox.W)
	padding := resolveEdges(style.Padding, borderBox.W)
	padding.top = utils.SatAdd(padding.top, cellPadding)
	padding.bottom = utils.SatAdd(padding.bottom, cellPadding)
	padding.left = utils.SatAdd(padding.left, cellPadding)
	padding.right = utils.SatAdd(padding.right, cellPadding)
	contentBox := inset(borderBox, addEdges(border, padding))

	*ancestors = append(*ancestors, cell.element)
	contentHeight, err := e.layoutFlowChildren(cell.element.Children, style, ancestors, contentBox, paint)
	*ancestors = (*ancestors)[:len(*ancestors)-1]
	if err != nil {
		return 0, err
	}

	borderHeight := utils.MaxPxs(utils.SatAdd(utils.SatAdd(border.top, padding.top),
		utils.SatAdd(contentHeight, utils.SatAdd(padding.bottom, border.bottom))), 0)
	if style.Height.IsSet() {
		borderHeight = utils.MaxPxs(borderHeight, utils.MaxPxs(style.Height.Resolve(0), 0))
	}
	paintedHeight := utils.MaxPxs(borderHeight, rowHeight)

	if backgroundIndex >= 0 {
		e.setBackgroundHeight(backgroundIndex, paintedHeight)
	}
	if paint {
		e.paintBorder(backend.Rect{X: borderBox.X, Y: borderBox.Y, W: borderBox.W, H: paintedHeight},
			style, border)
	}
	if needsOpacityGroup {
		e.list.Push(&backend.PopOpacity{Opacity: style.Opacity})
	}
	return borderHeight, nil
}
