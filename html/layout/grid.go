package layout

import (
	"strings"

	"github.com/minkbrowser/mink/backend"
	pr "github.com/minkbrowser/mink/css/properties"
	"github.com/minkbrowser/mink/html/tree"
	"github.com/minkbrowser/mink/utils"
)

// gridArea is a named rectangular region of the template, in cell
// coordinates.
type gridArea struct {
	row, col         int
	rowSpan, colSpan int
}

type gridItem struct {
	item *flexItem
	area gridArea
}

// layoutGrid lays out a grid-template-areas container. Children with
// a grid-area matching a rectangular named area land in that area;
// everything else flows below the template rows. Containers with no
// template, or with bare text children, fall back to block flow.
func (e *engine) layoutGrid(el *tree.Element, style *tree.Style,
	ancestors *[]*tree.Element, contentBox backend.Rect, paint bool) (Px, error) {

	areas := extractGridAreas(style.GridTemplateAreas)
	if len(areas) == 0 || gridHasTextChildren(el) {
		return e.layoutFlowChildren(el.Children, style, ancestors, contentBox, paint)
	}
	rowCount := len(style.GridTemplateAreas)
	colCount := len(style.GridTemplateAreas[0])

	var placed []gridItem
	var unplaced []*tree.Node
	for _, child := range el.Children {
		if child.Element == nil {
			continue
		}
		childStyle := e.styles.Compute(child.Element, *ancestors, style)
		if childStyle.Display == pr.None {
			continue
		}
		if childStyle.Position.OutOfFlow() {
			if err := e.layoutPositionedBox(child.Element, childStyle, ancestors, contentBox, paint); err != nil {
				return 0, err
			}
			continue
		}
		area, ok := areas[childStyle.GridArea]
		if !ok {
			unplaced = append(unplaced, child)
			continue
		}
		placed = append(placed, gridItem{
			item: &flexItem{
				element: child.Element,
				style:   childStyle,
				margin:  resolveEdges(childStyle.Margin, contentBox.W),
			},
			area: area,
		})
	}

	tracks := resolveGridTracks(style.GridTemplateColumns, colCount)
	gap := utils.MaxPxs(style.Gap, 0)

	colWidths, err := e.resolveGridColumnWidths(tracks, placed, ancestors, contentBox.W, gap)
	if err != nil {
		return 0, err
	}
	colOffsets := trackOffsets(colWidths, gap)

	// Row heights come from items anchored to a single row, measured
	// at their resolved cell width.
	rowHeights := make([]Px, rowCount)
	for _, gi := range placed {
		if gi.area.rowSpan != 1 {
			continue
		}
		cellWidth := spanExtent(colWidths, gap, gi.area.col, gi.area.colSpan)
		borderWidth := utils.MaxPxs(utils.SatSub(cellWidth,
			utils.SatAdd(gi.item.margin.left, gi.item.margin.right)), 0)
		height, err := e.measureItemBorderHeight(style, ancestors, gi.item, borderWidth)
		if err != nil {
			return 0, err
		}
		outer := utils.SatAdd(gi.item.margin.top, utils.SatAdd(height, gi.item.margin.bottom))
		rowHeights[gi.area.row] = utils.MaxPxs(rowHeights[gi.area.row], outer)
	}
	rowOffsets := trackOffsets(rowHeights, gap)

	for _, gi := range placed {
		cellX := utils.SatAdd(contentBox.X, colOffsets[gi.area.col])
		cellY := utils.SatAdd(contentBox.Y, rowOffsets[gi.area.row])
		cellW := spanExtent(colWidths, gap, gi.area.col, gi.area.colSpan)

		borderBox := backend.Rect{
			X: utils.SatAdd(cellX, gi.item.margin.left),
			Y: utils.SatAdd(cellY, gi.item.margin.top),
			W: utils.MaxPxs(utils.SatSub(cellW,
				utils.SatAdd(gi.item.margin.left, gi.item.margin.right)), 0),
		}
		if _, err := e.layoutFlexItemBox(style, ancestors, gi.item, borderBox, paint); err != nil {
			return 0, err
		}
	}

	templateHeight := spanExtent(rowHeights, gap, 0, rowCount)
	totalHeight := templateHeight

	if len(unplaced) > 0 {
		below := backend.Rect{
			X: contentBox.X,
			Y: utils.SatAdd(contentBox.Y, templateHeight),
			W: contentBox.W,
			H: utils.MaxPxs(utils.SatSub(contentBox.H, templateHeight), 0),
		}
		flowHeight, err := e.layoutFlowChildren(unplaced, style, ancestors, below, paint)
		if err != nil {
			return 0, err
		}
		totalHeight = utils.SatAdd(totalHeight, flowHeight)
	}
	return utils.MaxPxs(totalHeight, 0), nil
}

// extractGridAreas turns the normalized template into named
// rectangles. A name occupying a non-rectangular region is dropped.
func extractGridAreas(template [][]string) map[string]gridArea {
	if len(template) == 0 || len(template[0]) == 0 {
		return nil
	}
	areas := make(map[string]gridArea)
	broken := make(map[string]bool)
	for r, row := range template {
		for c, name := range row {
			if name == "." || name == "" {
				continue
			}
			a, seen := areas[name]
			if !seen {
				areas[name] = gridArea{row: r, col: c, rowSpan: 1, colSpan: 1}
				continue
			}
			if r >= a.row+a.rowSpan {
				a.rowSpan = r - a.row + 1
			}
			if c < a.col || c >= a.col+a.colSpan {
				if c < a.col {
					broken[name] = true
					continue
				}
				a.colSpan = c - a.col + 1
			}
			areas[name] = a
		}
	}
	for name, a := range areas {
		if broken[name] || !areaIsRectangular(template, name, a) {
			delete(areas, name)
		}
	}
	return areas
}

func areaIsRectangular(template [][]string, name string, a gridArea) bool {
	count := 0
	for r, row := range template {
		for c, cell := range row {
			if cell != name {
				continue
			}
			if r < a.row || r >= a.row+a.rowSpan || c < a.col || c >= a.col+a.colSpan {
				return false
			}
			count++
		}
	}
	return count == a.rowSpan*a.colSpan
}

// resolveGridTracks pads or truncates the declared tracks to the
// template column count, 1fr for the missing ones.
func resolveGridTracks(declared []pr.GridTrack, colCount int) []pr.GridTrack {
	tracks := make([]pr.GridTrack, colCount)
	for i := range tracks {
		if i < len(declared) {
			tracks[i] = declared[i]
		} else {
			tracks[i] = pr.GridTrack{Kind: pr.TrackFr, Value: 1}
		}
	}
	return tracks
}

func (e *engine) resolveGridColumnWidths(tracks []pr.GridTrack, placed []gridItem,
	ancestors *[]*tree.Element, available, gap Px) ([]Px, error) {

	available = utils.MaxPxs(available, 0)
	widths := make([]Px, len(tracks))

	// Content tracks take the widest single-column item anchored to
	// them; spanning items do not constrain track sizing.
	for i, track := range tracks {
		switch track.Kind {
		case pr.TrackFixed:
			widths[i] = utils.MinPxs(utils.SatPx(float64(track.Value)), available)
		case pr.TrackContent:
			for _, gi := range placed {
				if gi.area.col != i || gi.area.colSpan != 1 {
					continue
				}
				w, err := e.measureElementMaxContentWidth(gi.item.element, gi.item.style, ancestors, available)
				if err != nil {
					return nil, err
				}
				outer := utils.SatAdd(gi.item.margin.left, utils.SatAdd(w, gi.item.margin.right))
				widths[i] = utils.MaxPxs(widths[i], outer)
			}
		}
	}

	used := utils.SatMul(gap, Px(utils.MaxInt(len(tracks)-1, 0)))
	for i, track := range tracks {
		if track.Kind != pr.TrackFr {
			used = utils.SatAdd(used, widths[i])
		}
	}
	remaining := utils.MaxPxs(utils.SatSub(available, used), 0)

	var totalFr float64
	lastFr := -1
	for i, track := range tracks {
		if track.Kind == pr.TrackFr && track.Value > 0 {
			totalFr += float64(track.Value)
			lastFr = i
		}
	}
	if totalFr > 0 {
		var distributed Px
		for i, track := range tracks {
			if track.Kind != pr.TrackFr || track.Value <= 0 {
				continue
			}
			var w Px
			if i == lastFr {
				w = utils.SatSub(remaining, distributed)
			} else {
				w = utils.SatPx(float64(remaining) * float64(track.Value) / totalFr)
			}
			distributed = utils.SatAdd(distributed, w)
			widths[i] = utils.MaxPxs(w, 0)
		}
	}
	return widths, nil
}

// trackOffsets returns the start offset of each track given the
// resolved sizes and the gap between consecutive tracks.
func trackOffsets(sizes []Px, gap Px) []Px {
	offsets := make([]Px, len(sizes))
	var cursor Px
	for i, s := range sizes {
		offsets[i] = cursor
		cursor = utils.SatAdd(cursor, utils.SatAdd(utils.MaxPxs(s, 0), gap))
	}
	return offsets
}

// spanExtent is the total extent of count consecutive tracks,
// including the gaps between them.
func spanExtent(sizes []Px, gap Px, start, count int) Px {
	var total Px
	for i := 0; i < count; i++ {
		idx := start + i
		if idx < 0 || idx >= len(sizes) {
			break
		}
		if i > 0 {
			total = utils.SatAdd(total, gap)
		}
		total = utils.SatAdd(total, utils.MaxPxs(sizes[idx], 0))
	}
	return total
}

func gridHasTextChildren(el *tree.Element) bool {
	for _, child := range el.Children {
		if child.Element == nil && strings.TrimSpace(child.Text) != "" {
			return true
		}
	}
	return false
}
