package layout

import (
	"fmt"

	"github.com/minkbrowser/mink/backend"
	pr "github.com/minkbrowser/mink/css/properties"
	"github.com/minkbrowser/mink/html/tree"
	"github.com/minkbrowser/mink/utils"
)

// floatPlacement is one placed float; subsequent flow in the same
// block formatting context must clear its rectangle.
type floatPlacement struct {
	side pr.Floating
	rect backend.Rect
}

type floatClearance struct {
	leftOffset  Px
	rightOffset Px
	nextY       Px
	hasNextY    bool
}

// flowAreaAtY returns the widest horizontal band available at or
// after startY, advancing past floats that leave no room at all.
func flowAreaAtY(floats []floatPlacement, containing backend.Rect, startY Px) (backend.Rect, Px) {
	y := startY
	for {
		clearance := clearanceAtY(floats, containing, y)
		availableWidth := utils.MaxPxs(
			utils.SatSub(containing.W, utils.SatAdd(clearance.leftOffset, clearance.rightOffset)), 0)

		if availableWidth > 0 || !clearance.hasNextY {
			return backend.Rect{
				X: utils.SatAdd(containing.X, clearance.leftOffset),
				Y: containing.Y,
				W: availableWidth,
				H: containing.H,
			}, y
		}
		if clearance.nextY <= y {
			return containing, y
		}
		y = clearance.nextY
	}
}

// flowAreaAtExactY is flowAreaAtY without the downward search.
func flowAreaAtExactY(floats []floatPlacement, containing backend.Rect, y Px) backend.Rect {
	clearance := clearanceAtY(floats, containing, y)
	availableWidth := utils.MaxPxs(
		utils.SatSub(containing.W, utils.SatAdd(clearance.leftOffset, clearance.rightOffset)), 0)
	return backend.Rect{
		X: utils.SatAdd(containing.X, clearance.leftOffset),
		Y: containing.Y,
		W: availableWidth,
		H: containing.H,
	}
}

// flowAreaForWidth searches downward for the first y where at least
// requiredOuterWidth is free of floats.
func flowAreaForWidth(floats []floatPlacement, containing backend.Rect, startY, requiredOuterWidth Px) (backend.Rect, Px) {
	requiredOuterWidth = utils.MaxPxs(requiredOuterWidth, 1)
	y := startY
	for {
		clearance := clearanceAtY(floats, containing, y)
		availableWidth := utils.MaxPxs(
			utils.SatSub(containing.W, utils.SatAdd(clearance.leftOffset, clearance.rightOffset)), 0)
		if availableWidth >= requiredOuterWidth {
			return backend.Rect{
				X: utils.SatAdd(containing.X, clearance.leftOffset),
				Y: containing.Y,
				W: availableWidth,
				H: containing.H,
			}, y
		}
		if !clearance.hasNextY || clearance.nextY <= y {
			return containing, y
		}
		y = clearance.nextY
	}
}

// clearedY returns the first y below every float the clear side
// requires to be passed.
func clearedY(floats []floatPlacement, clear pr.Clear) Px {
	var y Px
	for _, f := range floats {
		match := clear == pr.ClearBoth ||
			(clear == pr.ClearLeft && f.side == pr.FloatLeft) ||
			(clear == pr.ClearRight && f.side == pr.FloatRight)
		if match {
			y = utils.MaxPxs(y, rectBottom(f.rect))
		}
	}
	return y
}

// layoutFloat places a floating element greedily: at the current y
// if its outer width fits beside the active floats, otherwise at the
// next float boundary below.
func (e *engine) layoutFloat(el *tree.Element, style, parentStyle *tree.Style,
	ancestors *[]*tree.Element, containing backend.Rect, cursorY Px,
	floats []floatPlacement, paint bool) (floatPlacement, error) {

	side := style.Float
	if side != pr.FloatLeft && side != pr.FloatRight {
		return floatPlacement{}, fmt.Errorf("element %s is not floating", el.Tag())
	}

	margin := resolveEdges(style.Margin, containing.W)
	marginLeft := margin.left
	if style.Margin.Left.IsAuto() {
		marginLeft = 0
	}
	marginRight := margin.right
	if style.Margin.Right.IsAuto() {
		marginRight = 0
	}

	yOuter := cursorY
	for {
		clearance := clearanceAtY(floats, containing, yOuter)
		availableWidth := utils.MaxPxs(
			utils.SatSub(containing.W, utils.SatAdd(clearance.leftOffset, clearance.rightOffset)), 0)

		borderWidth, err := e.measureFloatBorderWidth(el, style, ancestors, availableWidth)
		if err != nil {
			return floatPlacement{}, err
		}
		outerWidth := utils.SatAdd(marginLeft, utils.SatAdd(borderWidth, marginRight))

		if !clearance.hasNextY || outerWidth <= availableWidth {
			var xOuter Px
			switch side {
			case pr.FloatLeft:
				xOuter = utils.SatAdd(containing.X, clearance.leftOffset)
			case pr.FloatRight:
				xOuter = utils.SatSub(utils.SatSub(rectRight(containing), clearance.rightOffset), outerWidth)
			}
			return e.placeFloat(el, style, parentStyle, ancestors, side, xOuter, yOuter, outerWidth, containing.H, paint)
		}
		if clearance.nextY <= yOuter {
			break
		}
		yOuter = clearance.nextY
	}

	// no band fits; span the full containing width
	borderWidth, err := e.measureFloatBorderWidth(el, style, ancestors, utils.MaxPxs(containing.W, 0))
	if err != nil {
		return floatPlacement{}, err
	}
	outerWidth := utils.SatAdd(marginLeft, utils.SatAdd(borderWidth, marginRight))
	xOuter := containing.X
	if side == pr.FloatRight {
		xOuter = utils.SatSub(rectRight(containing), outerWidth)
	}
	return e.placeFloat(el, style, parentStyle, ancestors, side, xOuter, yOuter, outerWidth, containing.H, paint)
}

func (e *engine) placeFloat(el *tree.Element, style, parentStyle *tree.Style,
	ancestors *[]*tree.Element, side pr.Floating, xOuter, yOuter, outerWidth, height Px,
	paint bool) (floatPlacement, error) {

	floatCursorY := yOuter
	err := e.layoutBlockBox(el, style, parentStyle, ancestors,
		backend.Rect{X: xOuter, Y: yOuter, W: outerWidth, H: height},
		&floatCursorY, paint, nil)
	if err != nil {
		return floatPlacement{}, err
	}
	outerHeight := utils.MaxPxs(utils.SatSub(floatCursorY, yOuter), 0)
	return floatPlacement{
		side: side,
		rect: backend.Rect{X: xOuter, Y: yOuter, W: outerWidth, H: outerHeight},
	}, nil
}

// measureFloatBorderWidth shrinks a float to fit its content, the
// replaced intrinsic size or the declared width.
func (e *engine) measureFloatBorderWidth(el *tree.Element, style *tree.Style,
	ancestors *[]*tree.Element, maxWidth Px) (Px, error) {

	maxWidth = utils.MaxPxs(maxWidth, 0)
	margin := resolveEdges(style.Margin, maxWidth)

	var borderWidth Px
	switch {
	case isReplacedElement(el):
		s, err := e.measureReplacedOuterSize(el, style, maxWidth)
		if err != nil {
			return 0, err
		}
		borderWidth = utils.MaxPxs(utils.SatSub(s.w, utils.SatAdd(margin.left, margin.right)), 0)
	case style.Width.IsSet():
		borderWidth = utils.MaxPxs(style.Width.Resolve(maxWidth), 0)
	default:
		var err error
		borderWidth, err = e.measureElementMaxContentWidth(el, style, ancestors, maxWidth)
		if err != nil {
			return 0, err
		}
	}

	if style.MinWidth.IsSet() {
		borderWidth = utils.MaxPxs(borderWidth, utils.MaxPxs(style.MinWidth.Resolve(maxWidth), 0))
	}
	if style.MaxWidth.IsSet() {
		borderWidth = utils.MinPxs(borderWidth, utils.MaxPxs(style.MaxWidth.Resolve(maxWidth), 0))
	}
	return utils.MaxPxs(borderWidth, 0), nil
}

func clearanceAtY(floats []floatPlacement, containing backend.Rect, y Px) floatClearance {
	var clearance floatClearance
	for _, f := range floats {
		if !overlapsY(f.rect, y) {
			continue
		}
		bottom := rectBottom(f.rect)
		if !clearance.hasNextY || bottom < clearance.nextY {
			clearance.nextY = bottom
			clearance.hasNextY = true
		}
		switch f.side {
		case pr.FloatLeft:
			clearance.leftOffset = utils.MaxPxs(clearance.leftOffset,
				utils.SatSub(rectRight(f.rect), containing.X))
		case pr.FloatRight:
			clearance.rightOffset = utils.MaxPxs(clearance.rightOffset,
				utils.SatSub(rectRight(containing), f.rect.X))
		}
	}
	return clearance
}

func overlapsY(rect backend.Rect, y Px) bool {
	if rect.H <= 0 {
		return false
	}
	return y >= rect.Y && y < rectBottom(rect)
}
