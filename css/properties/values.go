// Package properties defines the resolved CSS value types used by the
// cascade and the layout engine, and the parsers turning declaration
// strings into them.
//
// See https://www.w3.org/TR/css-values-3/
package properties

import "github.com/minkbrowser/mink/utils"

type Px = utils.Px

// LengthKind discriminates the Length variants.
type LengthKind uint8

const (
	LengthAuto LengthKind = iota
	LengthPx
	LengthPercent
)

// Length is a declared dimension, kept unresolved until layout knows
// the base for percentages.
type Length struct {
	Value float32
	Kind  LengthKind
}

func PxLength(v Px) Length      { return Length{Kind: LengthPx, Value: float32(v)} }
func Percent(v float32) Length  { return Length{Kind: LengthPercent, Value: v} }
func Auto() Length              { return Length{Kind: LengthAuto} }
func (l Length) IsAuto() bool   { return l.Kind == LengthAuto }
func (l Length) IsSet() bool    { return l.Kind != LengthAuto }

// Resolve returns the pixel value of the length against the given
// percentage base. Auto resolves to 0.
func (l Length) Resolve(base Px) Px {
	switch l.Kind {
	case LengthPx:
		return utils.SatPx(float64(l.Value))
	case LengthPercent:
		return utils.SatPx(float64(l.Value) * float64(base) / 100)
	default:
		return 0
	}
}

// ResolveOr is Resolve with an explicit fallback for auto.
func (l Length) ResolveOr(base, fallback Px) Px {
	if l.IsAuto() {
		return fallback
	}
	return l.Resolve(base)
}

// Edges groups the four sides of a box property.
type Edges struct {
	Top, Right, Bottom, Left Length
}

func UniformEdges(l Length) Edges { return Edges{l, l, l, l} }

// Color is a straight alpha RGBA color.
type Color struct {
	R, G, B, A uint8
}

var (
	Transparent = Color{}
	Black       = Color{A: 255}
	White       = Color{255, 255, 255, 255}
)

func (c Color) IsTransparent() bool { return c.A == 0 }

// Mix interpolates between c and other, t=0 giving c.
func (c Color) Mix(other Color, t float32) Color {
	lerp := func(a, b uint8) uint8 {
		return uint8(float32(a) + (float32(b)-float32(a))*t)
	}
	return Color{lerp(c.R, other.R), lerp(c.G, other.G), lerp(c.B, other.B), lerp(c.A, other.A)}
}

type Display uint8

const (
	Inline Display = iota
	Block
	InlineBlock
	Flex
	Grid
	Table
	TableRow
	TableCell
	None
)

// IsBlockLevel reports whether the display establishes a block level
// box in its parent's flow.
func (d Display) IsBlockLevel() bool {
	switch d {
	case Block, Flex, Grid, Table:
		return true
	}
	return false
}

type Position uint8

const (
	Static Position = iota
	Relative
	Absolute
	Fixed
)

func (p Position) IsPositioned() bool { return p != Static }

// OutOfFlow reports whether the box is removed from normal flow.
func (p Position) OutOfFlow() bool { return p == Absolute || p == Fixed }

type Floating uint8

const (
	FloatNone Floating = iota
	FloatLeft
	FloatRight
)

type Clear uint8

const (
	ClearNone Clear = iota
	ClearLeft
	ClearRight
	ClearBoth
)

type TextAlign uint8

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

type TextTransform uint8

const (
	TransformNone TextTransform = iota
	Uppercase
	Lowercase
	Capitalize
)

type WhiteSpace uint8

const (
	WhiteSpaceNormal WhiteSpace = iota
	Nowrap
)

type FlexDirection uint8

const (
	Row FlexDirection = iota
	Column
)

type FlexWrap uint8

const (
	NoWrap FlexWrap = iota
	Wrap
)

type JustifyContent uint8

const (
	JustifyStart JustifyContent = iota
	JustifyCenter
	JustifyEnd
	SpaceBetween
)

type AlignItems uint8

const (
	AlignStart AlignItems = iota
	AlignItemsCenter
	AlignItemsEnd
)

type BorderStyle uint8

const (
	BorderNone BorderStyle = iota
	BorderSolid
)

// GradientStop is one color stop of a linear gradient; Offset is in
// [0,1], or negative when the stylesheet left it implicit.
type GradientStop struct {
	Color  Color
	Offset float32
}

// LinearGradient is a background-image gradient. Angle follows the
// CSS convention, degrees clockwise from pointing up.
type LinearGradient struct {
	Stops []GradientStop
	Angle float32
}

type TrackKind uint8

const (
	TrackFixed TrackKind = iota
	TrackFr
	TrackContent
)

// GridTrack is one entry of grid-template-columns.
type GridTrack struct {
	Kind  TrackKind
	Value float32 // px for TrackFixed, weight for TrackFr
}
