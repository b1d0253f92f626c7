// Package backend defines the output boundary of layout: the display
// list, link hit regions, and the painter capability interface a
// rendering target implements.
package backend

import (
	"fmt"

	"github.com/xlab/treeprint"

	pr "github.com/minkbrowser/mink/css/properties"
	"github.com/minkbrowser/mink/text"
	"github.com/minkbrowser/mink/utils"
)

type Px = utils.Px

// Rect is an absolutely positioned pixel rectangle.
type Rect struct {
	X, Y, W, H Px
}

func (r Rect) Contains(x, y Px) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Command is one display list entry. Commands are pointers so that
// layout can patch a background's height once content height is
// known.
type Command interface {
	isCommand()
}

type DrawRect struct {
	Rect  Rect
	Color pr.Color
}

type DrawRoundedRect struct {
	Rect   Rect
	Radius Px
	Color  pr.Color
}

type DrawRoundedRectBorder struct {
	Rect   Rect
	Radius Px
	Width  Px
	Color  pr.Color
}

type DrawGradientRect struct {
	Rect     Rect
	Gradient pr.LinearGradient
}

type DrawText struct {
	X, Y      Px // baseline origin
	Text      string
	Style     text.Style
	Color     pr.Color
	Underline bool
}

type DrawImage struct {
	Rect Rect
	URL  string
}

type DrawSvg struct {
	Rect Rect
	XML  string
}

// PushOpacity opens a group composited at the given opacity; groups
// nest and always balance with a PopOpacity.
type PushOpacity struct {
	Opacity float32
}

type PopOpacity struct {
	Opacity float32
}

// PushFixed opens a viewport anchored subtree, excluded from
// document scrolling by the consumer. Always balanced by PopFixed.
type PushFixed struct{}

type PopFixed struct{}

func (*DrawRect) isCommand()              {}
func (*DrawRoundedRect) isCommand()       {}
func (*DrawRoundedRectBorder) isCommand() {}
func (*DrawGradientRect) isCommand()      {}
func (*DrawText) isCommand()              {}
func (*DrawImage) isCommand()             {}
func (*DrawSvg) isCommand()               {}
func (*PushOpacity) isCommand()           {}
func (*PopOpacity) isCommand()            {}
func (*PushFixed) isCommand()             {}
func (*PopFixed) isCommand()              {}

// DisplayList is the ordered paint output of a layout pass; later
// commands paint over earlier ones.
type DisplayList struct {
	Commands []Command
}

func (dl *DisplayList) Push(c Command) { dl.Commands = append(dl.Commands, c) }

// LinkHitRegion maps a rectangle to a link target. Fixed regions are
// viewport anchored and must not be offset by scrolling.
type LinkHitRegion struct {
	Href  string
	Rect  Rect
	Fixed bool
}

// Painter is the capability a rendering target implements to consume
// a display list.
type Painter interface {
	Clear(background pr.Color) error
	FillRect(r Rect, color pr.Color) error
	FillRoundedRect(r Rect, radius Px, color pr.Color) error
	StrokeRoundedRect(r Rect, radius, width Px, color pr.Color) error
	FillGradient(r Rect, gradient pr.LinearGradient) error
	DrawText(x, y Px, s string, style text.Style, color pr.Color, underline bool) error
	DrawImage(r Rect, url string) error
	DrawSVG(r Rect, xml string) error
	PushOpacity(opacity float32) error
	PopOpacity() error
	PushFixed() error
	PopFixed() error
	Flush() error
}

// Replay feeds a display list to a painter in order.
func Replay(dl *DisplayList, background pr.Color, p Painter) error {
	if err := p.Clear(background); err != nil {
		return err
	}
	for _, cmd := range dl.Commands {
		var err error
		switch c := cmd.(type) {
		case *DrawRect:
			err = p.FillRect(c.Rect, c.Color)
		case *DrawRoundedRect:
			err = p.FillRoundedRect(c.Rect, c.Radius, c.Color)
		case *DrawRoundedRectBorder:
			err = p.StrokeRoundedRect(c.Rect, c.Radius, c.Width, c.Color)
		case *DrawGradientRect:
			err = p.FillGradient(c.Rect, c.Gradient)
		case *DrawText:
			err = p.DrawText(c.X, c.Y, c.Text, c.Style, c.Color, c.Underline)
		case *DrawImage:
			err = p.DrawImage(c.Rect, c.URL)
		case *DrawSvg:
			err = p.DrawSVG(c.Rect, c.XML)
		case *PushOpacity:
			err = p.PushOpacity(c.Opacity)
		case *PopOpacity:
			err = p.PopOpacity()
		case *PushFixed:
			err = p.PushFixed()
		case *PopFixed:
			err = p.PopFixed()
		}
		if err != nil {
			return err
		}
	}
	return p.Flush()
}

// DumpDisplayList renders the list as an ASCII tree, opacity and
// fixed groups nested, for debugging and test failure output.
func DumpDisplayList(dl *DisplayList) string {
	root := treeprint.New()
	stack := []treeprint.Tree{root}
	top := func() treeprint.Tree { return stack[len(stack)-1] }
	for _, cmd := range dl.Commands {
		switch c := cmd.(type) {
		case *PushOpacity:
			stack = append(stack, top().AddBranch(fmt.Sprintf("opacity %.2f", c.Opacity)))
		case *PushFixed:
			stack = append(stack, top().AddBranch("fixed"))
		case *PopOpacity, *PopFixed:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case *DrawRect:
			top().AddNode(fmt.Sprintf("rect %v %v", c.Rect, c.Color))
		case *DrawRoundedRect:
			top().AddNode(fmt.Sprintf("rounded rect %v r=%d %v", c.Rect, c.Radius, c.Color))
		case *DrawRoundedRectBorder:
			top().AddNode(fmt.Sprintf("border %v r=%d w=%d %v", c.Rect, c.Radius, c.Width, c.Color))
		case *DrawGradientRect:
			top().AddNode(fmt.Sprintf("gradient %v angle=%.0f", c.Rect, c.Gradient.Angle))
		case *DrawText:
			top().AddNode(fmt.Sprintf("text (%d,%d) %q", c.X, c.Y, c.Text))
		case *DrawImage:
			top().AddNode(fmt.Sprintf("image %v %s", c.Rect, c.URL))
		case *DrawSvg:
			top().AddNode(fmt.Sprintf("svg %v", c.Rect))
		}
	}
	return root.String()
}
