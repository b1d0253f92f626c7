package tree

import (
	"strconv"
	"strings"

	"github.com/minkbrowser/mink/css/parser"
	pr "github.com/minkbrowser/mink/css/properties"
	"github.com/minkbrowser/mink/css/selector"
	"github.com/minkbrowser/mink/logger"
	"github.com/minkbrowser/mink/utils"
)

type Px = utils.Px

// Style is the computed style of one element: every property the
// layout engine reads, fully cascaded. Never mutated once built.
type Style struct {
	Display  pr.Display
	Position pr.Position
	Float    pr.Floating
	Clear    pr.Clear
	Visible  bool

	Top, Right, Bottom, Left pr.Length

	Opacity            float32
	Color              pr.Color
	BackgroundColor    pr.Color
	BackgroundGradient *pr.LinearGradient

	FontFamily    string
	FontSize      Px
	LetterSpacing Px
	Bold          bool
	Underline     bool
	TextAlign     pr.TextAlign
	TextTransform pr.TextTransform
	WhiteSpace    pr.WhiteSpace
	LineHeight    Px // 0 means normal

	Margin       pr.Edges
	Padding      pr.Edges
	BorderWidth  pr.Edges
	BorderStyle  pr.BorderStyle
	BorderColor  pr.Color
	BorderRadius Px

	Width, MinWidth, MaxWidth    pr.Length
	Height, MinHeight, MaxHeight pr.Length

	JustifyContent pr.JustifyContent
	AlignItems     pr.AlignItems
	FlexDirection  pr.FlexDirection
	FlexWrap       pr.FlexWrap
	FlexGrow       float32
	FlexShrink     float32
	FlexBasis      pr.Length
	Gap            Px

	GridTemplateAreas   [][]string
	GridTemplateColumns []pr.GridTrack
	GridArea            string

	Custom map[string]string
}

// InitialStyle is the style of an element with no parent and no
// matching declarations.
func InitialStyle(display pr.Display) *Style {
	return &Style{
		Display:    display,
		Visible:    true,
		Opacity:    1,
		Color:      pr.Black,
		FontFamily: "sans-serif",
		FontSize:   16,
		TextAlign:  pr.AlignLeft,
		Top:        pr.Auto(), Right: pr.Auto(), Bottom: pr.Auto(), Left: pr.Auto(),
		Margin:  pr.UniformEdges(pr.PxLength(0)),
		Padding: pr.UniformEdges(pr.PxLength(0)),
		BorderWidth: pr.UniformEdges(pr.PxLength(0)),
		BorderColor: pr.Black,
		Width:       pr.Auto(), MinWidth: pr.Auto(), MaxWidth: pr.Auto(),
		Height: pr.Auto(), MinHeight: pr.Auto(), MaxHeight: pr.Auto(),
		FlexShrink: 1,
		FlexBasis:  pr.Auto(),
	}
}

// inheritedFrom resets box properties and carries over the inherited
// ones (text and font properties, plus custom properties).
func inheritedFrom(parent *Style, display pr.Display) *Style {
	out := InitialStyle(display)
	if parent == nil {
		return out
	}
	out.Color = parent.Color
	out.FontFamily = parent.FontFamily
	out.FontSize = parent.FontSize
	out.LetterSpacing = parent.LetterSpacing
	out.Bold = parent.Bold
	out.Underline = parent.Underline
	out.TextAlign = parent.TextAlign
	out.TextTransform = parent.TextTransform
	out.WhiteSpace = parent.WhiteSpace
	out.LineHeight = parent.LineHeight
	out.BorderColor = parent.Color
	out.Custom = parent.Custom
	return out
}

// Priority is the cascade weight of one declaration.
type Priority struct {
	Spec  selector.Specificity
	Order int
}

func (p Priority) Less(other Priority) bool {
	if p.Spec != other.Spec {
		return p.Spec.Less(other.Spec)
	}
	return p.Order < other.Order
}

// GreaterOrEqual reports whether a new declaration at priority p may
// replace one stored at old ("last write at equal or higher wins").
func (p Priority) GreaterOrEqual(old Priority) bool { return !p.Less(old) }

var inlinePriority = Priority{
	Spec:  selector.Specificity{Inline: 1},
	Order: int(^uint(0) >> 1),
}

// builder accumulates declarations into a Style, keeping per property
// slots so that only equal-or-higher cascade priorities overwrite.
type builder struct {
	style    *Style
	slots    map[string]Priority
	declared map[string]cascadedValue // custom properties
}

func newBuilder(parent *Style, display pr.Display) *builder {
	return &builder{
		style:    inheritedFrom(parent, display),
		slots:    map[string]Priority{},
		declared: map[string]cascadedValue{},
	}
}

type cascadedValue struct {
	value    string
	priority Priority
}

// raise reports whether the slot for the property accepts the given
// priority, recording it if so.
func (b *builder) raise(property string, p Priority) bool {
	if old, in := b.slots[property]; in && !p.GreaterOrEqual(old) {
		return false
	}
	b.slots[property] = p
	return true
}

// applyCustomDeclaration records a --name declaration at a priority.
func (b *builder) applyCustomDeclaration(name, value string, p Priority) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	if old, in := b.declared[name]; in && !p.GreaterOrEqual(old.priority) {
		return
	}
	b.declared[name] = cascadedValue{value: strings.TrimSpace(value), priority: p}
}

// finalizeCustom merges inherited and declared custom properties into
// the style's map.
func (b *builder) finalizeCustom() {
	if len(b.declared) == 0 {
		return
	}
	merged := make(map[string]string, len(b.style.Custom)+len(b.declared))
	for k, v := range b.style.Custom {
		merged[k] = v
	}
	for k, v := range b.declared {
		merged[k] = v.value
	}
	b.style.Custom = merged
}

// apply resolves var() references in the value and dispatches it to
// the matching property handler. Unknown properties and unparseable
// values are dropped with a warning.
func (b *builder) apply(decl parser.Declaration, p Priority) {
	value, ok := resolveVars(decl.Value, b.style.Custom)
	if !ok {
		logger.WarningLogger.Printf("dropping %s: unresolvable var()", decl.Name)
		return
	}
	value = strings.TrimSpace(value)
	lower := strings.ToLower(value)
	s := b.style
	fs := s.FontSize

	length := func() (pr.Length, bool) { return pr.ParseLength(lower, fs) }
	setLength := func(dst *pr.Length) {
		if l, ok := length(); ok {
			if b.raise(decl.Name, p) {
				*dst = l
			}
		} else {
			b.warn(decl, value)
		}
	}

	switch decl.Name {
	case "display":
		d, ok := parseDisplay(lower)
		if !ok {
			b.warn(decl, value)
			return
		}
		if b.raise(decl.Name, p) {
			s.Display = d
		}
	case "visibility":
		switch lower {
		case "visible", "hidden":
			if b.raise(decl.Name, p) {
				s.Visible = lower == "visible"
			}
		default:
			b.warn(decl, value)
		}
	case "position":
		pos, ok := map[string]pr.Position{
			"static": pr.Static, "relative": pr.Relative,
			"absolute": pr.Absolute, "fixed": pr.Fixed,
		}[lower]
		if !ok {
			b.warn(decl, value)
			return
		}
		if b.raise(decl.Name, p) {
			s.Position = pos
		}
	case "float":
		f, ok := map[string]pr.Floating{
			"none": pr.FloatNone, "left": pr.FloatLeft, "right": pr.FloatRight,
		}[lower]
		if !ok {
			b.warn(decl, value)
			return
		}
		if b.raise(decl.Name, p) {
			s.Float = f
		}
	case "clear":
		c, ok := map[string]pr.Clear{
			"none": pr.ClearNone, "left": pr.ClearLeft,
			"right": pr.ClearRight, "both": pr.ClearBoth,
		}[lower]
		if !ok {
			b.warn(decl, value)
			return
		}
		if b.raise(decl.Name, p) {
			s.Clear = c
		}
	case "top":
		setLength(&s.Top)
	case "right":
		setLength(&s.Right)
	case "bottom":
		setLength(&s.Bottom)
	case "left":
		setLength(&s.Left)
	case "opacity":
		v, err := strconv.ParseFloat(lower, 32)
		if err != nil || v < 0 || v > 1 {
			b.warn(decl, value)
			return
		}
		if b.raise(decl.Name, p) {
			s.Opacity = float32(v)
		}
	case "color":
		b.applyColor(decl, value, p, &s.Color)
	case "background-color":
		b.applyColor(decl, value, p, &s.BackgroundColor)
	case "background", "background-image":
		if grad, ok := pr.ParseLinearGradient(lower); ok {
			if b.raise("background-image", p) {
				s.BackgroundGradient = grad
			}
			return
		}
		if decl.Name == "background" {
			b.applyColor(decl, value, p, &s.BackgroundColor)
			return
		}
		b.warn(decl, value)
	case "font-family":
		if b.raise(decl.Name, p) {
			s.FontFamily = strings.Trim(strings.TrimSpace(pr.SplitTopLevel(value, ',')[0]), `"'`)
		}
	case "font-size":
		if px, ok := pr.ParsePx(lower, fs); ok && px >= 0 {
			if b.raise(decl.Name, p) {
				s.FontSize = px
			}
		} else {
			b.warn(decl, value)
		}
	case "letter-spacing":
		if lower == "normal" {
			if b.raise(decl.Name, p) {
				s.LetterSpacing = 0
			}
			return
		}
		if px, ok := pr.ParsePx(lower, fs); ok {
			if b.raise(decl.Name, p) {
				s.LetterSpacing = px
			}
		} else {
			b.warn(decl, value)
		}
	case "font-weight":
		bold, ok := parseFontWeight(lower)
		if !ok {
			b.warn(decl, value)
			return
		}
		if b.raise(decl.Name, p) {
			s.Bold = bold
		}
	case "text-decoration", "text-decoration-line":
		switch lower {
		case "underline":
			if b.raise("text-decoration", p) {
				s.Underline = true
			}
		case "none":
			if b.raise("text-decoration", p) {
				s.Underline = false
			}
		default:
			b.warn(decl, value)
		}
	case "text-align":
		a, ok := map[string]pr.TextAlign{
			"left": pr.AlignLeft, "center": pr.AlignCenter, "right": pr.AlignRight,
		}[lower]
		if !ok {
			b.warn(decl, value)
			return
		}
		if b.raise(decl.Name, p) {
			s.TextAlign = a
		}
	case "text-transform":
		tt, ok := map[string]pr.TextTransform{
			"none": pr.TransformNone, "uppercase": pr.Uppercase,
			"lowercase": pr.Lowercase, "capitalize": pr.Capitalize,
		}[lower]
		if !ok {
			b.warn(decl, value)
			return
		}
		if b.raise(decl.Name, p) {
			s.TextTransform = tt
		}
	case "white-space":
		switch lower {
		case "normal":
			if b.raise(decl.Name, p) {
				s.WhiteSpace = pr.WhiteSpaceNormal
			}
		case "nowrap":
			if b.raise(decl.Name, p) {
				s.WhiteSpace = pr.Nowrap
			}
		default:
			b.warn(decl, value)
		}
	case "line-height":
		if lh, ok := parseLineHeight(lower, fs); ok {
			if b.raise(decl.Name, p) {
				s.LineHeight = lh
			}
		} else {
			b.warn(decl, value)
		}
	case "margin":
		if e, ok := pr.ParseEdges(lower, fs); ok {
			b.applyEdges("margin", e, p, &s.Margin)
		} else {
			b.warn(decl, value)
		}
	case "margin-top":
		b.applyEdge("margin-top", lower, fs, p, &s.Margin.Top, decl, value)
	case "margin-right":
		b.applyEdge("margin-right", lower, fs, p, &s.Margin.Right, decl, value)
	case "margin-bottom":
		b.applyEdge("margin-bottom", lower, fs, p, &s.Margin.Bottom, decl, value)
	case "margin-left":
		b.applyEdge("margin-left", lower, fs, p, &s.Margin.Left, decl, value)
	case "padding":
		if e, ok := pr.ParseEdges(lower, fs); ok && noAuto(e) {
			b.applyEdges("padding", e, p, &s.Padding)
		} else {
			b.warn(decl, value)
		}
	case "padding-top":
		b.applyEdge("padding-top", lower, fs, p, &s.Padding.Top, decl, value)
	case "padding-right":
		b.applyEdge("padding-right", lower, fs, p, &s.Padding.Right, decl, value)
	case "padding-bottom":
		b.applyEdge("padding-bottom", lower, fs, p, &s.Padding.Bottom, decl, value)
	case "padding-left":
		b.applyEdge("padding-left", lower, fs, p, &s.Padding.Left, decl, value)
	case "border":
		b.applyBorderShorthand(decl, lower, value, p)
	case "border-width":
		if px, ok := pr.ParsePx(lower, fs); ok && px >= 0 {
			b.applyEdges("border-width", pr.UniformEdges(pr.PxLength(px)), p, &s.BorderWidth)
		} else {
			b.warn(decl, value)
		}
	case "border-style":
		switch lower {
		case "none", "solid":
			if b.raise(decl.Name, p) {
				if lower == "solid" {
					s.BorderStyle = pr.BorderSolid
				} else {
					s.BorderStyle = pr.BorderNone
				}
			}
		default:
			b.warn(decl, value)
		}
	case "border-color":
		b.applyColor(decl, value, p, &s.BorderColor)
	case "border-radius":
		if px, ok := pr.ParsePx(lower, fs); ok && px >= 0 {
			if b.raise(decl.Name, p) {
				s.BorderRadius = px
			}
		} else {
			b.warn(decl, value)
		}
	case "width":
		setLength(&s.Width)
	case "min-width":
		setLength(&s.MinWidth)
	case "max-width":
		setLength(&s.MaxWidth)
	case "height":
		setLength(&s.Height)
	case "min-height":
		setLength(&s.MinHeight)
	case "max-height":
		setLength(&s.MaxHeight)
	case "flex-direction":
		switch lower {
		case "row":
			if b.raise(decl.Name, p) {
				s.FlexDirection = pr.Row
			}
		case "column":
			if b.raise(decl.Name, p) {
				s.FlexDirection = pr.Column
			}
		default:
			b.warn(decl, value)
		}
	case "flex-wrap":
		switch lower {
		case "nowrap":
			if b.raise(decl.Name, p) {
				s.FlexWrap = pr.NoWrap
			}
		case "wrap":
			if b.raise(decl.Name, p) {
				s.FlexWrap = pr.Wrap
			}
		default:
			b.warn(decl, value)
		}
	case "flex-grow":
		b.applyFlexFactor(decl, lower, value, p, &s.FlexGrow)
	case "flex-shrink":
		b.applyFlexFactor(decl, lower, value, p, &s.FlexShrink)
	case "flex-basis":
		setLength(&s.FlexBasis)
	case "flex":
		b.applyFlexShorthand(decl, lower, value, p)
	case "justify-content":
		jc, ok := map[string]pr.JustifyContent{
			"flex-start": pr.JustifyStart, "start": pr.JustifyStart,
			"center": pr.JustifyCenter,
			"flex-end": pr.JustifyEnd, "end": pr.JustifyEnd,
			"space-between": pr.SpaceBetween,
		}[lower]
		if !ok {
			b.warn(decl, value)
			return
		}
		if b.raise(decl.Name, p) {
			s.JustifyContent = jc
		}
	case "align-items":
		ai, ok := map[string]pr.AlignItems{
			"flex-start": pr.AlignStart, "start": pr.AlignStart,
			"center":   pr.AlignItemsCenter,
			"flex-end": pr.AlignItemsEnd, "end": pr.AlignItemsEnd,
		}[lower]
		if !ok {
			b.warn(decl, value)
			return
		}
		if b.raise(decl.Name, p) {
			s.AlignItems = ai
		}
	case "gap", "column-gap", "row-gap":
		if px, ok := pr.ParsePx(lower, fs); ok && px >= 0 {
			if b.raise("gap", p) {
				s.Gap = px
			}
		} else {
			b.warn(decl, value)
		}
	case "grid-template-areas":
		if areas, ok := pr.ParseGridAreas(value); ok {
			if b.raise(decl.Name, p) {
				s.GridTemplateAreas = areas
			}
		} else {
			b.warn(decl, value)
		}
	case "grid-template-columns":
		if tracks, ok := pr.ParseGridTracks(lower, fs); ok {
			if b.raise(decl.Name, p) {
				s.GridTemplateColumns = tracks
			}
		} else {
			b.warn(decl, value)
		}
	case "grid-area":
		if b.raise(decl.Name, p) {
			s.GridArea = strings.TrimSpace(lower)
		}
	default:
		logger.WarningLogger.Printf("unknown property %s", decl.Name)
	}
}

func (b *builder) warn(decl parser.Declaration, value string) {
	logger.WarningLogger.Printf("dropping %s: unsupported value %q", decl.Name, value)
}

func (b *builder) applyColor(decl parser.Declaration, value string, p Priority, dst *pr.Color) {
	c, ok := pr.ParseColor(value)
	if !ok {
		b.warn(decl, value)
		return
	}
	if b.raise(decl.Name, p) {
		*dst = c
	}
}

func (b *builder) applyEdges(prefix string, e pr.Edges, p Priority, dst *pr.Edges) {
	if b.raise(prefix+"-top", p) {
		dst.Top = e.Top
	}
	if b.raise(prefix+"-right", p) {
		dst.Right = e.Right
	}
	if b.raise(prefix+"-bottom", p) {
		dst.Bottom = e.Bottom
	}
	if b.raise(prefix+"-left", p) {
		dst.Left = e.Left
	}
}

func (b *builder) applyEdge(slot, lower string, fs Px, p Priority, dst *pr.Length, decl parser.Declaration, value string) {
	l, ok := pr.ParseLength(lower, fs)
	if !ok || (strings.HasPrefix(slot, "padding") && l.IsAuto()) {
		b.warn(decl, value)
		return
	}
	if b.raise(slot, p) {
		*dst = l
	}
}

// applyBorderShorthand accepts "Wpx [solid|none] [color]" subsets.
func (b *builder) applyBorderShorthand(decl parser.Declaration, lower, value string, p Priority) {
	s := b.style
	width := Px(3) // medium
	style := pr.BorderSolid
	color := s.Color
	seen := false
	for _, f := range strings.Fields(lower) {
		switch {
		case f == "solid":
			style = pr.BorderSolid
			seen = true
		case f == "none":
			style = pr.BorderNone
			width = 0
			seen = true
		default:
			if px, ok := pr.ParsePx(f, s.FontSize); ok && px >= 0 {
				width = px
				seen = true
			} else if c, ok := pr.ParseColor(f); ok {
				color = c
				seen = true
			} else {
				b.warn(decl, value)
				return
			}
		}
	}
	if !seen {
		b.warn(decl, value)
		return
	}
	b.applyEdges("border-width", pr.UniformEdges(pr.PxLength(width)), p, &s.BorderWidth)
	if b.raise("border-style", p) {
		s.BorderStyle = style
	}
	if b.raise("border-color", p) {
		s.BorderColor = color
	}
}

func (b *builder) applyFlexFactor(decl parser.Declaration, lower, value string, p Priority, dst *float32) {
	v, err := strconv.ParseFloat(lower, 32)
	if err != nil || v < 0 {
		b.warn(decl, value)
		return
	}
	if b.raise(decl.Name, p) {
		*dst = float32(v)
	}
}

// applyFlexShorthand accepts "flex: grow [shrink] [basis]".
func (b *builder) applyFlexShorthand(decl parser.Declaration, lower, value string, p Priority) {
	s := b.style
	fields := strings.Fields(lower)
	if len(fields) == 0 || len(fields) > 3 {
		b.warn(decl, value)
		return
	}
	if lower == "none" {
		fields = []string{"0", "0", "auto"}
	}
	grow, err := strconv.ParseFloat(fields[0], 32)
	if err != nil || grow < 0 {
		b.warn(decl, value)
		return
	}
	shrink := 1.0
	basis := pr.PxLength(0)
	rest := fields[1:]
	if len(rest) > 0 {
		if v, err := strconv.ParseFloat(rest[0], 32); err == nil {
			shrink = v
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		l, ok := pr.ParseLength(rest[0], s.FontSize)
		if !ok {
			b.warn(decl, value)
			return
		}
		basis = l
	}
	if b.raise("flex-grow", p) {
		s.FlexGrow = float32(grow)
	}
	if b.raise("flex-shrink", p) {
		s.FlexShrink = float32(shrink)
	}
	if b.raise("flex-basis", p) {
		s.FlexBasis = basis
	}
}

func noAuto(e pr.Edges) bool {
	return !e.Top.IsAuto() && !e.Right.IsAuto() && !e.Bottom.IsAuto() && !e.Left.IsAuto()
}

func parseDisplay(s string) (pr.Display, bool) {
	d, ok := map[string]pr.Display{
		"inline":       pr.Inline,
		"block":        pr.Block,
		"inline-block": pr.InlineBlock,
		"flex":         pr.Flex,
		"grid":         pr.Grid,
		"table":        pr.Table,
		"table-row":    pr.TableRow,
		"table-cell":   pr.TableCell,
		"none":         pr.None,
	}[s]
	return d, ok
}

func parseFontWeight(s string) (bold, ok bool) {
	switch s {
	case "bold", "bolder":
		return true, true
	case "normal", "lighter":
		return false, true
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 1 && v <= 1000 {
		return v >= 600, true
	}
	return false, false
}

// parseLineHeight handles lengths and the bare number multiplier.
func parseLineHeight(s string, fontSize Px) (Px, bool) {
	if s == "normal" {
		return 0, true
	}
	if v, err := strconv.ParseFloat(s, 32); err == nil && v >= 0 {
		return utils.SatPx(v * float64(fontSize)), true
	}
	px, ok := pr.ParsePx(s, fontSize)
	if !ok || px < 0 {
		return 0, false
	}
	return px, true
}
