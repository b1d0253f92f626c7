package layout

import (
	"strconv"
	"strings"

	"github.com/minkbrowser/mink/backend"
	pr "github.com/minkbrowser/mink/css/properties"
	"github.com/minkbrowser/mink/html/tree"
	"github.com/minkbrowser/mink/utils"
)

// Replaced content defaults when nothing gives an intrinsic size.
const (
	defaultReplacedWidth  = Px(300)
	defaultReplacedHeight = Px(150)
	inputTextInset        = Px(2)
	inputChromePadding    = Px(4)
	defaultInputChars     = 20
)

// measureReplacedOuterSize resolves the margin box of img, svg and
// input elements. Explicit CSS sizes win over width/height
// attributes, which win over the intrinsic size; when only one axis
// is given and the aspect ratio is known, the other follows it.
func (e *engine) measureReplacedOuterSize(el *tree.Element, style *tree.Style,
	maxWidth Px) (size, error) {

	maxWidth = utils.MaxPxs(maxWidth, 0)
	margin := resolveEdges(style.Margin, maxWidth)
	border := resolveEdges(style.BorderWidth, maxWidth)
	padding := resolveEdges(style.Padding, maxWidth)

	naturalW, naturalH, hasNatural, err := e.replacedNaturalSize(el, style)
	if err != nil {
		return size{}, err
	}

	w, hasW := replacedAxis(style.Width, el, "width", maxWidth)
	h, hasH := replacedAxis(style.Height, el, "height", 0)

	switch {
	case hasW && hasH:
	case hasW:
		h = naturalH
		if hasNatural && naturalW > 0 {
			h = utils.SatPx(float64(w) * float64(naturalH) / float64(naturalW))
		}
	case hasH:
		w = naturalW
		if hasNatural && naturalH > 0 {
			w = utils.SatPx(float64(h) * float64(naturalW) / float64(naturalH))
		}
	default:
		w, h = naturalW, naturalH
	}

	if style.MinWidth.IsSet() {
		w = utils.MaxPxs(w, utils.MaxPxs(style.MinWidth.Resolve(maxWidth), 0))
	}
	if style.MaxWidth.IsSet() {
		w = utils.MinPxs(w, utils.MaxPxs(style.MaxWidth.Resolve(maxWidth), 0))
	}
	w = utils.MaxPxs(w, 0)
	h = utils.MaxPxs(h, 0)

	extraW := utils.SatAdd(utils.SatAdd(margin.left, margin.right),
		utils.SatAdd(utils.SatAdd(border.left, border.right), utils.SatAdd(padding.left, padding.right)))
	extraH := utils.SatAdd(utils.SatAdd(margin.top, margin.bottom),
		utils.SatAdd(utils.SatAdd(border.top, border.bottom), utils.SatAdd(padding.top, padding.bottom)))

	// Shrink to the available width, preserving the ratio when the
	// content still has one.
	if maxWidth > 0 && utils.SatAdd(w, extraW) > maxWidth {
		shrunk := utils.MaxPxs(utils.SatSub(maxWidth, extraW), 0)
		if w > 0 && h > 0 {
			h = utils.SatPx(float64(shrunk) * float64(h) / float64(w))
		}
		w = shrunk
	}

	return size{w: utils.SatAdd(w, extraW), h: utils.SatAdd(h, extraH)}, nil
}

// replacedAxis resolves one axis from CSS, then from the HTML
// attribute of the same name.
func replacedAxis(l pr.Length, el *tree.Element, attr string, base Px) (Px, bool) {
	if l.IsSet() {
		return utils.MaxPxs(l.Resolve(base), 0), true
	}
	if v, ok := el.Attribute(attr); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			return utils.SatPx(float64(n)), true
		}
	}
	return 0, false
}

func (e *engine) replacedNaturalSize(el *tree.Element, style *tree.Style) (w, h Px, ok bool, err error) {
	switch el.Tag() {
	case "img":
		if e.images == nil {
			return 0, 0, false, nil
		}
		src, _ := el.Attribute("src")
		if src == "" {
			return 0, 0, false, nil
		}
		nw, nh, found := e.images.NaturalSize(src)
		return nw, nh, found, nil
	case "svg":
		if vb, found := el.Attribute("viewbox"); found {
			if w, h, ok := parseViewBoxSize(vb); ok {
				return w, h, true, nil
			}
		}
		return defaultReplacedWidth, defaultReplacedHeight, true, nil
	case "input":
		return e.inputNaturalSize(el, style)
	}
	return 0, 0, false, nil
}

// inputNaturalSize estimates a text control from its font: the size
// attribute in average glyphs for the width, one line plus chrome
// padding for the height. Buttons size to their label.
func (e *engine) inputNaturalSize(el *tree.Element, style *tree.Style) (Px, Px, bool, error) {
	font := e.textStyleFor(style)
	metrics, err := e.measurer.Metrics(font)
	if err != nil {
		return 0, 0, false, err
	}
	lineHeight := utils.SatAdd(metrics.Ascent, metrics.Descent)
	height := utils.SatAdd(lineHeight, utils.SatMul(inputChromePadding, 2))

	if isButtonInput(el) {
		labelWidth, err := e.measurer.Width(font, buttonLabel(el))
		if err != nil {
			return 0, 0, false, err
		}
		return utils.SatAdd(labelWidth, utils.SatMul(inputChromePadding, 4)), height, true, nil
	}

	chars := defaultInputChars
	if v, ok := el.Attribute("size"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			chars = n
		}
	}
	glyph, err := e.measurer.Width(font, "0")
	if err != nil {
		return 0, 0, false, err
	}
	width := utils.SatAdd(utils.SatMul(glyph, Px(chars)), utils.SatMul(inputChromePadding, 2))
	return width, height, true, nil
}

var buttonTypes = utils.NewSet("submit", "button", "reset")

func isButtonInput(el *tree.Element) bool {
	t, _ := el.Attribute("type")
	return buttonTypes.Has(strings.ToLower(strings.TrimSpace(t)))
}

func buttonLabel(el *tree.Element) string {
	if v, ok := el.Attribute("value"); ok && v != "" {
		return v
	}
	t, _ := el.Attribute("type")
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "submit":
		return "Submit"
	case "reset":
		return "Reset"
	}
	return ""
}

func parseViewBoxSize(vb string) (Px, Px, bool) {
	fields := strings.Fields(strings.ReplaceAll(vb, ",", " "))
	if len(fields) != 4 {
		return 0, 0, false
	}
	w, errW := strconv.ParseFloat(fields[2], 64)
	h, errH := strconv.ParseFloat(fields[3], 64)
	if errW != nil || errH != nil || w < 0 || h < 0 {
		return 0, 0, false
	}
	return utils.SatPx(w), utils.SatPx(h), true
}

// paintReplacedContent emits the drawing command for a replaced
// element filling the given content box.
func (e *engine) paintReplacedContent(el *tree.Element, style *tree.Style,
	contentBox backend.Rect) error {

	if contentBox.W <= 0 || contentBox.H <= 0 {
		return nil
	}
	switch el.Tag() {
	case "img":
		if src, ok := el.Attribute("src"); ok && src != "" {
			e.list.Push(&backend.DrawImage{Rect: contentBox, URL: src})
		}
	case "svg":
		e.list.Push(&backend.DrawSvg{Rect: contentBox, XML: serializeSvgXML(el)})
	case "input":
		return e.paintInputControl(el, style, contentBox)
	}
	return nil
}

// paintInputControl draws the text of an input: the value, or the
// placeholder washed halfway toward white. Button labels center,
// text values sit at the left inset. Text decoration never applies
// inside a control.
func (e *engine) paintInputControl(el *tree.Element, style *tree.Style,
	contentBox backend.Rect) error {

	var label string
	color := style.Color
	if isButtonInput(el) {
		label = buttonLabel(el)
	} else {
		label, _ = el.Attribute("value")
		if label == "" {
			if ph, ok := el.Attribute("placeholder"); ok {
				label = ph
				color = color.Mix(pr.White, 0.5)
			}
		}
	}
	if label == "" {
		return nil
	}
	label = transformWord(label, style.TextTransform)

	font := e.textStyleFor(style)
	metrics, err := e.measurer.Metrics(font)
	if err != nil {
		return err
	}
	textWidth, err := e.measurer.Width(font, label)
	if err != nil {
		return err
	}

	x := utils.SatAdd(contentBox.X, inputTextInset)
	if isButtonInput(el) {
		x = utils.SatAdd(contentBox.X,
			utils.MaxPxs(utils.SatSub(contentBox.W, textWidth)/2, 0))
	}
	lineHeight := utils.SatAdd(metrics.Ascent, metrics.Descent)
	baselineY := utils.SatAdd(contentBox.Y, utils.SatAdd(
		utils.MaxPxs(utils.SatSub(contentBox.H, lineHeight)/2, 0), metrics.Ascent))

	e.list.Push(&backend.DrawText{
		X: x, Y: baselineY,
		Text:  label,
		Style: font,
		Color: color,
	})
	return nil
}
