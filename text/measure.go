// Package text defines the measurement capability layout depends on,
// and a default implementation shaping real fonts.
package text

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/minkbrowser/mink/utils"
)

// Style is a font request: the subset of a computed style that
// affects text measurement.
type Style struct {
	Family        string
	Size          utils.Px
	Bold          bool
	LetterSpacing utils.Px
}

// Metrics are the vertical extents of a font at a given size.
type Metrics struct {
	Ascent, Descent utils.Px
}

// TextMeasurer measures text runs. Unlike malformed CSS, failures
// here are not recoverable: they abort the layout pass.
type TextMeasurer interface {
	// Width returns the advance width of s.
	Width(style Style, s string) (utils.Px, error)
	// Metrics returns ascent and descent for the style.
	Metrics(style Style) (Metrics, error)
}

// FontMeasurer is a TextMeasurer backed by registered font files.
// Not safe for concurrent use, matching the single threaded layout
// contract.
type FontMeasurer struct {
	fonts  map[fontKey]*font.Font
	shaper shaping.HarfbuzzShaper
}

type fontKey struct {
	family string
	bold   bool
}

func NewFontMeasurer() *FontMeasurer {
	return &FontMeasurer{fonts: map[fontKey]*font.Font{}}
}

// AddFont registers a font file for a family name. Register the bold
// cut separately when available; bold requests fall back to the
// regular cut otherwise.
func (fm *FontMeasurer) AddFont(family string, bold bool, data []byte) error {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("loading font %s: %w", family, err)
	}
	fm.fonts[fontKey{strings.ToLower(family), bold}] = face.Font
	return nil
}

func (fm *FontMeasurer) lookup(style Style) (*font.Font, error) {
	family := strings.ToLower(style.Family)
	if f, ok := fm.fonts[fontKey{family, style.Bold}]; ok {
		return f, nil
	}
	if f, ok := fm.fonts[fontKey{family, false}]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no font registered for family %q", style.Family)
}

func (fm *FontMeasurer) shape(style Style, s string) (shaping.Output, error) {
	f, err := fm.lookup(style)
	if err != nil {
		return shaping.Output{}, err
	}
	runes := []rune(s)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(f),
		Size:      fixed.Int26_6(style.Size * 64),
		Script:    language.Latin,
		Language:  language.NewLanguage("en"),
	}
	return fm.shaper.Shape(input), nil
}

func (fm *FontMeasurer) Width(style Style, s string) (utils.Px, error) {
	if s == "" {
		return 0, nil
	}
	out, err := fm.shape(style, s)
	if err != nil {
		return 0, err
	}
	width := utils.SatPx(float64(out.Advance) / 64)
	if style.LetterSpacing != 0 {
		width = utils.SatAdd(width, utils.SatMul(style.LetterSpacing, utils.Px(len([]rune(s)))))
	}
	return width, nil
}

func (fm *FontMeasurer) Metrics(style Style) (Metrics, error) {
	out, err := fm.shape(style, "x")
	if err != nil {
		return Metrics{}, err
	}
	ascent := utils.SatPx(float64(out.LineBounds.Ascent) / 64)
	descent := utils.SatPx(float64(-out.LineBounds.Descent) / 64)
	if descent < 0 {
		descent = -descent
	}
	return Metrics{Ascent: ascent, Descent: descent}, nil
}

var _ TextMeasurer = (*FontMeasurer)(nil)
