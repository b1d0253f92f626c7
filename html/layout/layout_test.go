package layout

import (
	"strings"
	"testing"

	"github.com/minkbrowser/mink/backend"
	"github.com/minkbrowser/mink/css/parser"
	pr "github.com/minkbrowser/mink/css/properties"
	"github.com/minkbrowser/mink/html/tree"
	"github.com/minkbrowser/mink/text"
	tu "github.com/minkbrowser/mink/utils/testutils"
)

// fixedMeasurer makes geometry predictable: every rune is one pixel
// wide, the baseline sits 8 pixels below the line top and lines are
// 10 pixels tall.
type fixedMeasurer struct{}

func (fixedMeasurer) Width(_ text.Style, s string) (Px, error) {
	return Px(len([]rune(s))), nil
}

func (fixedMeasurer) Metrics(text.Style) (text.Metrics, error) {
	return text.Metrics{Ascent: 8, Descent: 2}, nil
}

func render(t *testing.T, src string, width, height Px) *Result {
	t.Helper()
	doc, err := tree.LoadHTML(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	res, err := Layout(doc, Options{
		Viewport: parser.Size{Width: width, Height: height},
		Measurer: fixedMeasurer{},
	})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

// page wraps a body snippet with a zeroed body margin so positions
// start at the origin.
func page(body string) string {
	return "<html><head><style>body{margin:0}</style></head><body>" + body + "</body></html>"
}

func drawnTexts(res *Result) []string {
	var out []string
	for _, cmd := range res.DisplayList.Commands {
		if dt, ok := cmd.(*backend.DrawText); ok {
			out = append(out, dt.Text)
		}
	}
	return out
}

func findText(t *testing.T, res *Result, s string) *backend.DrawText {
	t.Helper()
	for _, cmd := range res.DisplayList.Commands {
		if dt, ok := cmd.(*backend.DrawText); ok && dt.Text == s {
			return dt
		}
	}
	t.Fatalf("text %q not drawn, commands:\n%s", s, backend.DumpDisplayList(&res.DisplayList))
	return nil
}

func TestLayoutRequiresMeasurer(t *testing.T) {
	doc, err := tree.LoadHTML(strings.NewReader("<p>x</p>"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Layout(doc, Options{Viewport: parser.Size{Width: 100, Height: 100}}); err == nil {
		t.Fatal("expected an error without a measurer")
	}
}

func TestDocumentHeightCoversViewport(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(""), 800, 600)
	tu.AssertEqual(t, res.Height, Px(600))
}

func TestSimpleTextRun(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page("<p>hi there</p>"), 100, 60)
	tu.AssertEqual(t, drawnTexts(res), []string{"hi", " ", "there"})

	hi := findText(t, res, "hi")
	tu.AssertEqual(t, hi.X, Px(0))
	tu.AssertEqual(t, hi.Y, Px(8))

	there := findText(t, res, "there")
	tu.AssertEqual(t, there.X, Px(3))
	tu.AssertEqual(t, there.Y, Px(8))
}

func TestBackgroundPatchedToContentHeight(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(`<div style="background-color:red">x</div>`), 50, 40)
	bg, ok := res.DisplayList.Commands[0].(*backend.DrawRect)
	if !ok {
		t.Fatalf("expected a background rect first, got:\n%s", backend.DumpDisplayList(&res.DisplayList))
	}
	tu.AssertEqual(t, bg.Rect, backend.Rect{X: 0, Y: 0, W: 50, H: 10})
	tu.AssertEqual(t, bg.Color, pr.Color{R: 255, A: 255})
}

func TestOpacityGroup(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(`<div style="opacity:0.5">x</div>`), 50, 40)
	cmds := res.DisplayList.Commands
	if len(cmds) != 3 {
		t.Fatalf("expected push, text, pop, got:\n%s", backend.DumpDisplayList(&res.DisplayList))
	}
	push, ok := cmds[0].(*backend.PushOpacity)
	if !ok || push.Opacity != 0.5 {
		t.Fatalf("expected PushOpacity 0.5, got %v", cmds[0])
	}
	if _, ok := cmds[2].(*backend.PopOpacity); !ok {
		t.Fatalf("expected PopOpacity, got %v", cmds[2])
	}
}

func TestZeroOpacitySkipsPainting(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(`<div style="opacity:0">hidden</div>`), 50, 40)
	tu.AssertEqual(t, len(res.DisplayList.Commands), 0)
}

func TestCanvasBackgroundFromBody(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, `<html><body style="background-color:#112233"></body></html>`, 50, 40)
	tu.AssertEqual(t, res.CanvasBackground, pr.Color{R: 0x11, G: 0x22, B: 0x33, A: 255})
}

func TestCanvasBackgroundHtmlWins(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, `<html style="background-color:blue"><body style="background-color:red"></body></html>`, 50, 40)
	tu.AssertEqual(t, res.CanvasBackground, pr.Color{B: 255, A: 255})
}

func TestDisplayNoneExcluded(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(`<p>a<span style="display:none">b</span></p>`), 50, 40)
	tu.AssertEqual(t, drawnTexts(res), []string{"a"})
}

func TestAbsolutePositioning(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(`<div style="position:absolute;left:5px;top:7px">zz</div>`), 100, 50)
	zz := findText(t, res, "zz")
	tu.AssertEqual(t, zz.X, Px(5))
	tu.AssertEqual(t, zz.Y, Px(15))
}

func TestBottomAnchoredBox(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(`<div style="position:absolute;left:0;bottom:0">zz</div>`), 100, 50)
	// one 10px line, bottom edge pinned to the viewport bottom
	zz := findText(t, res, "zz")
	tu.AssertEqual(t, zz.Y, Px(48))
}

func TestFixedBoxOpensFixedGroup(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(`<div style="position:fixed;top:5px;left:6px;width:20px"><a href="/m">mm</a></div>`), 100, 50)
	cmds := res.DisplayList.Commands
	if _, ok := cmds[0].(*backend.PushFixed); !ok {
		t.Fatalf("expected PushFixed first, got:\n%s", backend.DumpDisplayList(&res.DisplayList))
	}
	if _, ok := cmds[len(cmds)-1].(*backend.PopFixed); !ok {
		t.Fatalf("expected PopFixed last, got:\n%s", backend.DumpDisplayList(&res.DisplayList))
	}

	mm := findText(t, res, "mm")
	tu.AssertEqual(t, mm.X, Px(6))
	tu.AssertEqual(t, mm.Y, Px(13))

	tu.AssertEqual(t, len(res.Links), 1)
	tu.AssertEqual(t, res.Links[0].Href, "/m")
	tu.AssertEqual(t, res.Links[0].Fixed, true)
}

func TestRelayoutIsIdempotent(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	src := page(`<div style="background-color:red"><p>some text</p></div><a href="/x">link</a>`)
	doc, err := tree.LoadHTML(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Viewport: parser.Size{Width: 120, Height: 80}, Measurer: fixedMeasurer{}}
	first, err := Layout(doc, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Layout(doc, opts)
	if err != nil {
		t.Fatal(err)
	}
	tu.AssertEqual(t, second, first)
}

func TestBlockHeightProperty(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(`<div style="height:200px">x</div><p>below</p>`), 100, 50)
	below := findText(t, res, "below")
	tu.AssertEqual(t, below.Y, Px(208))
	tu.AssertEqual(t, res.Height, Px(210))
}
