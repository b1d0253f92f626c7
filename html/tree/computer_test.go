package tree

import (
	"strings"
	"testing"

	"github.com/minkbrowser/mink/css/parser"
	pr "github.com/minkbrowser/mink/css/properties"
	tu "github.com/minkbrowser/mink/utils/testutils"
)

// findStyle computes styles top-down and returns the style of the
// first element with the given tag.
func findStyle(t *testing.T, src, tag string) *Style {
	t.Helper()
	doc, err := LoadHTML(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	sc := NewStyleComputer(doc.Stylesheets(parser.Size{Width: 800, Height: 600}))
	var walk func(el *Element, ancestors []*Element, parent *Style) *Style
	walk = func(el *Element, ancestors []*Element, parent *Style) *Style {
		style := sc.Compute(el, ancestors, parent)
		if el.Tag() == tag {
			return style
		}
		for _, c := range el.Children {
			if c.Element == nil {
				continue
			}
			if found := walk(c.Element, append(ancestors, el), style); found != nil {
				return found
			}
		}
		return nil
	}
	style := walk(doc.Root, nil, nil)
	if style == nil {
		t.Fatalf("no <%s> element in document", tag)
	}
	return style
}

var (
	red   = pr.Color{R: 255, A: 255}
	blue  = pr.Color{B: 255, A: 255}
	green = pr.Color{G: 128, A: 255}
)

func TestIdOutranksClass(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := findStyle(t, `<style>#x{color:red} .c{color:blue}</style><p id="x" class="c">t</p>`, "p")
	tu.AssertEqual(t, s.Color, red)
}

func TestLaterRuleWinsAtEqualSpecificity(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := findStyle(t, `<style>.a{color:red} .b{color:blue}</style><p class="a b">t</p>`, "p")
	tu.AssertEqual(t, s.Color, blue)
}

func TestInlineStyleOutranksSheets(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := findStyle(t, `<style>#x{color:red}</style><p id="x" style="color:blue">t</p>`, "p")
	tu.AssertEqual(t, s.Color, blue)
}

func TestColorInherits(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := findStyle(t, `<style>body{color:red}</style><div><p>t</p></div>`, "p")
	tu.AssertEqual(t, s.Color, red)
}

func TestBoxPropertiesDoNotInherit(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := findStyle(t, `<style>div{padding:5px}</style><div><p>t</p></div>`, "p")
	tu.AssertEqual(t, s.Padding, pr.UniformEdges(pr.PxLength(0)))
}

func TestDescendantSelector(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	src := `<style>div p{color:red}</style><div><span><p>in</p></span></div><p>out</p>`
	in := findStyle(t, src, "p")
	tu.AssertEqual(t, in.Color, red)
}

func TestCustomPropertyResolution(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := findStyle(t, `<style>:root{--c:red} p{color:var(--c)}</style><p>t</p>`, "p")
	tu.AssertEqual(t, s.Color, red)
}

func TestCustomPropertyOverrideNearerWins(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := findStyle(t, `<style>:root{--c:red} p{--c:blue; color:var(--c)}</style><p>t</p>`, "p")
	tu.AssertEqual(t, s.Color, blue)
}

func TestCustomPropertyFallback(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := findStyle(t, `<style>p{color:var(--missing, blue)}</style><p>t</p>`, "p")
	tu.AssertEqual(t, s.Color, blue)
}

func TestCustomPropertyCycleUsesFallback(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	src := `<style>:root{--a:var(--b); --b:var(--a)} p{color:var(--a, green)}</style><p>t</p>`
	s := findStyle(t, src, "p")
	tu.AssertEqual(t, s.Color, green)
}

func TestUnresolvableVarDropsDeclaration(t *testing.T) {
	logs := tu.CaptureLogs()

	s := findStyle(t, `<style>p{color:red; margin:var(--missing)}</style><p>t</p>`, "p")
	tu.AssertEqual(t, s.Color, red)
	tu.AssertEqual(t, s.Margin, pr.UniformEdges(pr.PxLength(0)))
	tu.AssertEqual(t, len(logs.Logs()), 1)
}

func TestInvalidValueWarnsAndKeepsPrevious(t *testing.T) {
	logs := tu.CaptureLogs()

	s := findStyle(t, `<style>p{color:red} p{color:notacolor}</style><p>t</p>`, "p")
	tu.AssertEqual(t, s.Color, red)
	tu.AssertEqual(t, len(logs.Logs()), 1)
}

func TestBodyMarginHint(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := findStyle(t, `<p>t</p>`, "body")
	tu.AssertEqual(t, s.Margin, pr.UniformEdges(pr.PxLength(8)))
}

func TestAuthorCssOverridesBodyMargin(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := findStyle(t, `<style>body{margin:0}</style><p>t</p>`, "body")
	tu.AssertEqual(t, s.Margin, pr.UniformEdges(pr.PxLength(0)))
}

func TestHeadingHints(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := findStyle(t, `<h1>t</h1>`, "h1")
	tu.AssertEqual(t, s.FontSize, Px(32))
	tu.AssertEqual(t, s.Bold, true)
	tu.AssertEqual(t, s.Margin.Top, pr.PxLength(21))
	tu.AssertEqual(t, s.Margin.Left, pr.PxLength(0))
}

func TestBgcolorAttributeHint(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := findStyle(t, `<table><tr><td bgcolor="red">t</td></tr></table>`, "td")
	tu.AssertEqual(t, s.BackgroundColor, red)

	over := findStyle(t,
		`<style>td{background-color:blue}</style><table><tr><td bgcolor="red">t</td></tr></table>`, "td")
	tu.AssertEqual(t, over.BackgroundColor, blue)
}

func TestWidthAttributeHint(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := findStyle(t, `<img src="a.png" width="40" height="30">`, "img")
	tu.AssertEqual(t, s.Width, pr.PxLength(40))
	tu.AssertEqual(t, s.Height, pr.PxLength(30))
}

func TestDefaultDisplays(t *testing.T) {
	cases := []struct {
		tag  string
		want pr.Display
	}{
		{"div", pr.Block},
		{"span", pr.Inline},
		{"table", pr.Table},
		{"tr", pr.TableRow},
		{"td", pr.TableCell},
		{"img", pr.InlineBlock},
		{"script", pr.None},
	}
	for _, c := range cases {
		got := DefaultDisplay(NewElement(c.tag, nil, nil))
		if got != c.want {
			t.Fatalf("DefaultDisplay(%s) = %v, want %v", c.tag, got, c.want)
		}
	}
}

func TestNthChildStyling(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	src := `<style>li:nth-child(even){color:red}</style><ul><li>1</li><li id="two">2</li></ul>`
	doc, err := LoadHTML(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	sc := NewStyleComputer(doc.Stylesheets(parser.Size{Width: 800, Height: 600}))
	var first, second *Style
	var walk func(el *Element, ancestors []*Element, parent *Style)
	walk = func(el *Element, ancestors []*Element, parent *Style) {
		style := sc.Compute(el, ancestors, parent)
		if el.Tag() == "li" {
			if el.ID() == "two" {
				second = style
			} else {
				first = style
			}
		}
		for _, c := range el.Children {
			if c.Element != nil {
				walk(c.Element, append(ancestors, el), style)
			}
		}
	}
	walk(doc.Root, nil, nil)
	tu.AssertEqual(t, first.Color, pr.Black)
	tu.AssertEqual(t, second.Color, red)
}
