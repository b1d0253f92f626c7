package layout

import (
	"testing"

	"github.com/minkbrowser/mink/backend"
	tu "github.com/minkbrowser/mink/utils/testutils"
)

func TestGreedyLineWrapping(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page("<p>aaaa bbbb cccc</p>"), 10, 60)

	aaaa := findText(t, res, "aaaa")
	tu.AssertEqual(t, aaaa.Y, Px(8))
	bbbb := findText(t, res, "bbbb")
	tu.AssertEqual(t, bbbb.Y, Px(8))
	tu.AssertEqual(t, bbbb.X, Px(5))
	cccc := findText(t, res, "cccc")
	tu.AssertEqual(t, cccc.X, Px(0))
	tu.AssertEqual(t, cccc.Y, Px(18))
}

func TestOverlongWordSplitsAtRuneBoundary(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page("<p>abcdefgh</p>"), 5, 60)
	tu.AssertEqual(t, drawnTexts(res), []string{"abcde", "fgh"})

	head := findText(t, res, "abcde")
	tu.AssertEqual(t, head.Y, Px(8))
	tail := findText(t, res, "fgh")
	tu.AssertEqual(t, tail.Y, Px(18))
}

func TestOverlongWordAlwaysAdvances(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	// no prefix fits a zero width line; one rune is taken anyway
	res := render(t, page("<p>abc</p>"), 0, 60)
	tu.AssertEqual(t, drawnTexts(res), []string{"a", "b", "c"})
}

func TestNowrapKeepsOneLine(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(`<p style="white-space:nowrap">aaaa bbbb cccc</p>`), 10, 60)
	for _, s := range []string{"aaaa", "bbbb", "cccc"} {
		tu.AssertEqual(t, findText(t, res, s).Y, Px(8))
	}
}

func TestExplicitLineBreak(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page("<p>one<br>two</p>"), 100, 60)
	tu.AssertEqual(t, findText(t, res, "one").Y, Px(8))
	two := findText(t, res, "two")
	tu.AssertEqual(t, two.X, Px(0))
	tu.AssertEqual(t, two.Y, Px(18))
}

func TestTextTransform(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(`<p style="text-transform:uppercase">shout</p>`), 100, 60)
	tu.AssertEqual(t, drawnTexts(res), []string{"SHOUT"})

	res = render(t, page(`<p style="text-transform:capitalize">two words</p>`), 100, 60)
	tu.AssertEqual(t, drawnTexts(res), []string{"Two", " ", "Words"})
}

func TestTextAlignCenter(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(`<p style="text-align:center">abcd</p>`), 20, 60)
	// (20 - 4) / 2
	tu.AssertEqual(t, findText(t, res, "abcd").X, Px(8))
}

func TestUnderlineFlag(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page("<p><u>deep</u> plain</p>"), 100, 60)
	tu.AssertEqual(t, findText(t, res, "deep").Underline, true)
	tu.AssertEqual(t, findText(t, res, "plain").Underline, false)
}

func TestAnchorHitRegion(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(`<p><a href="/x">go</a></p>`), 100, 60)
	tu.AssertEqual(t, res.Links, []backend.LinkHitRegion{
		{Href: "/x", Rect: backend.Rect{X: 0, Y: 0, W: 2, H: 10}, Fixed: false},
	})
}

func TestHiddenTextReservesSpace(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(`<p>a<span style="visibility:hidden">xx</span>b</p>`), 100, 60)
	tu.AssertEqual(t, drawnTexts(res), []string{"a", "b"})
	// the hidden run still occupies its two pixels
	tu.AssertEqual(t, findText(t, res, "b").X, Px(3))
}
