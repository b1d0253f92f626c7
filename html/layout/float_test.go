package layout

import (
	"testing"

	"github.com/minkbrowser/mink/backend"
	tu "github.com/minkbrowser/mink/utils/testutils"
)

func TestFloatNarrowsInlineContent(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(
		`<div style="float:left;width:10px;height:10px;background-color:red"></div>`+
			`<p>aaaa bbbb</p>`), 30, 60)

	// text flows to the right of the float
	aaaa := findText(t, res, "aaaa")
	tu.AssertEqual(t, aaaa.X, Px(10))
	tu.AssertEqual(t, aaaa.Y, Px(8))
}

func TestFloatPaintsAboveWrappedContent(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(
		`<div style="float:left;width:10px;height:10px;background-color:red"></div>`+
			`<p>aaaa</p>`), 30, 60)

	cmds := res.DisplayList.Commands
	last, ok := cmds[len(cmds)-1].(*backend.DrawRect)
	if !ok {
		t.Fatalf("expected the float background last, got:\n%s", backend.DumpDisplayList(&res.DisplayList))
	}
	tu.AssertEqual(t, last.Rect, backend.Rect{X: 0, Y: 0, W: 10, H: 10})
}

func TestFloatRightPlacement(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(
		`<div style="float:right;width:10px;height:10px;background-color:red"></div>`+
			`<p>aaaa</p>`), 30, 60)

	var bg *backend.DrawRect
	for _, cmd := range res.DisplayList.Commands {
		if r, ok := cmd.(*backend.DrawRect); ok {
			bg = r
		}
	}
	if bg == nil {
		t.Fatal("float background not painted")
	}
	tu.AssertEqual(t, bg.Rect.X, Px(20))

	// text keeps the left edge
	tu.AssertEqual(t, findText(t, res, "aaaa").X, Px(0))
}

func TestClearMovesBelowFloat(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(
		`<div style="float:left;width:10px;height:10px"></div>`+
			`<div style="clear:left">x</div>`), 30, 60)

	tu.AssertEqual(t, findText(t, res, "x").Y, Px(18))
}

func TestFloatGrowsDocumentHeight(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(`<div style="float:left;width:10px;height:500px"></div>`), 30, 60)
	tu.AssertEqual(t, res.Height, Px(500))
}

func TestStackedFloatsShareALine(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	res := render(t, page(
		`<div style="float:left;width:10px;height:10px;background-color:red"></div>`+
			`<div style="float:left;width:10px;height:10px;background-color:blue"></div>`), 40, 60)

	var rects []backend.Rect
	for _, cmd := range res.DisplayList.Commands {
		if r, ok := cmd.(*backend.DrawRect); ok {
			rects = append(rects, r.Rect)
		}
	}
	tu.AssertEqual(t, rects, []backend.Rect{
		{X: 0, Y: 0, W: 10, H: 10},
		{X: 10, Y: 0, W: 10, H: 10},
	})
}
