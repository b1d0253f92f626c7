package backend

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pr "github.com/minkbrowser/mink/css/properties"
	"github.com/minkbrowser/mink/text"
)

// recorder remembers the replayed operations as short opcodes.
type recorder struct {
	ops  []string
	fail string // opcode made to error
}

func (r *recorder) op(name string) error {
	r.ops = append(r.ops, name)
	if name == r.fail {
		return errors.New(name + " failed")
	}
	return nil
}

func (r *recorder) Clear(pr.Color) error                                        { return r.op("clear") }
func (r *recorder) FillRect(Rect, pr.Color) error                               { return r.op("rect") }
func (r *recorder) FillRoundedRect(Rect, Px, pr.Color) error                    { return r.op("rounded") }
func (r *recorder) StrokeRoundedRect(Rect, Px, Px, pr.Color) error              { return r.op("border") }
func (r *recorder) FillGradient(Rect, pr.LinearGradient) error                  { return r.op("gradient") }
func (r *recorder) DrawText(Px, Px, string, text.Style, pr.Color, bool) error   { return r.op("text") }
func (r *recorder) DrawImage(Rect, string) error                                { return r.op("image") }
func (r *recorder) DrawSVG(Rect, string) error                                  { return r.op("svg") }
func (r *recorder) PushOpacity(float32) error                                   { return r.op("push") }
func (r *recorder) PopOpacity() error                                           { return r.op("pop") }
func (r *recorder) PushFixed() error                                            { return r.op("pushfixed") }
func (r *recorder) PopFixed() error                                             { return r.op("popfixed") }
func (r *recorder) Flush() error                                                { return r.op("flush") }

func TestReplayOrder(t *testing.T) {
	var dl DisplayList
	dl.Push(&DrawRect{Rect: Rect{0, 0, 10, 10}, Color: pr.Black})
	dl.Push(&PushOpacity{Opacity: 0.5})
	dl.Push(&DrawText{Text: "hi"})
	dl.Push(&PopOpacity{Opacity: 0.5})
	dl.Push(&PushFixed{})
	dl.Push(&DrawImage{URL: "a.png"})
	dl.Push(&PopFixed{})

	rec := &recorder{}
	require.NoError(t, Replay(&dl, pr.White, rec))
	assert.Equal(t,
		[]string{"clear", "rect", "push", "text", "pop", "pushfixed", "image", "popfixed", "flush"},
		rec.ops)
}

func TestReplayStopsOnError(t *testing.T) {
	var dl DisplayList
	dl.Push(&DrawRect{})
	dl.Push(&DrawText{Text: "never painted"})

	rec := &recorder{fail: "rect"}
	err := Replay(&dl, pr.White, rec)
	require.Error(t, err)
	assert.Equal(t, []string{"clear", "rect"}, rec.ops)
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 5, H: 5}
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(14, 14))
	assert.False(t, r.Contains(15, 10))
	assert.False(t, r.Contains(9, 12))
}

func TestDumpDisplayListNestsGroups(t *testing.T) {
	var dl DisplayList
	dl.Push(&PushOpacity{Opacity: 0.25})
	dl.Push(&DrawText{X: 1, Y: 2, Text: "inner"})
	dl.Push(&PopOpacity{Opacity: 0.25})
	dl.Push(&DrawText{X: 3, Y: 4, Text: "outer"})

	dump := DumpDisplayList(&dl)
	assert.Contains(t, dump, "opacity 0.25")
	assert.Contains(t, dump, `"inner"`)
	assert.Contains(t, dump, `"outer"`)

	// the inner line is indented under the group, the outer one is not
	var innerLine, outerLine string
	for _, line := range strings.Split(dump, "\n") {
		if strings.Contains(line, "inner") {
			innerLine = line
		}
		if strings.Contains(line, "outer") {
			outerLine = line
		}
	}
	require.NotEmpty(t, innerLine)
	require.NotEmpty(t, outerLine)
	assert.Greater(t, strings.Index(innerLine, "text"), strings.Index(outerLine, "text"))
}

func TestDumpSurvivesUnbalancedPops(t *testing.T) {
	var dl DisplayList
	dl.Push(&PopOpacity{})
	dl.Push(&DrawText{Text: "still here"})
	assert.Contains(t, DumpDisplayList(&dl), "still here")
}
