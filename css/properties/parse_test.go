package properties

import (
	"testing"

	tu "github.com/minkbrowser/mink/utils/testutils"
)

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"10px", Length{Kind: LengthPx, Value: 10}},
		{"1.5px", Length{Kind: LengthPx, Value: 1.5}},
		{"72pt", Length{Kind: LengthPx, Value: 96}},
		{"2em", Length{Kind: LengthPx, Value: 20}},
		{"2rem", Length{Kind: LengthPx, Value: 32}},
		{"50%", Length{Kind: LengthPercent, Value: 50}},
		{"0", Length{Kind: LengthPx, Value: 0}},
		{"auto", Auto()},
	}
	for _, c := range cases {
		got, ok := ParseLength(c.in, 10)
		if !ok {
			t.Fatalf("ParseLength(%q) failed", c.in)
		}
		tu.AssertEqual(t, got, c.want)
	}

	for _, bad := range []string{"", "px", "10furlongs", "x10px"} {
		if _, ok := ParseLength(bad, 10); ok {
			t.Fatalf("ParseLength(%q) should fail", bad)
		}
	}
}

func TestParsePxRejectsPercent(t *testing.T) {
	if _, ok := ParsePx("50%", 16); ok {
		t.Fatal("percentages have no absolute value here")
	}
	v, ok := ParsePx("12px", 16)
	tu.AssertEqual(t, ok, true)
	tu.AssertEqual(t, v, Px(12))
}

func TestParseEdgesShorthand(t *testing.T) {
	one, _ := ParseEdges("4px", 16)
	tu.AssertEqual(t, one, UniformEdges(PxLength(4)))

	two, _ := ParseEdges("1px 2px", 16)
	tu.AssertEqual(t, two, Edges{PxLength(1), PxLength(2), PxLength(1), PxLength(2)})

	three, _ := ParseEdges("1px 2px 3px", 16)
	tu.AssertEqual(t, three, Edges{PxLength(1), PxLength(2), PxLength(3), PxLength(2)})

	four, _ := ParseEdges("1px 2px 3px 4px", 16)
	tu.AssertEqual(t, four, Edges{PxLength(1), PxLength(2), PxLength(3), PxLength(4)})

	if _, ok := ParseEdges("1px 2px 3px 4px 5px", 16); ok {
		t.Fatal("five values is not a valid shorthand")
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"red", Color{255, 0, 0, 255}},
		{"RebeccaPurple", Color{102, 51, 153, 255}},
		{"transparent", Transparent},
		{"#112233", Color{0x11, 0x22, 0x33, 255}},
		{"#1234", Color{0x11, 0x22, 0x33, 0x44}},
		{"#abc", Color{0xaa, 0xbb, 0xcc, 255}},
		{"#11223344", Color{0x11, 0x22, 0x33, 0x44}},
		{"rgb(1, 2, 3)", Color{1, 2, 3, 255}},
		{"rgba(1, 2, 3, 0.5)", Color{1, 2, 3, 127}},
	}
	for _, c := range cases {
		got, ok := ParseColor(c.in)
		if !ok {
			t.Fatalf("ParseColor(%q) failed", c.in)
		}
		tu.AssertEqual(t, got, c.want)
	}

	for _, bad := range []string{"", "#12", "#1122zz", "rgb(300,0,0)", "rgba(1,2,3,2)", "mauve-ish"} {
		if _, ok := ParseColor(bad); ok {
			t.Fatalf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestColorMix(t *testing.T) {
	mid := Black.Mix(White, 0.5)
	tu.AssertEqual(t, mid, Color{127, 127, 127, 255})
	tu.AssertEqual(t, Black.Mix(White, 0), Black)
	tu.AssertEqual(t, Black.Mix(White, 1), White)
}

func TestSplitTopLevel(t *testing.T) {
	parts := SplitTopLevel("a, rgb(1,2,3), b", ',')
	tu.AssertEqual(t, parts, []string{"a", " rgb(1,2,3)", " b"})
}

func TestParseLinearGradient(t *testing.T) {
	grad, ok := ParseLinearGradient("linear-gradient(red, blue)")
	tu.AssertEqual(t, ok, true)
	tu.AssertEqual(t, grad.Angle, float32(180))
	tu.AssertEqual(t, grad.Stops, []GradientStop{
		{Color: Color{255, 0, 0, 255}, Offset: 0},
		{Color: Color{0, 0, 255, 255}, Offset: 1},
	})

	grad, ok = ParseLinearGradient("linear-gradient(to right, red 10%, white, blue)")
	tu.AssertEqual(t, ok, true)
	tu.AssertEqual(t, grad.Angle, float32(90))
	tu.AssertEqual(t, grad.Stops[0].Offset, float32(0.1))
	tu.AssertEqual(t, grad.Stops[1].Offset, float32(0.55))
	tu.AssertEqual(t, grad.Stops[2].Offset, float32(1))

	grad, ok = ParseLinearGradient("linear-gradient(45deg, red, blue)")
	tu.AssertEqual(t, ok, true)
	tu.AssertEqual(t, grad.Angle, float32(45))

	if _, ok := ParseLinearGradient("linear-gradient(red)"); ok {
		t.Fatal("a gradient needs at least two stops")
	}
}

func TestParseGridTracks(t *testing.T) {
	tracks, ok := ParseGridTracks("100px 1fr min-content minmax(10px,2fr)", 16)
	tu.AssertEqual(t, ok, true)
	tu.AssertEqual(t, tracks, []GridTrack{
		{Kind: TrackFixed, Value: 100},
		{Kind: TrackFr, Value: 1},
		{Kind: TrackContent},
		{Kind: TrackFr, Value: 2},
	})

	if _, ok := ParseGridTracks("", 16); ok {
		t.Fatal("empty track list should fail")
	}
	if _, ok := ParseGridTracks("-1fr", 16); ok {
		t.Fatal("negative flex factors should fail")
	}
}

func TestParseGridAreas(t *testing.T) {
	areas, ok := ParseGridAreas(`"head head" "nav main" "foot"`)
	tu.AssertEqual(t, ok, true)
	tu.AssertEqual(t, areas, [][]string{
		{"head", "head"},
		{"nav", "main"},
		{"foot", "."},
	})

	if _, ok := ParseGridAreas("head head"); ok {
		t.Fatal("rows must be quoted")
	}
	if _, ok := ParseGridAreas(""); ok {
		t.Fatal("empty value should fail")
	}
}
