package images

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/minkbrowser/mink/utils"
	tu "github.com/minkbrowser/mink/utils/testutils"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNaturalSize(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	data := pngBytes(t, 12, 7)
	l := NewLoader(func(string) ([]byte, error) { return data, nil })
	w, h, ok := l.NaturalSize("logo.png")
	tu.AssertEqual(t, ok, true)
	tu.AssertEqual(t, w, utils.Px(12))
	tu.AssertEqual(t, h, utils.Px(7))
}

func TestLoaderCachesFetches(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	data := pngBytes(t, 3, 3)
	calls := 0
	l := NewLoader(func(string) ([]byte, error) {
		calls++
		return data, nil
	})
	l.NaturalSize("a.png")
	l.NaturalSize("a.png")
	l.NaturalSize("b.png")
	tu.AssertEqual(t, calls, 2)
}

func TestUndecodableImageWarnsOnce(t *testing.T) {
	logs := tu.CaptureLogs()

	calls := 0
	l := NewLoader(func(string) ([]byte, error) {
		calls++
		return []byte("not an image"), nil
	})
	_, _, ok := l.NaturalSize("broken.png")
	tu.AssertEqual(t, ok, false)

	// the failure is cached, retries neither refetch nor rewarn
	_, _, ok = l.NaturalSize("broken.png")
	tu.AssertEqual(t, ok, false)
	tu.AssertEqual(t, calls, 1)
	tu.AssertEqual(t, len(logs.Logs()), 1)
}

func TestMissingFileWarns(t *testing.T) {
	logs := tu.CaptureLogs()

	l := NewLoader(nil)
	_, _, ok := l.NaturalSize("does-not-exist-anywhere.png")
	tu.AssertEqual(t, ok, false)
	tu.AssertEqual(t, len(logs.Logs()), 1)
}
