// Package images resolves the natural size of raster images for
// replaced element sizing, through a caching resource loader.
package images

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/minkbrowser/mink/logger"
	"github.com/minkbrowser/mink/utils"
)

// Fetcher fetches the bytes of a resource URL.
type Fetcher func(url string) ([]byte, error)

// DefaultFetcher reads http(s) URLs with a bounded timeout and
// anything else as a local file path.
func DefaultFetcher(url string) ([]byte, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		client := http.Client{Timeout: 10 * time.Second}
		resp, err := client.Get(url)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetching %s: status %s", url, resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(url)
}

type sizeEntry struct {
	w, h utils.Px
	ok   bool
}

// Loader caches decoded image dimensions per URL for the lifetime of
// the loader. A failed resource is cached too, so layout retries do
// not refetch.
type Loader struct {
	fetch Fetcher
	cache map[string]sizeEntry
}

func NewLoader(fetch Fetcher) *Loader {
	if fetch == nil {
		fetch = DefaultFetcher
	}
	return &Loader{fetch: fetch, cache: map[string]sizeEntry{}}
}

// NaturalSize returns the pixel dimensions of the image at url.
// Missing or undecodable images report ok=false with a warning; they
// never fail the layout pass.
func (l *Loader) NaturalSize(url string) (w, h utils.Px, ok bool) {
	if entry, in := l.cache[url]; in {
		return entry.w, entry.h, entry.ok
	}
	entry := l.load(url)
	l.cache[url] = entry
	return entry.w, entry.h, entry.ok
}

func (l *Loader) load(url string) sizeEntry {
	data, err := l.fetch(url)
	if err != nil {
		logger.WarningLogger.Printf("image %s unavailable: %s", url, err)
		return sizeEntry{}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		logger.WarningLogger.Printf("image %s undecodable: %s", url, err)
		return sizeEntry{}
	}
	return sizeEntry{w: utils.SatPx(float64(cfg.Width)), h: utils.SatPx(float64(cfg.Height)), ok: true}
}
