package assets

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Loader fetches and decodes images without blocking the caller.
type Loader interface {
	// Load starts fetching src and calls done exactly once, possibly from
	// another goroutine.
	Load(ctx context.Context, src string, done func(*image.NRGBA, error))
}

// FileLoader reads images from disk (relative to Dir) or over HTTP(S).
type FileLoader struct {
	Dir    string
	Client *http.Client
}

// NewFileLoader returns a loader rooted at <Root>/textures.
func NewFileLoader() *FileLoader {
	return &FileLoader{Dir: filepath.Join(Root, "textures"), Client: http.DefaultClient}
}

func (l *FileLoader) Load(ctx context.Context, src string, done func(*image.NRGBA, error)) {
	go func() {
		img, err := l.Fetch(ctx, src)
		done(img, err)
	}()
}

// Fetch reads and decodes src synchronously.
func (l *FileLoader) Fetch(ctx context.Context, src string) (*image.NRGBA, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return l.fetchHTTP(ctx, src)
	}
	path := src
	if !filepath.IsAbs(path) && l.Dir != "" {
		path = filepath.Join(l.Dir, src)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return img, nil
}

func (l *FileLoader) fetchHTTP(ctx context.Context, url string) (*image.NRGBA, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %q: %s", url, resp.Status)
	}
	img, err := Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", url, err)
	}
	return img, nil
}

// Decode reads png, jpeg, gif, bmp, tiff or webp and returns tightly packed
// straight-alpha RGBA8 (row-major, top-left origin, stride == 4*w).
func Decode(r io.Reader) (*image.NRGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return toNRGBA(img), nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if m, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && m.Stride == b.Dx()*4 {
		return m
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
