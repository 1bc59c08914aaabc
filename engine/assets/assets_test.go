package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func sprite() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 128})
	img.SetNRGBA(1, 0, color.NRGBA{0, 255, 0, 255})
	img.SetNRGBA(0, 1, color.NRGBA{0, 0, 255, 0})
	img.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 64})
	return img
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sprite()))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestDecodeKeepsStraightAlpha(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sprite()))

	img, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 8, img.Stride)
	// Half-transparent red must not be premultiplied.
	assert.Equal(t, []byte{255, 0, 0, 128}, img.Pix[0:4])
}

func TestDecodeBMP(t *testing.T) {
	var buf bytes.Buffer
	src := image.NewRGBA(image.Rect(0, 0, 3, 1))
	src.Set(2, 0, color.RGBA{10, 20, 30, 255})
	require.NoError(t, bmp.Encode(&buf, src))

	img, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, []byte{10, 20, 30, 255}, img.Pix[8:12])
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, image.ErrFormat)
}

func TestToNRGBARebasesSubImage(t *testing.T) {
	sub := sprite().SubImage(image.Rect(1, 1, 2, 2))
	img := toNRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())
	assert.Equal(t, []byte{255, 255, 255, 64}, img.Pix)
}

func TestFileLoaderAsync(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "spark.png")
	l := &FileLoader{Dir: dir}

	type result struct {
		img *image.NRGBA
		err error
	}
	ch := make(chan result, 1)
	l.Load(context.Background(), "spark.png", func(img *image.NRGBA, err error) {
		ch <- result{img, err}
	})

	select {
	case r := <-ch:
		require.NoError(t, r.err)
		assert.Equal(t, image.Rect(0, 0, 2, 2), r.img.Bounds())
	case <-time.After(5 * time.Second):
		t.Fatal("loader never completed")
	}
}

func TestFileLoaderMissing(t *testing.T) {
	l := &FileLoader{Dir: t.TempDir()}
	_, err := l.Fetch(context.Background(), "missing.png")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileLoaderHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/spark.png" {
			http.NotFound(w, r)
			return
		}
		_ = png.Encode(w, sprite())
	}))
	defer srv.Close()

	l := &FileLoader{Client: srv.Client()}
	img, err := l.Fetch(context.Background(), srv.URL+"/spark.png")
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dy())

	_, err = l.Fetch(context.Background(), srv.URL+"/nope.png")
	assert.ErrorContains(t, err, "404")
}

func TestLoadShader(t *testing.T) {
	old := Root
	Root = t.TempDir()
	t.Cleanup(func() { Root = old })

	require.NoError(t, os.MkdirAll(filepath.Join(Root, "shaders"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(Root, "shaders", "p.vert"), []byte("void main() {}"), 0o644))

	src, err := LoadShader("p.vert")
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", src)

	_, err = LoadShader("missing.frag")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
