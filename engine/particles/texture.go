package particles

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/hubastard/photon/engine/gfx"
)

// TextureState is the lifecycle of the engine's texture slot.
type TextureState int

const (
	TextureEmpty TextureState = iota
	TextureLoading
	TextureReady
	TextureFailed
)

func (s TextureState) String() string {
	switch s {
	case TextureEmpty:
		return "empty"
	case TextureLoading:
		return "loading"
	case TextureReady:
		return "ready"
	case TextureFailed:
		return "failed"
	}
	return fmt.Sprintf("TextureState(%d)", int(s))
}

// placeholder is a 1x1 fully transparent texel. It is complete (no mipmaps
// needed) and always safe to sample, so draws never wait for a load.
var placeholder = []byte{0, 0, 0, 0}

// TextureSlot is the single texture owned by an engine, bound to unit 0.
type TextureSlot struct {
	dev   gfx.Device // nil while the engine is inert
	tex   gfx.Texture
	log   *slog.Logger
	flag  func(ready bool)
	state TextureState
	src   string
	err   error
	gen   uint64
	w, h  int
	image bool // an image, not the placeholder, is uploaded
}

func newTextureSlot(dev gfx.Device, log *slog.Logger, flag func(bool)) *TextureSlot {
	t := &TextureSlot{dev: dev, log: log, flag: flag}
	if dev != nil {
		t.tex = dev.CreateTexture()
		t.uploadPlaceholder()
	}
	t.flag(false)
	return t
}

func (t *TextureSlot) uploadPlaceholder() {
	t.dev.BindTexture(0, t.tex)
	t.dev.TexImage2D(1, 1, placeholder)
	t.dev.TexFilter(gfx.FilterNearest, gfx.FilterNearest)
	t.w, t.h = 1, 1
	t.image = false
}

// State returns the current lifecycle state.
func (t *TextureSlot) State() TextureState { return t.state }

// Source is the src of the latest load.
func (t *TextureSlot) Source() string { return t.src }

// Err is the *ImageLoadError of a failed load, nil otherwise.
func (t *TextureSlot) Err() error { return t.err }

// Size is the size of the uploaded image (1x1 for the placeholder).
func (t *TextureSlot) Size() (int, int) { return t.w, t.h }

// begin enters Loading and returns the generation a completion must carry.
// A previously ready image stays bound until the new one arrives.
func (t *TextureSlot) begin(src string) uint64 {
	t.gen++
	t.state = TextureLoading
	t.src = src
	t.err = nil
	return t.gen
}

// complete applies a load result on the owning thread. Completions of a
// superseded load are dropped.
func (t *TextureSlot) complete(gen uint64, img *image.NRGBA, err error) {
	if gen != t.gen {
		t.log.Debug("stale texture load dropped", "src", t.src)
		return
	}
	if err == nil && img == nil {
		err = errors.New("no image")
	}
	if err != nil {
		t.state = TextureFailed
		t.err = &ImageLoadError{Src: t.src, Err: err}
		if t.dev != nil && t.image {
			t.uploadPlaceholder()
		}
		t.flag(false)
		t.log.Warn("texture load failed", "src", t.src, "err", err)
		return
	}

	b := img.Bounds()
	if t.dev != nil {
		t.dev.BindTexture(0, t.tex)
		t.dev.TexImage2D(b.Dx(), b.Dy(), img.Pix)
		t.dev.TexFilter(gfx.FilterLinearMipmapLinear, gfx.FilterLinear)
		t.dev.GenerateMipmap()
	}
	t.w, t.h = b.Dx(), b.Dy()
	t.image = true
	t.state = TextureReady
	t.flag(true)
	t.log.Info("texture ready", "src", t.src, "width", t.w, "height", t.h)
}

func (t *TextureSlot) bind() {
	if t.dev != nil {
		t.dev.BindTexture(0, t.tex)
	}
}

func (t *TextureSlot) release() {
	if t.dev != nil && t.tex != 0 {
		t.dev.DeleteTexture(t.tex)
		t.tex = 0
	}
	t.dev = nil
}
