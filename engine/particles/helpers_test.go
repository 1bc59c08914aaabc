package particles

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/hubastard/photon/engine/core"
	"github.com/hubastard/photon/engine/gfx/gfxtest"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	w, h       int
	ratio      float32
	cb         func(core.Event)
	polls      int
	swaps      int
	closeAfter int // ShouldClose once swaps reaches this; 0 = never
	closed     bool
	title      string
}

func newFakeWindow(w, h int, ratio float32) *fakeWindow {
	return &fakeWindow{w: w, h: h, ratio: ratio}
}

func (f *fakeWindow) PollEvents()  { f.polls++ }
func (f *fakeWindow) SwapBuffers() { f.swaps++ }
func (f *fakeWindow) ShouldClose() bool {
	return f.closed || (f.closeAfter > 0 && f.swaps >= f.closeAfter)
}
func (f *fakeWindow) RequestClose()                        { f.closed = true }
func (f *fakeWindow) Size() (int, int)                     { return f.w, f.h }
func (f *fakeWindow) PixelRatio() float32                  { return f.ratio }
func (f *fakeWindow) SetTitle(title string)                { f.title = title }
func (f *fakeWindow) SetEventCallback(cb func(core.Event)) { f.cb = cb }

func (f *fakeWindow) resize(w, h int) {
	f.w, f.h = w, h
	if f.cb != nil {
		f.cb(core.EventResize{W: w, H: h})
	}
}

type loadRequest struct {
	src  string
	done func(*image.NRGBA, error)
}

type fakeLoader struct {
	mu   sync.Mutex
	reqs []loadRequest
}

func (l *fakeLoader) Load(_ context.Context, src string, done func(*image.NRGBA, error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reqs = append(l.reqs, loadRequest{src: src, done: done})
}

func (l *fakeLoader) requests() []loadRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]loadRequest(nil), l.reqs...)
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type rig struct {
	e      *Engine
	dev    *gfxtest.Device
	win    *fakeWindow
	loader *fakeLoader
	clock  *fakeClock
}

func newRig(t *testing.T, opts Options) *rig {
	t.Helper()
	return newRigWith(t, gfxtest.New(), opts)
}

func newRigWith(t *testing.T, dev *gfxtest.Device, opts Options) *rig {
	t.Helper()
	r := &rig{
		dev:    dev,
		win:    newFakeWindow(800, 600, 1),
		loader: &fakeLoader{},
		clock:  &fakeClock{now: time.Unix(1000, 0)},
	}
	if opts.Loader == nil {
		opts.Loader = r.loader
	}
	if opts.Clock == nil {
		opts.Clock = r.clock.Now
	}
	e, err := New(dev, r.win, opts)
	require.NoError(t, err)
	require.NotNil(t, e)
	r.e = e
	return r
}

func sprite(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}
