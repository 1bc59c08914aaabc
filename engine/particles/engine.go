// Package particles renders point-sprite particles from declared uniforms
// and attribute buffers with a single GPU program, one texture and one draw
// call per frame.
//
// An Engine is owned by the goroutine that runs it. Uniforms and buffers are
// mutated from OnFrame or through Post; image loads and other goroutines
// hand their results over with Post, which is applied at the next frame.
package particles

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/hubastard/photon/engine/assets"
	"github.com/hubastard/photon/engine/core"
	"github.com/hubastard/photon/engine/gfx"
	"github.com/hubastard/photon/engine/profiler"
)

// Engine owns a program, its uniforms and buffers, a texture slot and the
// render loop. Nothing is shared between engines.
type Engine struct {
	id     uuid.UUID
	log    *slog.Logger
	dev    gfx.Device
	holder core.Window
	opts   Options

	prog     *Program
	err      error
	uniforms *Uniforms
	buffers  *Buffers
	texture  *TextureSlot
	viewport Viewport

	loader      assets.Loader
	loadCtx     context.Context
	cancelLoads context.CancelFunc

	mu      sync.Mutex
	pending []func()
	closed  bool

	stopOnce sync.Once
	stop     chan struct{}
	running  bool
	start    time.Time
	frames   uint64
	warned   map[string]bool
}

// New builds an engine drawing into holder. It returns an error only for
// invalid options. A shader compile or link failure is logged and leaves the
// engine inert: Ready reports false, Err holds the cause and Run refuses to
// start.
func New(dev gfx.Device, holder core.Window, opts Options) (*Engine, error) {
	if dev == nil {
		return nil, errors.New("particles: nil device")
	}
	if holder == nil {
		return nil, errors.New("particles: nil holder")
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		id:     uuid.New(),
		dev:    dev,
		holder: holder,
		opts:   opts,
		loader: opts.Loader,
		stop:   make(chan struct{}),
		warned: make(map[string]bool),
	}
	e.log = opts.Logger.With("engine", e.id.String())
	e.loadCtx, e.cancelLoads = context.WithCancel(context.Background())

	prog, err := CompileAndLink(dev, opts.VertexSource, opts.FragmentSource, e.log)
	if err != nil {
		e.err = err
		e.log.Error("engine inert: program unavailable", "err", err)
		// Keep value slots so the property surface still works.
		if err := e.declare(nil, 0); err != nil {
			return nil, err
		}
		e.texture = newTextureSlot(nil, e.log, e.setHasTexture)
		holder.SetEventCallback(e.handleEvent)
		e.SetSize()
		return e, nil
	}
	e.prog = prog

	dev.SetBlend(opts.Blend)
	dev.SetDepthTest(false)
	dev.SetMultisample(opts.Antialias)
	c := opts.ClearColor
	dev.ClearColor(c[0], c[1], c[2], c[3])

	if err := e.declare(dev, prog.Handle); err != nil {
		prog.Delete()
		return nil, err
	}
	e.texture = newTextureSlot(dev, e.log, e.setHasTexture)

	holder.SetEventCallback(e.handleEvent)
	e.SetSize()

	if opts.Texture != "" {
		e.LoadTexture(opts.Texture)
	}
	return e, nil
}

// declare creates the uniform and buffer sets in name order and uploads the
// declared attribute data, so no buffer holds stale memory.
func (e *Engine) declare(dev gfx.Device, prog gfx.Program) error {
	e.uniforms = newUniforms(dev, prog, e.log)
	for _, name := range sortedKeys(e.opts.Uniforms) {
		if err := e.uniforms.declare(name, e.opts.Uniforms[name]); err != nil {
			return err
		}
	}

	e.buffers = newBuffers(dev, prog, e.log)
	for _, name := range sortedKeys(e.opts.Attributes) {
		d := e.opts.Attributes[name]
		if err := e.buffers.declare(name, d.Components); err != nil {
			return err
		}
		data := d.Data
		if data == nil {
			data = []float32{}
		}
		if err := e.buffers.Set(name, data); err != nil {
			return err
		}
	}
	e.buffers.Unbind()
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ID identifies the engine in logs.
func (e *Engine) ID() uuid.UUID { return e.id }

// Ready reports whether the program linked and the engine can draw.
func (e *Engine) Ready() bool { return e.prog != nil }

// Err returns the construction failure of an inert engine.
func (e *Engine) Err() error { return e.err }

// Uniforms returns the declared uniform set.
func (e *Engine) Uniforms() *Uniforms { return e.uniforms }

// Buffers returns the declared attribute buffers.
func (e *Engine) Buffers() *Buffers { return e.buffers }

// Texture returns the sprite texture slot.
func (e *Engine) Texture() *TextureSlot { return e.texture }

// Viewport returns the size computed by the last SetSize.
func (e *Engine) Viewport() Viewport { return e.viewport }

// Holder returns the window the engine draws into.
func (e *Engine) Holder() core.Window { return e.holder }

// Logger returns the engine's logger, tagged with its ID.
func (e *Engine) Logger() *slog.Logger { return e.log }

// Count is the number of points drawn per frame.
func (e *Engine) Count() int { return e.buffers.Count() }

// Frames is the number of frames drawn so far.
func (e *Engine) Frames() uint64 { return e.frames }

// SetSize re-derives the viewport from the holder. The GL viewport covers the
// backing store (scaled by the pixel ratio); the resolution uniform gets the
// unscaled logical size.
func (e *Engine) SetSize() {
	w, h := e.holder.Size()
	ratio := e.holder.PixelRatio()
	if ratio <= 0 {
		ratio = 1
	}
	e.viewport = Viewport{Width: w, Height: h, PixelRatio: ratio}

	if e.Ready() {
		bw, bh := e.viewport.Backing()
		e.dev.Viewport(0, 0, bw, bh)
	}
	fw, fh := float32(w), float32(h)
	e.setBuiltin(UniformResolution, mgl32.Vec2{fw, fh})
	// A minimized holder reports 0x0; keep the last projection.
	if w <= 0 || h <= 0 {
		return
	}
	if k, ok := e.uniforms.Kind(UniformProjection); ok && k == Mat4 {
		e.setBuiltin(UniformProjection, e.opts.Projection.Matrix(fw, fh))
	}
}

func (e *Engine) handleEvent(ev core.Event) {
	if _, ok := ev.(core.EventResize); ok {
		e.SetSize()
	}
	if e.opts.OnEvent != nil {
		e.opts.OnEvent(e, ev)
	}
}

// setBuiltin pushes an engine-owned value; a caller redeclaring the name with
// another kind is logged once and otherwise ignored.
func (e *Engine) setBuiltin(name string, v any) {
	if !e.uniforms.Has(name) {
		return
	}
	if err := e.uniforms.Set(name, v); err != nil && !e.warned[name] {
		e.warned[name] = true
		e.log.Warn("built-in uniform not updated", "uniform", name, "err", err)
	}
}

func (e *Engine) setHasTexture(ready bool) {
	k, ok := e.uniforms.Kind(UniformHasTexture)
	if !ok {
		return
	}
	var v any = float32(0)
	if ready {
		v = float32(1)
	}
	if k == Int {
		v = int32(0)
		if ready {
			v = int32(1)
		}
	}
	e.setBuiltin(UniformHasTexture, v)
}

// LoadTexture starts loading src into the texture slot. The placeholder stays
// bound until the image is decoded; the result is applied at a frame boundary.
func (e *Engine) LoadTexture(src string) {
	gen := e.texture.begin(src)
	if !e.Ready() {
		e.texture.complete(gen, nil, ErrNotReady)
		return
	}
	e.log.Debug("texture load started", "src", src)
	e.loader.Load(e.loadCtx, src, func(img *image.NRGBA, err error) {
		e.Post(func() { e.texture.complete(gen, img, err) })
	})
}

// Post queues fn to run on the render loop before the next frame. It is safe
// to call from any goroutine and never blocks. After Close it drops fn.
func (e *Engine) Post(fn func()) {
	e.mu.Lock()
	if !e.closed {
		e.pending = append(e.pending, fn)
	}
	e.mu.Unlock()
}

// Flush runs queued Post callbacks now. Run calls it every frame; call it
// directly only from the goroutine that owns the engine.
func (e *Engine) Flush() {
	e.mu.Lock()
	fns := e.pending
	e.pending = nil
	e.mu.Unlock()
	if len(fns) == 0 {
		return
	}
	defer profiler.Start("particles.flush")()
	for _, fn := range fns {
		fn()
	}
}

// Close stops pending loads, drops queued callbacks and releases GPU objects.
// After Close, setting uniforms or buffers only updates the stored values. The
// engine must not be running.
func (e *Engine) Close() {
	e.Stop()
	e.cancelLoads()
	e.mu.Lock()
	e.closed = true
	e.pending = nil
	e.mu.Unlock()
	if !e.Ready() {
		return
	}
	e.buffers.release()
	e.texture.release()
	e.uniforms.release()
	e.prog.Delete()
	e.prog = nil
	e.err = errors.New("particles: engine closed")
}
