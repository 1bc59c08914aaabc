package particles

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/hubastard/photon/engine/gfx"
)

const (
	// AttributePrefix is prepended to declared names to form the GLSL identifier.
	AttributePrefix = "a_"
	// PositionAttribute sizes every draw call.
	PositionAttribute = "position"
)

// AttributeDecl declares a vertex attribute buffer. Data is uploaded at
// construction; nil uploads an empty buffer.
type AttributeDecl struct {
	Components int
	Data       []float32
}

type attribute struct {
	components int
	data       []float32
	buf        gfx.Buffer
	loc        int32
	populated  bool
}

// Buffers is the set of named vertex attribute buffers of one engine.
// The length of the position buffer divided by its component count is the
// particle count of every draw. Other buffers must be sized consistently by
// the caller; they are not cross-checked.
type Buffers struct {
	dev    gfx.Device // nil while the engine is inert
	prog   gfx.Program
	log    *slog.Logger
	byName map[string]*attribute
	count  int
}

func newBuffers(dev gfx.Device, prog gfx.Program, log *slog.Logger) *Buffers {
	return &Buffers{dev: dev, prog: prog, log: log, byName: make(map[string]*attribute)}
}

func (b *Buffers) declare(name string, components int) error {
	if components < 1 || components > 4 {
		return fmt.Errorf("attribute %q: components must be 1..4, got %d", name, components)
	}
	a := &attribute{components: components, loc: -1}
	if b.dev != nil {
		a.loc = b.dev.AttribLocation(b.prog, AttributePrefix+name)
		a.buf = b.dev.CreateBuffer()
		b.dev.BindBuffer(a.buf)
		if a.loc >= 0 {
			b.dev.VertexAttrib(uint32(a.loc), components)
		} else {
			b.log.Debug("attribute not active in program", "attribute", name)
		}
		b.log.Debug("buffer allocated", "attribute", name, "buffer", a.buf, "components", components)
	}
	b.byName[name] = a
	return nil
}

// Set replaces the contents of a buffer and uploads it as tightly packed
// float32. len(data) must be a multiple of the declared components. The values
// are copied, so the caller may reuse data for the next frame.
func (b *Buffers) Set(name string, data []float32) error {
	a, ok := b.byName[name]
	if !ok {
		return fmt.Errorf("buffer %q: %w", name, ErrUndeclared)
	}
	if len(data)%a.components != 0 {
		return &ShapeMismatchError{
			Name: name,
			Want: fmt.Sprintf("multiple of %d values", a.components),
			Got:  fmt.Sprintf("%d values", len(data)),
		}
	}
	a.data = append(a.data[:0], data...)
	a.populated = true
	if b.dev != nil {
		b.dev.BindBuffer(a.buf)
		b.dev.BufferData(a.data, gfx.DynamicDraw)
	}
	if name == PositionAttribute {
		b.count = len(data) / a.components
	}
	return nil
}

// MustSet is Set for callers that treat a bad name or size as a bug.
func (b *Buffers) MustSet(name string, data []float32) {
	if err := b.Set(name, data); err != nil {
		panic(err)
	}
}

// Get returns the data last set.
func (b *Buffers) Get(name string) ([]float32, bool) {
	a, ok := b.byName[name]
	if !ok {
		return nil, false
	}
	return a.data, true
}

// Components returns the declared components per vertex of name.
func (b *Buffers) Components(name string) (int, bool) {
	a, ok := b.byName[name]
	if !ok {
		return 0, false
	}
	return a.components, true
}

// Count is the particle count derived from the position buffer.
func (b *Buffers) Count() int { return b.count }

// Populated reports whether every declared buffer has been set at least once.
func (b *Buffers) Populated() bool {
	for _, a := range b.byName {
		if !a.populated {
			return false
		}
	}
	return true
}

// Unbind clears the array buffer binding.
func (b *Buffers) Unbind() {
	if b.dev != nil {
		b.dev.BindBuffer(0)
	}
}

// Names returns the declared names in sorted order.
func (b *Buffers) Names() []string {
	names := make([]string, 0, len(b.byName))
	for n := range b.byName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func (b *Buffers) release() {
	if b.dev == nil {
		return
	}
	for _, a := range b.byName {
		if a.buf != 0 {
			b.dev.DeleteBuffer(a.buf)
			a.buf = 0
		}
	}
	b.dev = nil
}
