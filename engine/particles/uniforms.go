package particles

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/photon/engine/gfx"
)

// UniformPrefix is prepended to declared names to form the GLSL identifier.
const UniformPrefix = "u_"

// UniformDecl declares a uniform. A nil Value starts at Kind.Zero().
type UniformDecl struct {
	Kind  Kind
	Value any
}

type uniform struct {
	kind  Kind
	value any
	loc   int32
}

// Uniforms is the set of named uniforms of one engine. Setting a value
// pushes it to the GPU immediately. Not safe for concurrent use; mutate it
// from the render loop (OnFrame) or through Engine.Post.
type Uniforms struct {
	dev    gfx.Device // nil while the engine is inert
	prog   gfx.Program
	log    *slog.Logger
	byName map[string]*uniform
}

func newUniforms(dev gfx.Device, prog gfx.Program, log *slog.Logger) *Uniforms {
	return &Uniforms{dev: dev, prog: prog, log: log, byName: make(map[string]*uniform)}
}

func (u *Uniforms) declare(name string, d UniformDecl) error {
	if !d.Kind.valid() {
		return fmt.Errorf("uniform %q: invalid kind %v", name, d.Kind)
	}
	value := cloneValue(d.Value)
	if value == nil {
		value = d.Kind.Zero()
	}
	if !d.Kind.Accepts(value) {
		return &ShapeMismatchError{Name: name, Want: d.Kind.String(), Got: shapeOf(value)}
	}

	un := &uniform{kind: d.Kind, value: value, loc: -1}
	if u.dev != nil {
		un.loc = u.dev.UniformLocation(u.prog, UniformPrefix+name)
		if un.loc < 0 {
			u.log.Debug("uniform not active in program", "uniform", name)
		}
	}
	u.byName[name] = un
	u.push(un)
	return nil
}

func (u *Uniforms) push(un *uniform) {
	if u.dev == nil || un.loc < 0 {
		return
	}
	push(u.dev, un.loc, un.kind, un.value)
}

// release drops the device; later sets only update the stored values.
func (u *Uniforms) release() { u.dev = nil }

func cloneValue(v any) any {
	if s, ok := v.([]float32); ok {
		return slices.Clone(s)
	}
	return v
}

// Set stores a copy of v and pushes it to the GPU.
func (u *Uniforms) Set(name string, v any) error {
	un, ok := u.byName[name]
	if !ok {
		return fmt.Errorf("uniform %q: %w", name, ErrUndeclared)
	}
	if !un.kind.Accepts(v) {
		return &ShapeMismatchError{Name: name, Want: un.kind.String(), Got: shapeOf(v)}
	}
	un.value = cloneValue(v)
	u.push(un)
	return nil
}

// MustSet is Set for callers that treat a bad name or shape as a bug.
func (u *Uniforms) MustSet(name string, v any) {
	if err := u.Set(name, v); err != nil {
		panic(err)
	}
}

// Get returns the last value set; there is no GPU read-back.
func (u *Uniforms) Get(name string) (any, bool) {
	un, ok := u.byName[name]
	if !ok {
		return nil, false
	}
	return un.value, true
}

// Kind returns the declared kind of name.
func (u *Uniforms) Kind(name string) (Kind, bool) {
	un, ok := u.byName[name]
	if !ok {
		return 0, false
	}
	return un.kind, true
}

// Has reports whether name is declared.
func (u *Uniforms) Has(name string) bool {
	_, ok := u.byName[name]
	return ok
}

// Names returns the declared names in sorted order.
func (u *Uniforms) Names() []string {
	names := make([]string, 0, len(u.byName))
	for n := range u.byName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func (u *Uniforms) SetFloat(name string, v float32) error   { return u.Set(name, v) }
func (u *Uniforms) SetInt(name string, v int32) error       { return u.Set(name, v) }
func (u *Uniforms) SetVec2(name string, v mgl32.Vec2) error { return u.Set(name, v) }
func (u *Uniforms) SetVec3(name string, v mgl32.Vec3) error { return u.Set(name, v) }
func (u *Uniforms) SetVec4(name string, v mgl32.Vec4) error { return u.Set(name, v) }
func (u *Uniforms) SetMat4(name string, v mgl32.Mat4) error { return u.Set(name, v) }

// Float returns a Float uniform, or 0 if name is not a float32.
func (u *Uniforms) Float(name string) float32 {
	v, _ := u.Get(name)
	f, _ := v.(float32)
	return f
}

// Vec2 returns a Vec2 uniform set as mgl32.Vec2 or []float32.
func (u *Uniforms) Vec2(name string) mgl32.Vec2 {
	v, _ := u.Get(name)
	switch x := v.(type) {
	case mgl32.Vec2:
		return x
	case []float32:
		if len(x) == 2 {
			return mgl32.Vec2{x[0], x[1]}
		}
	}
	return mgl32.Vec2{}
}
