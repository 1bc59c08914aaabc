package particles

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hubastard/photon/engine/assets"
	"github.com/hubastard/photon/engine/colors"
	"github.com/hubastard/photon/engine/core"
	"github.com/hubastard/photon/engine/gfx"
	"github.com/hubastard/photon/engine/logging"
	"github.com/hubastard/photon/engine/scene"
)

// Built-in uniform names.
const (
	UniformResolution = "resolution"
	UniformTime       = "time"
	UniformHasTexture = "hasTexture"
	UniformTexture    = "texture"
	UniformProjection = "projection"
)

// DefaultTimeDivisor scales elapsed time into the time uniform.
const DefaultTimeDivisor = 5 * time.Second

// Options configures an Engine.
type Options struct {
	Antialias bool

	// Empty sources fall back to DefaultVertexSource/DefaultFragmentSource.
	VertexSource   string
	FragmentSource string

	// Uniforms and Attributes are merged over the built-ins
	// (resolution, time, hasTexture, texture; position with 3 components).
	Uniforms   map[string]UniformDecl
	Attributes map[string]AttributeDecl

	// Texture, when set, is loaded right after construction.
	Texture string

	// Zero value means gfx.AdditiveBlend.
	Blend      gfx.BlendMode
	ClearColor colors.Color

	// TimeDivisor scales elapsed time for the time uniform; 0 means DefaultTimeDivisor.
	TimeDivisor time.Duration

	// Projection feeds a declared Mat4 "projection" uniform on every resize.
	// Nil means scene.PixelOrtho{}.
	Projection scene.Projection

	// OnFrame runs after each draw, on the render loop goroutine.
	OnFrame func(e *Engine, elapsed time.Duration)
	// OnEvent receives every holder event after the engine handled it.
	OnEvent func(e *Engine, ev core.Event)

	Loader assets.Loader
	Logger *slog.Logger
	Clock  func() time.Time
}

func builtinUniforms() map[string]UniformDecl {
	return map[string]UniformDecl{
		UniformResolution: {Kind: Vec2},
		UniformTime:       {Kind: Float},
		UniformHasTexture: {Kind: Float},
		UniformTexture:    {Kind: Int},
	}
}

func builtinAttributes() map[string]AttributeDecl {
	return map[string]AttributeDecl{
		PositionAttribute: {Components: 3},
	}
}

func (o Options) withDefaults() Options {
	if o.VertexSource == "" {
		o.VertexSource = DefaultVertexSource
	}
	if o.FragmentSource == "" {
		o.FragmentSource = DefaultFragmentSource
	}

	uniforms := builtinUniforms()
	for name, d := range o.Uniforms {
		uniforms[name] = d
	}
	o.Uniforms = uniforms

	attrs := builtinAttributes()
	for name, d := range o.Attributes {
		attrs[name] = d
	}
	o.Attributes = attrs

	if o.Blend == (gfx.BlendMode{}) {
		o.Blend = gfx.AdditiveBlend
	}
	if o.TimeDivisor <= 0 {
		o.TimeDivisor = DefaultTimeDivisor
	}
	if o.Projection == nil {
		o.Projection = scene.PixelOrtho{}
	}
	if o.Loader == nil {
		o.Loader = assets.NewFileLoader()
	}
	if o.Logger == nil {
		o.Logger = logging.Logger()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// validate checks declarations before any GPU object is created.
func (o Options) validate() error {
	for name, d := range o.Uniforms {
		if !d.Kind.valid() {
			return fmt.Errorf("uniform %q: invalid kind %v", name, d.Kind)
		}
		if d.Value != nil && !d.Kind.Accepts(d.Value) {
			return &ShapeMismatchError{Name: name, Want: d.Kind.String(), Got: shapeOf(d.Value)}
		}
	}
	for name, d := range o.Attributes {
		if d.Components < 1 || d.Components > 4 {
			return fmt.Errorf("attribute %q: components must be 1..4, got %d", name, d.Components)
		}
		if len(d.Data)%d.Components != 0 {
			return &ShapeMismatchError{
				Name: name,
				Want: fmt.Sprintf("multiple of %d values", d.Components),
				Got:  fmt.Sprintf("%d values", len(d.Data)),
			}
		}
	}
	return nil
}
