// Package config reads a particle scene description from TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hubastard/photon/engine/assets"
	"github.com/hubastard/photon/engine/colors"
	"github.com/hubastard/photon/engine/core"
	"github.com/hubastard/photon/engine/gfx"
	"github.com/hubastard/photon/engine/particles"
	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration written as a string ("5s", "1500ms").
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Uniform declares a uniform; Value holds its scalars in column-major order.
type Uniform struct {
	Kind  particles.Kind `toml:"kind"`
	Value []float32      `toml:"value"`
}

// Attribute declares a vertex attribute buffer.
type Attribute struct {
	Components int `toml:"components"`
}

// Scene describes one window and the engine drawing into it.
type Scene struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	VSync     bool   `toml:"vsync"`
	Antialias bool   `toml:"antialias"`

	// Shader files relative to <assets.Root>/shaders; empty uses the built-in program.
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`

	// Texture is a file under <assets.Root>/textures or an http(s) URL.
	Texture string `toml:"texture"`

	TimeDivisor Duration      `toml:"time_divisor"`
	ClearColor  []float32     `toml:"clear_color"`
	Blend       gfx.BlendMode `toml:"blend"`

	// Count is the number of particles the host generates.
	Count int `toml:"count"`

	Uniforms   map[string]Uniform   `toml:"uniforms"`
	Attributes map[string]Attribute `toml:"attributes"`
}

// Default is the scene used for fields a file leaves out.
func Default() Scene {
	return Scene{
		Title:       "photon",
		Width:       1280,
		Height:      720,
		VSync:       true,
		TimeDivisor: Duration(particles.DefaultTimeDivisor),
		ClearColor:  []float32{0, 0, 0, 0},
		Blend:       gfx.AdditiveBlend,
		Count:       10000,
	}
}

// Load reads a scene file over Default and validates it.
func Load(path string) (Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scene{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return Scene{}, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// Decode reads a scene from r over Default and validates it. Unknown keys
// are rejected.
func Decode(r io.Reader) (Scene, error) {
	s := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return Scene{}, fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return Scene{}, err
	}
	if err := s.Validate(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

// Validate reports every invalid field.
func (s Scene) Validate() error {
	var errs []error
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", s.Width, s.Height))
	}
	if s.Count < 0 {
		errs = append(errs, fmt.Errorf("count must not be negative, got %d", s.Count))
	}
	if s.TimeDivisor <= 0 {
		errs = append(errs, errors.New("time_divisor must be positive"))
	}
	if _, err := colors.FromSlice(s.ClearColor); err != nil {
		errs = append(errs, fmt.Errorf("clear_color: %w", err))
	}
	for name, u := range s.Uniforms {
		if _, err := u.Kind.FromFloats(u.Value); err != nil {
			errs = append(errs, fmt.Errorf("uniform %q: %w", name, err))
		}
	}
	for name, a := range s.Attributes {
		if a.Components < 1 || a.Components > 4 {
			errs = append(errs, fmt.Errorf("attribute %q: components must be 1..4, got %d", name, a.Components))
		}
	}
	return errors.Join(errs...)
}

// Window returns the host window configuration.
func (s Scene) Window() core.Config {
	c, _ := colors.FromSlice(s.ClearColor)
	return core.Config{
		Title:      s.Title,
		Width:      s.Width,
		Height:     s.Height,
		VSync:      s.VSync,
		Antialias:  s.Antialias,
		ClearColor: c,
	}
}

// Options builds engine options, reading shader files through assets.
// Callbacks, loader and logger are left for the caller.
func (s Scene) Options() (particles.Options, error) {
	opts := particles.Options{
		Antialias:   s.Antialias,
		Texture:     s.Texture,
		Blend:       s.Blend,
		TimeDivisor: time.Duration(s.TimeDivisor),
		Uniforms:    make(map[string]particles.UniformDecl, len(s.Uniforms)),
		Attributes:  make(map[string]particles.AttributeDecl, len(s.Attributes)),
	}
	var err error
	if opts.ClearColor, err = colors.FromSlice(s.ClearColor); err != nil {
		return particles.Options{}, fmt.Errorf("clear_color: %w", err)
	}
	if s.Vertex != "" {
		if opts.VertexSource, err = assets.LoadShader(s.Vertex); err != nil {
			return particles.Options{}, err
		}
	}
	if s.Fragment != "" {
		if opts.FragmentSource, err = assets.LoadShader(s.Fragment); err != nil {
			return particles.Options{}, err
		}
	}

	for name, u := range s.Uniforms {
		v, err := u.Kind.FromFloats(u.Value)
		if err != nil {
			return particles.Options{}, fmt.Errorf("uniform %q: %w", name, err)
		}
		opts.Uniforms[name] = particles.UniformDecl{Kind: u.Kind, Value: v}
	}
	for name, a := range s.Attributes {
		opts.Attributes[name] = particles.AttributeDecl{Components: a.Components}
	}
	return opts, nil
}
