package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/photon/engine/assets"
	"github.com/hubastard/photon/engine/colors"
	"github.com/hubastard/photon/engine/gfx"
	"github.com/hubastard/photon/engine/particles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
title = "sparks"
width = 800
height = 600
vsync = false
antialias = true
texture = "spark.png"
time_divisor = "2500ms"
clear_color = [0.1, 0.2, 0.3]
count = 20000

[blend]
src = "src_alpha"
dst = "ONE_MINUS_SRC_ALPHA"

[uniforms.size]
kind = "1f"
value = [20.0]

[uniforms.tint]
kind = "vec3"
value = [1.0, 0.5, 0.25]

[uniforms.model]
kind = "mat4"

[attributes.color]
components = 4
`

func TestDecode(t *testing.T) {
	s, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "sparks", s.Title)
	assert.False(t, s.VSync)
	assert.Equal(t, Duration(2500*time.Millisecond), s.TimeDivisor)
	assert.Equal(t, gfx.BlendMode{Src: gfx.SrcAlpha, Dst: gfx.OneMinusSrcAlpha}, s.Blend)
	assert.Equal(t, particles.Float, s.Uniforms["size"].Kind)
	assert.Equal(t, 20000, s.Count)

	win := s.Window()
	assert.Equal(t, 800, win.Width)
	assert.True(t, win.Antialias)
	assert.Equal(t, colors.Color{0.1, 0.2, 0.3, 1}, win.ClearColor)

	opts, err := s.Options()
	require.NoError(t, err)
	assert.Equal(t, "spark.png", opts.Texture)
	assert.Equal(t, 2500*time.Millisecond, opts.TimeDivisor)
	assert.Equal(t, particles.UniformDecl{Kind: particles.Float, Value: float32(20)}, opts.Uniforms["size"])
	assert.Equal(t, mgl32.Vec3{1, 0.5, 0.25}, opts.Uniforms["tint"].Value)
	assert.Equal(t, mgl32.Mat4{}, opts.Uniforms["model"].Value)
	assert.Equal(t, 4, opts.Attributes["color"].Components)
	assert.Empty(t, opts.VertexSource, "built-in program when no shader files are named")
}

func TestDecodeDefaults(t *testing.T) {
	s, err := Decode(strings.NewReader(`title = "empty"`))
	require.NoError(t, err)

	d := Default()
	assert.Equal(t, d.Width, s.Width)
	assert.True(t, s.VSync)
	assert.Equal(t, gfx.AdditiveBlend, s.Blend)
	assert.Equal(t, Duration(particles.DefaultTimeDivisor), s.TimeDivisor)
	assert.Equal(t, colors.Transparent, s.Window().ClearColor)
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "colour = [1.0, 1.0, 1.0]",
		"bad kind":       "[uniforms.x]\nkind = \"sampler2D\"",
		"bad blend":      "[blend]\nsrc = \"HALF\"",
		"bad duration":   `time_divisor = "soon"`,
		"value length":   "[uniforms.x]\nkind = \"vec2\"\nvalue = [1.0]",
		"components":     "[attributes.v]\ncomponents = 0",
		"size":           "width = 0",
		"clear color":    "clear_color = [1.0]",
		"negative count": "count = -1",
		"zero divisor":   `time_divisor = "0s"`,
	}
	for name, src := range cases {
		_, err := Decode(strings.NewReader(src))
		assert.Error(t, err, name)
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	s := Default()
	s.Width = 0
	s.Count = -5
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "count")
}

func TestLoadReadsShaders(t *testing.T) {
	root := t.TempDir()
	old := assets.Root
	assets.Root = root
	t.Cleanup(func() { assets.Root = old })

	require.NoError(t, os.MkdirAll(filepath.Join(root, "shaders"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "shaders", "p.vert"), []byte("// vs"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "shaders", "p.frag"), []byte("// fs"), 0o644))
	path := filepath.Join(root, "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte("vertex = \"p.vert\"\nfragment = \"p.frag\"\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	opts, err := s.Options()
	require.NoError(t, err)
	assert.Equal(t, "// vs", opts.VertexSource)
	assert.Equal(t, "// fs", opts.FragmentSource)

	s.Fragment = "missing.frag"
	_, err = s.Options()
	assert.ErrorContains(t, err, "missing.frag")

	_, err = Load(filepath.Join(root, "nope.toml"))
	assert.Error(t, err)
}

func TestDurationText(t *testing.T) {
	b, err := Duration(1500 * time.Millisecond).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(b))
}
