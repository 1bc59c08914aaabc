// Package gfxtest provides an in-memory gfx.Device that records what the
// engine asks the GPU to do.
package gfxtest

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/photon/engine/gfx"
)

// Image is a texture upload.
type Image struct {
	Width, Height int
	Pixels        []byte
}

// TextureState is what the recorder knows about one texture object.
type TextureState struct {
	Images   []Image
	Min, Mag gfx.Filter
	Mipmaps  int
}

// Last returns the most recent upload.
func (t *TextureState) Last() Image {
	if len(t.Images) == 0 {
		return Image{}
	}
	return t.Images[len(t.Images)-1]
}

// AttribState describes an enabled vertex input.
type AttribState struct {
	Buffer     gfx.Buffer
	Components int
}

// Device records GPU calls. The zero value is not usable; call New.
type Device struct {
	// CompileErrors fails compilation of a stage with the given info log.
	CompileErrors map[gfx.Stage]string
	// LinkError, when non-empty, fails linking with this info log.
	LinkError string
	// Inactive lists uniform/attribute names the program does not use.
	Inactive map[string]bool

	// Calls lists method names in call order.
	Calls []string

	Program    gfx.Program
	Deleted    []string
	Uniforms   map[int32]any
	UniformLoc map[string]int32
	AttribLoc  map[string]int32
	Attribs    map[uint32]AttribState
	Data       map[gfx.Buffer][]float32
	Usages     map[gfx.Buffer]gfx.Usage
	Bound      gfx.Buffer
	Textures   map[gfx.Texture]*TextureState
	BoundTex   gfx.Texture
	BoundUnit  int

	ViewportRect [4]int
	ClearRGBA    [4]float32
	Blend        gfx.BlendMode
	BlendOn      bool
	DepthTest    bool
	Multisample  bool
	Draws        []int

	next uint32
}

var _ gfx.Device = (*Device)(nil)

func New() *Device {
	return &Device{
		CompileErrors: map[gfx.Stage]string{},
		Inactive:      map[string]bool{},
		Uniforms:      map[int32]any{},
		UniformLoc:    map[string]int32{},
		AttribLoc:     map[string]int32{},
		Attribs:       map[uint32]AttribState{},
		Data:          map[gfx.Buffer][]float32{},
		Usages:        map[gfx.Buffer]gfx.Usage{},
		Textures:      map[gfx.Texture]*TextureState{},
		DepthTest:     true,
	}
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

func (d *Device) call(name string) { d.Calls = append(d.Calls, name) }

// Count returns how many times the named method was called.
func (d *Device) Count(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// Reset forgets the call log and draws, keeping GPU state.
func (d *Device) Reset() {
	d.Calls = nil
	d.Draws = nil
}

// Uniform returns the value last pushed to the named uniform, or nil.
func (d *Device) Uniform(name string) any {
	loc, ok := d.UniformLoc[name]
	if !ok {
		return nil
	}
	return d.Uniforms[loc]
}

// BufferFor returns the contents of the buffer bound to the named attribute.
func (d *Device) BufferFor(name string) []float32 {
	loc, ok := d.AttribLoc[name]
	if !ok || loc < 0 {
		return nil
	}
	return d.Data[d.Attribs[uint32(loc)].Buffer]
}

// LastDraw returns the point count of the latest draw, or -1.
func (d *Device) LastDraw() int {
	if len(d.Draws) == 0 {
		return -1
	}
	return d.Draws[len(d.Draws)-1]
}

func (d *Device) CompileShader(stage gfx.Stage, source string) (gfx.Shader, string, bool) {
	d.call("CompileShader")
	if msg, ok := d.CompileErrors[stage]; ok {
		return 0, msg, false
	}
	if strings.TrimSpace(source) == "" {
		return 0, fmt.Sprintf("ERROR: 0:1: empty %s shader", stage), false
	}
	return gfx.Shader(d.id()), "", true
}

func (d *Device) LinkProgram(vs, fs gfx.Shader) (gfx.Program, string, bool) {
	d.call("LinkProgram")
	if d.LinkError != "" {
		return 0, d.LinkError, false
	}
	return gfx.Program(d.id()), "", true
}

func (d *Device) UseProgram(p gfx.Program) {
	d.call("UseProgram")
	d.Program = p
}

func (d *Device) DeleteShader(s gfx.Shader) {
	d.call("DeleteShader")
	d.Deleted = append(d.Deleted, fmt.Sprintf("shader:%d", s))
}

func (d *Device) DeleteProgram(p gfx.Program) {
	d.call("DeleteProgram")
	d.Deleted = append(d.Deleted, fmt.Sprintf("program:%d", p))
	if d.Program == p {
		d.Program = 0
	}
}

func (d *Device) UniformLocation(p gfx.Program, name string) int32 {
	d.call("UniformLocation")
	if d.Inactive[name] {
		return -1
	}
	if loc, ok := d.UniformLoc[name]; ok {
		return loc
	}
	loc := int32(len(d.UniformLoc))
	d.UniformLoc[name] = loc
	return loc
}

func (d *Device) set(name string, loc int32, v any) {
	d.call(name)
	if loc < 0 {
		return
	}
	d.Uniforms[loc] = v
}

func (d *Device) Uniform1f(loc int32, v float32)       { d.set("Uniform1f", loc, v) }
func (d *Device) Uniform1i(loc int32, v int32)         { d.set("Uniform1i", loc, v) }
func (d *Device) Uniform2f(loc int32, x, y float32)    { d.set("Uniform2f", loc, mgl32.Vec2{x, y}) }
func (d *Device) Uniform3f(loc int32, x, y, z float32) { d.set("Uniform3f", loc, mgl32.Vec3{x, y, z}) }
func (d *Device) Uniform4f(loc int32, x, y, z, w float32) {
	d.set("Uniform4f", loc, mgl32.Vec4{x, y, z, w})
}
func (d *Device) UniformMatrix2(loc int32, m mgl32.Mat2) { d.set("UniformMatrix2", loc, m) }
func (d *Device) UniformMatrix3(loc int32, m mgl32.Mat3) { d.set("UniformMatrix3", loc, m) }
func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) { d.set("UniformMatrix4", loc, m) }

func (d *Device) AttribLocation(p gfx.Program, name string) int32 {
	d.call("AttribLocation")
	if d.Inactive[name] {
		return -1
	}
	if loc, ok := d.AttribLoc[name]; ok {
		return loc
	}
	loc := int32(len(d.AttribLoc))
	d.AttribLoc[name] = loc
	return loc
}

func (d *Device) CreateBuffer() gfx.Buffer {
	d.call("CreateBuffer")
	return gfx.Buffer(d.id())
}

func (d *Device) BindBuffer(b gfx.Buffer) {
	d.call("BindBuffer")
	d.Bound = b
}

func (d *Device) VertexAttrib(index uint32, components int) {
	d.call("VertexAttrib")
	d.Attribs[index] = AttribState{Buffer: d.Bound, Components: components}
}

func (d *Device) BufferData(data []float32, usage gfx.Usage) {
	d.call("BufferData")
	if d.Bound == 0 {
		panic("gfxtest: BufferData with no buffer bound")
	}
	d.Data[d.Bound] = append([]float32(nil), data...)
	d.Usages[d.Bound] = usage
}

func (d *Device) DeleteBuffer(b gfx.Buffer) {
	d.call("DeleteBuffer")
	d.Deleted = append(d.Deleted, fmt.Sprintf("buffer:%d", b))
	delete(d.Data, b)
}

func (d *Device) CreateTexture() gfx.Texture {
	d.call("CreateTexture")
	t := gfx.Texture(d.id())
	d.Textures[t] = &TextureState{}
	return t
}

func (d *Device) BindTexture(unit int, t gfx.Texture) {
	d.call("BindTexture")
	d.BoundUnit = unit
	d.BoundTex = t
}

func (d *Device) bound() *TextureState {
	ts, ok := d.Textures[d.BoundTex]
	if !ok {
		panic("gfxtest: texture call with no texture bound")
	}
	return ts
}

func (d *Device) TexImage2D(width, height int, rgba []byte) {
	d.call("TexImage2D")
	ts := d.bound()
	ts.Images = append(ts.Images, Image{Width: width, Height: height, Pixels: append([]byte(nil), rgba...)})
}

func (d *Device) TexFilter(min, mag gfx.Filter) {
	d.call("TexFilter")
	ts := d.bound()
	ts.Min, ts.Mag = min, mag
}

func (d *Device) GenerateMipmap() {
	d.call("GenerateMipmap")
	d.bound().Mipmaps++
}

func (d *Device) DeleteTexture(t gfx.Texture) {
	d.call("DeleteTexture")
	d.Deleted = append(d.Deleted, fmt.Sprintf("texture:%d", t))
}

func (d *Device) Viewport(x, y, w, h int) {
	d.call("Viewport")
	d.ViewportRect = [4]int{x, y, w, h}
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.call("ClearColor")
	d.ClearRGBA = [4]float32{r, g, b, a}
}

func (d *Device) Clear() { d.call("Clear") }

func (d *Device) SetBlend(m gfx.BlendMode) {
	d.call("SetBlend")
	d.Blend = m
	d.BlendOn = true
}

func (d *Device) SetDepthTest(on bool) {
	d.call("SetDepthTest")
	d.DepthTest = on
}

func (d *Device) SetMultisample(on bool) {
	d.call("SetMultisample")
	d.Multisample = on
}

func (d *Device) DrawPoints(count int) {
	d.call("DrawPoints")
	d.Draws = append(d.Draws, count)
}
