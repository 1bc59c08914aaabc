package glbackend

import (
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/photon/engine/gfx"
)

// Device implements gfx.Device on an OpenGL 3.3 core context.
type Device struct {
	vao uint32
}

var _ gfx.Device = (*Device)(nil)

// New prepares the current context for point-sprite drawing. The context
// must be current and gl.Init must have run (see platform.NewGLFWWindow).
func New() *Device {
	d := &Device{}

	// Core profile refuses attribute setup without a bound VAO.
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	// Let the vertex stage drive gl_PointSize.
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	return d
}

// Info reports vendor, renderer and version strings of the context.
func (d *Device) Info() (vendor, renderer, version string) {
	return gl.GoStr(gl.GetString(gl.VENDOR)),
		gl.GoStr(gl.GetString(gl.RENDERER)),
		gl.GoStr(gl.GetString(gl.VERSION))
}

// Release deletes the objects owned by the device itself.
func (d *Device) Release() {
	if d.vao != 0 {
		gl.BindVertexArray(0)
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

// --- Shader utilities ---

func cstr(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func (d *Device) CompileShader(stage gfx.Stage, source string) (gfx.Shader, string, bool) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == gfx.StageFragment {
		shaderType = gl.FRAGMENT_SHADER
	}
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(cstr(source))
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen)+1)
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, strings.TrimRight(log, "\x00"), false
	}
	return gfx.Shader(sh), "", true
}

func (d *Device) LinkProgram(vs, fs gfx.Shader) (gfx.Program, string, bool) {
	prog := gl.CreateProgram()
	gl.AttachShader(prog, uint32(vs))
	gl.AttachShader(prog, uint32(fs))
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen)+1)
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, strings.TrimRight(log, "\x00"), false
	}
	return gfx.Program(prog), "", true
}

func (d *Device) UseProgram(p gfx.Program)    { gl.UseProgram(uint32(p)) }
func (d *Device) DeleteShader(s gfx.Shader)   { gl.DeleteShader(uint32(s)) }
func (d *Device) DeleteProgram(p gfx.Program) { gl.DeleteProgram(uint32(p)) }

// --- Uniforms ---

func (d *Device) UniformLocation(p gfx.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(cstr(name)))
}

func (d *Device) Uniform1f(loc int32, v float32)          { gl.Uniform1f(loc, v) }
func (d *Device) Uniform1i(loc int32, v int32)            { gl.Uniform1i(loc, v) }
func (d *Device) Uniform2f(loc int32, x, y float32)       { gl.Uniform2f(loc, x, y) }
func (d *Device) Uniform3f(loc int32, x, y, z float32)    { gl.Uniform3f(loc, x, y, z) }
func (d *Device) Uniform4f(loc int32, x, y, z, w float32) { gl.Uniform4f(loc, x, y, z, w) }

func (d *Device) UniformMatrix2(loc int32, m mgl32.Mat2) {
	gl.UniformMatrix2fv(loc, 1, false, &m[0])
}

func (d *Device) UniformMatrix3(loc int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(loc, 1, false, &m[0])
}

func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

// --- Buffers ---

func (d *Device) AttribLocation(p gfx.Program, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(cstr(name)))
}

func (d *Device) CreateBuffer() gfx.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gfx.Buffer(b)
}

func (d *Device) BindBuffer(b gfx.Buffer) { gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b)) }

func (d *Device) VertexAttrib(index uint32, components int) {
	gl.EnableVertexAttribArray(index)
	gl.VertexAttribPointer(index, int32(components), gl.FLOAT, false, 0, gl.PtrOffset(0))
}

func (d *Device) BufferData(data []float32, usage gfx.Usage) {
	if len(data) == 0 {
		// gl.Ptr cannot take an empty slice.
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, glUsage(usage))
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), glUsage(usage))
}

func (d *Device) DeleteBuffer(b gfx.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

// --- Textures ---

func (d *Device) CreateTexture() gfx.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return gfx.Texture(t)
}

func (d *Device) BindTexture(unit int, t gfx.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *Device) TexImage2D(width, height int, rgba []byte) {
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
}

func (d *Device) TexFilter(min, mag gfx.Filter) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(min))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(mag))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}

func (d *Device) GenerateMipmap() { gl.GenerateMipmap(gl.TEXTURE_2D) }

func (d *Device) DeleteTexture(t gfx.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

// --- Frame state ---

func (d *Device) Viewport(x, y, w, h int) {
	gl.Viewport(int32(x), int32(y), int32(w), int32(h))
}

func (d *Device) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (d *Device) Clear()                        { gl.Clear(gl.COLOR_BUFFER_BIT) }

func (d *Device) SetBlend(m gfx.BlendMode) {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(glBlendFactor(m.Src), glBlendFactor(m.Dst))
}

func (d *Device) SetDepthTest(on bool)   { toggle(gl.DEPTH_TEST, on) }
func (d *Device) SetMultisample(on bool) { toggle(gl.MULTISAMPLE, on) }

func (d *Device) DrawPoints(count int) { gl.DrawArrays(gl.POINTS, 0, int32(count)) }

func toggle(c uint32, on bool) {
	if on {
		gl.Enable(c)
	} else {
		gl.Disable(c)
	}
}
