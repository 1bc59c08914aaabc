// Package gfx describes the GPU operations the particle engine relies on.
//
// Device is a thin mirror of the OpenGL calls used by the engine. The
// production implementation lives in engine/gfx/gl; engine/gfx/gfxtest
// provides an in-memory recorder.
package gfx

import "github.com/go-gl/mathgl/mgl32"

// Handles are opaque GPU object names; zero means "none".
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
	Texture uint32
)

// Device issues GPU commands. All methods must be called from the thread
// that owns the GL context.
type Device interface {
	// CompileShader returns ok=false and the info log when compilation fails.
	CompileShader(stage Stage, source string) (sh Shader, infoLog string, ok bool)
	LinkProgram(vs, fs Shader) (p Program, infoLog string, ok bool)
	UseProgram(p Program)
	DeleteShader(s Shader)
	DeleteProgram(p Program)

	// UniformLocation returns -1 for names the linked program does not use.
	UniformLocation(p Program, name string) int32
	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)
	Uniform2f(loc int32, x, y float32)
	Uniform3f(loc int32, x, y, z float32)
	Uniform4f(loc int32, x, y, z, w float32)
	UniformMatrix2(loc int32, m mgl32.Mat2)
	UniformMatrix3(loc int32, m mgl32.Mat3)
	UniformMatrix4(loc int32, m mgl32.Mat4)

	// AttribLocation returns -1 for inputs the linked program does not use.
	AttribLocation(p Program, name string) int32
	CreateBuffer() Buffer
	// BindBuffer binds the array buffer; 0 unbinds.
	BindBuffer(b Buffer)
	// VertexAttrib enables index and points it at the bound buffer as
	// tightly packed float32 with the given components per vertex.
	VertexAttrib(index uint32, components int)
	// BufferData replaces the contents of the bound array buffer.
	BufferData(data []float32, usage Usage)
	DeleteBuffer(b Buffer)

	CreateTexture() Texture
	BindTexture(unit int, t Texture)
	// TexImage2D uploads tightly packed RGBA8 pixels to the bound texture.
	TexImage2D(width, height int, rgba []byte)
	TexFilter(min, mag Filter)
	GenerateMipmap()
	DeleteTexture(t Texture)

	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear()
	SetBlend(m BlendMode)
	SetDepthTest(on bool)
	SetMultisample(on bool)
	DrawPoints(count int)
}
