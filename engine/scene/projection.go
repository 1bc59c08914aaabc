// Package scene computes projection matrices for a `projection` uniform.
package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Projection maps a viewport size in logical pixels to a clip-space matrix.
type Projection interface {
	Matrix(width, height float32) mgl32.Mat4
}

// ProjectionFunc adapts a function to Projection.
type ProjectionFunc func(width, height float32) mgl32.Mat4

func (f ProjectionFunc) Matrix(width, height float32) mgl32.Mat4 { return f(width, height) }

// PixelOrtho maps pixel coordinates with a bottom-left origin to clip space.
// TopLeft flips Y so that y grows downward.
type PixelOrtho struct {
	TopLeft bool
}

func (p PixelOrtho) Matrix(width, height float32) mgl32.Mat4 {
	if p.TopLeft {
		return mgl32.Ortho(0, width, height, 0, -1, 1)
	}
	return mgl32.Ortho(0, width, 0, height, -1, 1)
}

// Perspective looks down -Z at the z=0 plane from the distance at which its visible
// height equals the viewport height, so z=0 particles keep pixel scale.
type Perspective struct {
	FovY      float32 // degrees
	Near, Far float32
}

func (p Perspective) Matrix(width, height float32) mgl32.Mat4 {
	fovy := p.FovY
	if fovy <= 0 {
		fovy = 45
	}
	near, far := p.Near, p.Far
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = near + 10000
	}
	aspect := float32(1)
	if height > 0 {
		aspect = width / height
	}
	rad := mgl32.DegToRad(fovy)
	dist := (height * 0.5) / math32.Tan(rad*0.5)
	proj := mgl32.Perspective(rad, aspect, near, far+dist)
	view := mgl32.Translate3D(-width*0.5, -height*0.5, -dist)
	return proj.Mul4(view)
}
