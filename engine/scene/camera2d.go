package scene

import "github.com/go-gl/mathgl/mgl32"

// Camera2D is an orthographic camera with position, rotation and zoom over
// pixel space. It implements Projection.
type Camera2D struct {
	X, Y        float32 // point shown at the viewport center
	RotationRad float32
	Zoom        float32 // 1 = no zoom
}

// NewCamera2D centers the camera on a width x height pixel area.
func NewCamera2D(width, height int) *Camera2D {
	return &Camera2D{X: float32(width) * 0.5, Y: float32(height) * 0.5, Zoom: 1}
}

func (c *Camera2D) Move(dx, dy float32) { c.X += dx; c.Y += dy }
func (c *Camera2D) Rotate(dRad float32) { c.RotationRad += dRad }

func (c *Camera2D) SetZoom(z float32) {
	if z < 0.05 {
		z = 0.05
	}
	c.Zoom = z
}

// Matrix returns proj * R(-rot) * T(-pos).
func (c *Camera2D) Matrix(width, height float32) mgl32.Mat4 {
	z := c.Zoom
	if z <= 0 {
		z = 1
	}
	halfW, halfH := width*0.5/z, height*0.5/z
	proj := mgl32.Ortho(-halfW, halfW, -halfH, halfH, -1, 1)
	view := mgl32.HomogRotate3DZ(-c.RotationRad).Mul4(mgl32.Translate3D(-c.X, -c.Y, 0))
	return proj.Mul4(view)
}
