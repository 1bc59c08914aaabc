package colors

import (
	"fmt"
)

// Color is straight (non-premultiplied) RGBA in 0..1.
type Color [4]float32

var (
	Transparent = Color{0, 0, 0, 0}
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Red         = Color{1, 0, 0, 1}
	DarkGray    = Color{0.08, 0.10, 0.12, 1}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// FromSlice builds a color from 3 (opaque) or 4 components.
func FromSlice(v []float32) (Color, error) {
	switch len(v) {
	case 3:
		return Color{v[0], v[1], v[2], 1}, nil
	case 4:
		return Color{v[0], v[1], v[2], v[3]}, nil
	}
	return Color{}, fmt.Errorf("color: want 3 or 4 components, got %d", len(v))
}
