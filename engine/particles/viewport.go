package particles

import "github.com/chewxy/math32"

// Viewport is the holder size in logical pixels and its device pixel ratio.
type Viewport struct {
	Width, Height int
	PixelRatio    float32
}

// Backing returns the backing-store size in device pixels.
func (v Viewport) Backing() (int, int) {
	r := v.PixelRatio
	if r <= 0 {
		r = 1
	}
	return int(math32.Round(float32(v.Width) * r)), int(math32.Round(float32(v.Height) * r))
}
