// Package stats measures frame rate.
package stats

import "time"

// FPS counts frames and publishes the count once per elapsed second.
type FPS struct {
	last    time.Time
	elapsed time.Duration
	frames  int
	value   int
	onTick  func(fps int)
}

// NewFPS calls onTick (may be nil) every time a new once-per-second value is available.
func NewFPS(onTick func(fps int)) *FPS { return &FPS{onTick: onTick} }

// Update registers a frame presented at now and returns the delta since the
// previous frame (zero for the first one).
func (f *FPS) Update(now time.Time) time.Duration {
	if f.last.IsZero() {
		f.last = now
		return 0
	}
	delta := now.Sub(f.last)
	f.last = now
	f.frames++
	f.elapsed += delta
	if f.elapsed >= time.Second {
		f.value = f.frames
		f.frames = 0
		f.elapsed -= time.Second
		if f.onTick != nil {
			f.onTick(f.value)
		}
	}
	return delta
}

// Value is the frame count of the last completed second.
func (f *FPS) Value() int { return f.value }
