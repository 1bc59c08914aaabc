package core

import "github.com/hubastard/photon/engine/colors"

// Window is the holder surface an engine draws into.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	// Size is the logical size in screen coordinates.
	Size() (int, int)
	// PixelRatio is backing-store pixels per logical unit.
	PixelRatio() float32
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Config for the host window.
type Config struct {
	Title      string
	Width      int
	Height     int
	VSync      bool
	Antialias  bool
	ClearColor colors.Color
}
