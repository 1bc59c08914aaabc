package platform

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/hubastard/photon/engine/core"
	"github.com/hubastard/photon/engine/logging"
)

// GLFWWindow implements core.Window on a GLFW window with a GL 3.3 core context.
type GLFWWindow struct {
	w    *glfw.Window
	onEv func(core.Event)
	log  *slog.Logger

	// last size and ratio reported; the size and framebuffer callbacks
	// usually fire together for one resize
	lastW, lastH int
	lastRatio    float32
}

var _ core.Window = (*GLFWWindow)(nil)

// NewGLFWWindow creates the window and makes its context current. It must be
// called on the main thread before any GL call; the calling goroutine stays
// locked to its OS thread.
func NewGLFWWindow(cfg core.Config) (*GLFWWindow, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	// GL 3.3 core profile (Mac requires forward-compatible flag).
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	samples := 0
	if cfg.Antialias {
		samples = 4
	}
	glfw.WindowHint(glfw.Samples, samples)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("gl init: %w", err)
	}

	gw := &GLFWWindow{w: win, log: logging.Logger()}
	gw.lastW, gw.lastH = win.GetSize()
	gw.lastRatio = gw.PixelRatio()
	gw.log.Info("window created",
		"gl", gl.GoStr(gl.GetString(gl.VERSION)),
		"width", gw.lastW, "height", gw.lastH, "ratio", gw.lastRatio)

	// Callbacks -> translate to core.Event
	win.SetCloseCallback(func(*glfw.Window) { gw.emit(core.EventCloseRequested{}) })
	win.SetSizeCallback(func(_ *glfw.Window, w, h int) { gw.resized() })
	// Moving to a monitor with another content scale changes only the framebuffer.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) { gw.resized() })
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		k := translateKey(key)
		if k == core.KeyUnknown {
			return
		}
		gw.emit(core.EventKey{Key: k, Down: action == glfw.Press, Mods: translateMods(mods)})
	})

	return gw, nil
}

func (g *GLFWWindow) emit(ev core.Event) {
	if g.onEv != nil {
		g.onEv(ev)
	}
}

func (g *GLFWWindow) resized() {
	w, h := g.w.GetSize()
	if w == 0 || h == 0 {
		return // minimized
	}
	ratio := g.PixelRatio()
	if w == g.lastW && h == g.lastH && ratio == g.lastRatio {
		return
	}
	g.log.Debug("window resized", "width", w, "height", h, "ratio", ratio)
	g.lastW, g.lastH, g.lastRatio = w, h, ratio
	g.emit(core.EventResize{W: w, H: h})
}

// core.Window impl
func (g *GLFWWindow) PollEvents()                          { glfw.PollEvents() }
func (g *GLFWWindow) SwapBuffers()                         { g.w.SwapBuffers() }
func (g *GLFWWindow) ShouldClose() bool                    { return g.w.ShouldClose() }
func (g *GLFWWindow) RequestClose()                        { g.w.SetShouldClose(true) }
func (g *GLFWWindow) Size() (int, int)                     { return g.lastW, g.lastH }
func (g *GLFWWindow) SetTitle(t string)                    { g.w.SetTitle(t) }
func (g *GLFWWindow) SetEventCallback(cb func(core.Event)) { g.onEv = cb }

// PixelRatio is framebuffer pixels per screen coordinate.
func (g *GLFWWindow) PixelRatio() float32 {
	w, _ := g.w.GetSize()
	fw, _ := g.w.GetFramebufferSize()
	if w == 0 || fw == 0 {
		return 1
	}
	return float32(fw) / float32(w)
}

// Destroy closes the window and terminates GLFW.
func (g *GLFWWindow) Destroy() {
	g.w.Destroy()
	glfw.Terminate()
}

func translateKey(k glfw.Key) core.Key {
	switch k {
	case glfw.KeyEscape:
		return core.KeyEscape
	case glfw.KeySpace:
		return core.KeySpace
	case glfw.KeyP:
		return core.KeyP
	default:
		return core.KeyUnknown
	}
}

func translateMods(m glfw.ModifierKey) core.Mod {
	var out core.Mod
	if m&glfw.ModShift != 0 {
		out |= core.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= core.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		out |= core.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		out |= core.ModSuper
	}
	return out
}
