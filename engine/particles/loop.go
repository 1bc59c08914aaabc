package particles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hubastard/photon/engine/profiler"
)

// Run drives the render loop until ctx is cancelled (returns ctx.Err()),
// Stop is called or the holder asks to close (both return nil). It must run
// on the goroutine that owns the GL context, locked to its OS thread.
//
// Each frame: poll holder events (resizes apply here), run posted
// callbacks, clear, push the time uniform, draw Count() points, call
// OnFrame, then swap buffers, which waits for the display refresh when the
// holder has vsync enabled.
func (e *Engine) Run(ctx context.Context) error {
	if !e.Ready() {
		return fmt.Errorf("%w: %w", ErrNotReady, e.err)
	}
	if e.running {
		return errors.New("particles: Run called twice")
	}
	e.running = true
	defer func() { e.running = false }()

	e.start = e.opts.Clock()
	e.log.Info("render loop started", "particles", e.Count())
	defer func() { e.log.Info("render loop stopped", "frames", e.frames) }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.stop:
			return nil
		default:
		}
		if e.holder.ShouldClose() {
			return nil
		}

		e.holder.PollEvents()
		e.Flush()
		e.Frame(e.opts.Clock())
		e.holder.SwapBuffers()
	}
}

// Frame renders one frame at now. Run calls it; it is exported for hosts
// that own their own loop.
func (e *Engine) Frame(now time.Time) {
	if !e.Ready() {
		return
	}
	defer profiler.Start("particles.frame")()
	if e.start.IsZero() {
		e.start = now
	}
	elapsed := now.Sub(e.start)

	e.dev.Clear()
	e.setBuiltin(UniformTime, float32(elapsed.Seconds()/e.opts.TimeDivisor.Seconds()))
	e.texture.bind()
	if e.buffers.Populated() {
		e.dev.DrawPoints(e.buffers.Count())
	} else if !e.warned["unpopulated"] {
		e.warned["unpopulated"] = true
		e.log.Debug("draw skipped: buffers not populated")
	}
	e.frames++

	if e.opts.OnFrame != nil {
		e.opts.OnFrame(e, elapsed)
	}
}

// Stop ends Run after the current frame. Safe from any goroutine; repeated
// calls are no-ops. A stopped engine cannot be run again.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}
