package particles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hubastard/photon/engine/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameOrder(t *testing.T) {
	r := newRig(t, Options{})
	r.e.Buffers().MustSet(PositionAttribute, make([]float32, 3*5))
	r.dev.Reset()

	r.e.Frame(r.clock.Now())
	assert.Equal(t, []string{"Clear", "Uniform1f", "BindTexture", "DrawPoints"}, r.dev.Calls)
	assert.Equal(t, 5, r.dev.LastDraw())
	assert.Equal(t, uint64(1), r.e.Frames())
}

func TestFrameZeroParticles(t *testing.T) {
	r := newRig(t, Options{})
	r.e.Frame(r.clock.Now())
	assert.Equal(t, 0, r.dev.LastDraw())
}

func TestRunCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := newRig(t, Options{OnFrame: func(e *Engine, _ time.Duration) {
		if e.Frames() == 3 {
			cancel()
		}
	}})

	err := r.e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(3), r.e.Frames())
	assert.Equal(t, 3, r.win.swaps)
	assert.Equal(t, 3, r.win.polls)
}

func TestRunStop(t *testing.T) {
	r := newRig(t, Options{OnFrame: func(e *Engine, _ time.Duration) {
		if e.Frames() == 2 {
			e.Stop()
			e.Stop()
		}
	}})
	require.NoError(t, r.e.Run(context.Background()))
	assert.Equal(t, uint64(2), r.e.Frames())

	require.NoError(t, r.e.Run(context.Background()), "stopped engine returns at once")
	assert.Equal(t, uint64(2), r.e.Frames())
}

func TestRunHolderClose(t *testing.T) {
	r := newRig(t, Options{})
	r.win.closeAfter = 5
	require.NoError(t, r.e.Run(context.Background()))
	assert.Equal(t, uint64(5), r.e.Frames())
	assert.Len(t, r.dev.Draws, 5)
}

func TestRunRejectsReentry(t *testing.T) {
	var inner error
	r := newRig(t, Options{OnFrame: func(e *Engine, _ time.Duration) {
		inner = e.Run(context.Background())
		e.Stop()
	}})
	require.NoError(t, r.e.Run(context.Background()))
	assert.ErrorContains(t, inner, "Run called twice")
}

func TestRunInertEngine(t *testing.T) {
	r := newRig(t, Options{VertexSource: " "})
	err := r.e.Run(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
	var ce *ShaderCompileError
	assert.True(t, errors.As(err, &ce))
	assert.Zero(t, r.win.swaps)
}

func TestRunTimeUniform(t *testing.T) {
	var elapsed []time.Duration
	r := newRig(t, Options{})
	r.e.opts.OnFrame = func(e *Engine, d time.Duration) {
		elapsed = append(elapsed, d)
		assert.Equal(t, float32(d.Seconds()/5), r.dev.Uniform("u_time"))
		r.clock.Advance(2500 * time.Millisecond)
		if len(elapsed) == 3 {
			e.Stop()
		}
	}
	require.NoError(t, r.e.Run(context.Background()))
	assert.Equal(t, []time.Duration{0, 2500 * time.Millisecond, 5 * time.Second}, elapsed)
	assert.Equal(t, float32(1), r.dev.Uniform("u_time"))
}

func TestRunTimeDivisor(t *testing.T) {
	r := newRig(t, Options{TimeDivisor: time.Second})
	r.e.Frame(r.clock.Now())
	r.clock.Advance(2500 * time.Millisecond)
	r.e.Frame(r.clock.Now())
	assert.Equal(t, float32(2.5), r.dev.Uniform("u_time"))
}

func TestRunAppliesPostedWorkBeforeFrame(t *testing.T) {
	r := newRig(t, Options{})
	posted := make(chan struct{})
	go func() {
		r.e.Post(func() { r.e.Buffers().MustSet(PositionAttribute, make([]float32, 3*7)) })
		close(posted)
	}()
	<-posted

	r.e.opts.OnFrame = func(e *Engine, _ time.Duration) { e.Stop() }
	require.NoError(t, r.e.Run(context.Background()))
	assert.Equal(t, []int{7}, r.dev.Draws)
}

func TestRunMutationsApplyNextFrame(t *testing.T) {
	r := newRig(t, Options{OnFrame: func(e *Engine, _ time.Duration) {
		switch e.Frames() {
		case 1:
			e.Buffers().MustSet(PositionAttribute, make([]float32, 3*4))
		case 2:
			e.Stop()
		}
	}})
	require.NoError(t, r.e.Run(context.Background()))
	assert.Equal(t, []int{0, 4}, r.dev.Draws)
}

func TestFrameRecordsProfilerSpan(t *testing.T) {
	rec := profiler.Enable(16)
	t.Cleanup(profiler.Disable)

	r := newRig(t, Options{})
	r.e.Post(func() {})
	r.e.Flush()
	r.e.Frame(r.clock.Now())
	assert.Equal(t, 4, rec.Len(), "flush and frame spans")
}
