package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/hubastard/photon/engine/config"
	"github.com/hubastard/photon/engine/core"
	glbackend "github.com/hubastard/photon/engine/gfx/gl"
	"github.com/hubastard/photon/engine/logging"
	"github.com/hubastard/photon/engine/particles"
	"github.com/hubastard/photon/engine/platform"
	"github.com/hubastard/photon/engine/profiler"
	"github.com/hubastard/photon/engine/scene"
	"github.com/hubastard/photon/engine/stats"
)

const sizeScaleUniform = "sizeScale"

type App struct {
	scene  config.Scene
	log    *slog.Logger
	win    *platform.GLFWWindow
	swarm  *swarm
	camera *scene.Camera2D
	fps    *stats.FPS

	t       float32
	paused  bool
	profile string
}

func (a *App) OnFrame(e *particles.Engine, _ time.Duration) {
	delta := a.fps.Update(time.Now())
	if a.paused {
		return
	}
	dt := float32(delta.Seconds())
	a.t += dt
	a.swarm.step(a.t)
	e.Buffers().MustSet(particles.PositionAttribute, a.swarm.pos)

	a.camera.Rotate(dt * 0.02)
	vp := e.Viewport()
	e.Uniforms().MustSet(particles.UniformProjection, a.camera.Matrix(float32(vp.Width), float32(vp.Height)))
}

func (a *App) OnEvent(e *particles.Engine, ev core.Event) {
	switch ev := ev.(type) {
	case core.EventResize:
		a.swarm.fit(float32(ev.W), float32(ev.H))
		a.camera.X, a.camera.Y = float32(ev.W)*0.5, float32(ev.H)*0.5
		a.syncSizeScale(e)
	case core.EventKey:
		if !ev.Down {
			return
		}
		switch ev.Key {
		case core.KeyEscape:
			a.win.RequestClose()
		case core.KeySpace:
			a.paused = !a.paused
			a.log.Info("pause toggled", "paused", a.paused)
		case core.KeyP:
			a.dumpProfile()
		}
	}
}

// Point sizes are in framebuffer pixels; keep sprites the same on screen.
func (a *App) syncSizeScale(e *particles.Engine) {
	if e.Uniforms().Has(sizeScaleUniform) {
		_ = e.Uniforms().SetFloat(sizeScaleUniform, e.Viewport().PixelRatio)
	}
}

func (a *App) dumpProfile() {
	rec := profiler.Active()
	if rec == nil {
		a.log.Info("profiling disabled; run with -profile")
		return
	}
	if err := rec.Dump(a.profile, "photon sandbox"); err != nil {
		a.log.Warn("profile dump failed", "err", err)
		return
	}
	a.log.Info("profile written", "path", a.profile, "events", rec.Len())
}

func (a *App) run(ctx context.Context) error {
	win, err := platform.NewGLFWWindow(a.scene.Window())
	if err != nil {
		return err
	}
	defer win.Destroy()
	a.win = win

	dev := glbackend.New()
	defer dev.Release()
	vendor, renderer, version := dev.Info()
	a.log.Info("gl device", "vendor", vendor, "renderer", renderer, "version", version)

	opts, err := a.scene.Options()
	if err != nil {
		return err
	}
	w, h := win.Size()
	a.swarm = newSwarm(a.scene.Count, float32(w), float32(h), rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b9)))
	a.camera = scene.NewCamera2D(w, h)
	a.fps = stats.NewFPS(func(n int) {
		win.SetTitle(fmt.Sprintf("%s | %d fps | %d particles", a.scene.Title, n, a.swarm.len()))
	})

	opts.Projection = a.camera
	opts.Attributes[particles.PositionAttribute] = particles.AttributeDecl{Components: 3, Data: a.swarm.pos}
	opts.Attributes["color"] = particles.AttributeDecl{Components: 4, Data: a.swarm.colors}
	opts.OnFrame = a.OnFrame
	opts.OnEvent = a.OnEvent
	opts.Logger = a.log

	e, err := particles.New(dev, win, opts)
	if err != nil {
		return err
	}
	defer e.Close()
	if !e.Ready() {
		return e.Err()
	}
	a.syncSizeScale(e)

	err = e.Run(ctx)
	if a.profile != "" {
		a.dumpProfile()
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	scenePath := flag.String("scene", "assets/scene.toml", "scene file")
	texture := flag.String("texture", "", "texture file or URL, overrides the scene")
	profilePath := flag.String("profile", "", "record frame spans and write a speedscope file here (P dumps on demand)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logging.SetLogger(log)

	sc, err := config.Load(*scenePath)
	if err != nil {
		log.Error("scene", "err", err)
		os.Exit(1)
	}
	if *texture != "" {
		sc.Texture = *texture
	}
	if *profilePath != "" {
		profiler.Enable(1 << 20)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &App{scene: sc, log: log, profile: *profilePath}
	if err := app.run(ctx); err != nil {
		log.Error("sandbox", "err", err)
		os.Exit(1)
	}
}
