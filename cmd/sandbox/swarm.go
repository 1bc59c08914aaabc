package main

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
)

// swarm is the demo's particle set: every particle circles its home point.
type swarm struct {
	home   []float32 // x, y, size, phase
	pos    []float32 // x, y, size
	colors []float32 // r, g, b, a
	w, h   float32
}

const (
	orbitRadius = 50
	orbitSpeed  = 0.8
)

func newSwarm(n int, w, h float32, rng *rand.Rand) *swarm {
	s := &swarm{
		home:   make([]float32, 0, n*4),
		pos:    make([]float32, n*3),
		colors: make([]float32, 0, n*4),
		w:      w,
		h:      h,
	}
	for range n {
		s.home = append(s.home,
			rng.Float32()*w,
			rng.Float32()*h,
			rng.Float32()*10+10,
			rng.Float32()*2*math32.Pi,
		)
		// warm palette, from deep orange to pale yellow
		t := rng.Float32()
		s.colors = append(s.colors, 1, 0.35+0.6*t, 0.1+0.5*t*t, 0.4+0.6*rng.Float32())
	}
	s.step(0)
	return s
}

func (s *swarm) len() int { return len(s.pos) / 3 }

// step moves every particle to its orbit position at time t (seconds).
func (s *swarm) step(t float32) {
	for i := 0; i < s.len(); i++ {
		h := s.home[i*4 : i*4+4]
		a := h[3] + t*orbitSpeed*(1+float32(i%7)*0.1)
		s.pos[i*3] = h[0] + math32.Cos(a)*orbitRadius
		s.pos[i*3+1] = h[1] + math32.Sin(a)*orbitRadius
		s.pos[i*3+2] = h[2]
	}
}

// fit rescales home points to a new area.
func (s *swarm) fit(w, h float32) {
	if w <= 0 || h <= 0 || s.w <= 0 || s.h <= 0 {
		return
	}
	sx, sy := w/s.w, h/s.h
	for i := 0; i < len(s.home); i += 4 {
		s.home[i] *= sx
		s.home[i+1] *= sy
	}
	s.w, s.h = w, h
}
