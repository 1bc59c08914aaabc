// Package profiler records nested timing spans into a fixed-size ring and
// exports them as a speedscope evented profile.
//
// Recording is off until Enable is called; Start then costs one atomic load.
//
//	defer profiler.Start("particles.frame")()
package profiler

import (
	"sync"
	"sync/atomic"
	"time"
)

type event struct {
	at    int64 // unix nanos
	frame int
	open  bool
}

// Recorder is a ring of span open/close events. Safe for concurrent use,
// though spans are only meaningful per goroutine.
type Recorder struct {
	cap   uint64
	write atomic.Uint64
	evs   []event

	mu     sync.Mutex
	names  []string
	byName map[string]int

	now func() time.Time
}

// NewRecorder keeps the latest capacity events; capacity <= 0 means 1<<16.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 1 << 16
	}
	return &Recorder{
		cap:    uint64(capacity),
		evs:    make([]event, capacity),
		byName: make(map[string]int),
		now:    time.Now,
	}
}

// Start opens a span and returns the func closing it.
func (r *Recorder) Start(name string) func() {
	id := r.intern(name)
	begin := r.now().UnixNano()
	r.push(event{at: begin, frame: id, open: true})
	return func() {
		end := r.now().UnixNano()
		if end < begin {
			end = begin
		}
		r.push(event{at: end, frame: id})
	}
}

func (r *Recorder) push(e event) {
	i := r.write.Add(1) - 1
	r.evs[i%r.cap] = e
}

func (r *Recorder) intern(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byName[name]; ok {
		return id
	}
	id := len(r.names)
	r.byName[name] = id
	r.names = append(r.names, name)
	return id
}

// Len is the number of events currently held.
func (r *Recorder) Len() int {
	n := r.write.Load()
	if n > r.cap {
		return int(r.cap)
	}
	return int(n)
}

// snapshot returns the held events in write order.
func (r *Recorder) snapshot() []event {
	n := r.write.Load()
	start := uint64(0)
	if n > r.cap {
		start = n - r.cap
	}
	out := make([]event, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.evs[k%r.cap])
	}
	return out
}

func (r *Recorder) frameNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

var global atomic.Pointer[Recorder]

// Enable installs a global recorder of the given capacity and returns it.
func Enable(capacity int) *Recorder {
	r := NewRecorder(capacity)
	global.Store(r)
	return r
}

// Disable stops global recording.
func Disable() { global.Store(nil) }

// Active returns the global recorder, or nil.
func Active() *Recorder { return global.Load() }

func nop() {}

// Start opens a span on the global recorder. With recording off it returns
// a no-op.
func Start(name string) func() {
	r := global.Load()
	if r == nil {
		return nop
	}
	return r.Start(name)
}
