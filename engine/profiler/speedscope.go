package profiler

import (
	"encoding/json"
	"errors"
	"io"
	"os"
)

// speedscope file format (evented profile)
type ssFile struct {
	Schema   string      `json:"$schema"`
	Shared   ssShared    `json:"shared"`
	Profiles []ssProfile `json:"profiles"`
	Exporter string      `json:"exporter,omitempty"`
	Name     string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // "O" or "C"
	At    int64  `json:"at"`   // µs since the first event
	Frame int    `json:"frame"`
}

// ErrNoEvents is returned when there is nothing to export.
var ErrNoEvents = errors.New("profiler: no events")

// WriteSpeedscope encodes the held events as a speedscope document.
// Closes without a matching open (lost to the ring) are dropped and spans
// still open are closed at the last timestamp.
func (r *Recorder) WriteSpeedscope(w io.Writer, name string) error {
	evs := r.snapshot()
	if len(evs) == 0 {
		return ErrNoEvents
	}
	names := r.frameNames()
	frames := make([]ssFrame, 0, len(names))
	for _, n := range names {
		frames = append(frames, ssFrame{Name: n})
	}

	base := evs[0].at
	out := make([]ssEvent, 0, len(evs))
	stack := make([]int, 0, 16)
	last := int64(0)
	for _, e := range evs {
		at := (e.at - base) / 1000
		if at < last {
			at = last
		}
		if e.open {
			stack = append(stack, e.frame)
			out = append(out, ssEvent{Type: "O", At: at, Frame: e.frame})
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != e.frame {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: at, Frame: e.frame})
		}
		last = at
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: last, Frame: stack[i]})
	}
	if len(out) == 0 {
		return ErrNoEvents
	}

	doc := ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: frames},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     name,
			Unit:     "microseconds",
			EndValue: last,
			Events:   out,
		}},
		Exporter: "photon-profiler",
		Name:     name,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

// Dump writes a speedscope file to path atomically.
func (r *Recorder) Dump(path, name string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := r.WriteSpeedscope(f, name); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
