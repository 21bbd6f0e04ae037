package storage

import (
	"fmt"
	"strconv"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/metrics"
)

// Frame is the per-tick summary kept for a stored run.
type Frame struct {
	Tick      int     `json:"tick"`
	Time      float64 `json:"time"`
	CenterX   float64 `json:"center_x"`
	CenterY   float64 `json:"center_y"`
	Kinetic   float64 `json:"kinetic"`
	Potential float64 `json:"potential"`
}

var frameHeader = []string{"tick", "time", "center_x", "center_y", "kinetic", "potential"}

func (f Frame) Energy() float64 { return f.Kinetic + f.Potential }

func (f Frame) record() []string {
	return []string{
		strconv.Itoa(f.Tick),
		formatFloat(f.Time),
		formatFloat(f.CenterX),
		formatFloat(f.CenterY),
		formatFloat(f.Kinetic),
		formatFloat(f.Potential),
	}
}

func parseFrame(rec []string) (Frame, error) {
	if len(rec) < len(frameHeader) {
		return Frame{}, fmt.Errorf("short frame record: %d fields", len(rec))
	}
	tick, err := strconv.Atoi(rec[0])
	if err != nil {
		return Frame{}, err
	}
	vals := make([]float64, len(frameHeader)-1)
	for i := range vals {
		if vals[i], err = strconv.ParseFloat(rec[i+1], 64); err != nil {
			return Frame{}, err
		}
	}
	return Frame{Tick: tick, Time: vals[0], CenterX: vals[1], CenterY: vals[2], Kinetic: vals[3], Potential: vals[4]}, nil
}

// Recorder is an observer that keeps one Frame per tick.
type Recorder struct {
	dt, gravity float64
	frames      []Frame
}

func NewRecorder(dt, gravity float64, capacity int) *Recorder {
	return &Recorder{dt: dt, gravity: gravity, frames: make([]Frame, 0, capacity)}
}

func (r *Recorder) OnStep(set *dynamo.ParticleSet, b dynamo.Bounds, t float64) {
	c := set.Centroid()
	r.frames = append(r.frames, Frame{
		Tick:      len(r.frames) + 1,
		Time:      t,
		CenterX:   c.X,
		CenterY:   c.Y,
		Kinetic:   metrics.KineticEnergy(set, r.dt),
		Potential: metrics.PotentialEnergy(set, b, r.gravity),
	})
}

func (r *Recorder) Frames() []Frame { return r.frames }

// Series extracts one column of the frames.
func Series(frames []Frame, pick func(Frame) float64) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = pick(f)
	}
	return out
}
