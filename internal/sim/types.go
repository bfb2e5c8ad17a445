package sim

import (
	"fmt"
	"math"

	"github.com/samcarey/aetherweave/internal/orbit"
)

// State is the flattened positions of every live body: x0, y0, x1, y1, ...
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Body returns the position of the i-th body.
func (s State) Body(i int) (x, y float64) {
	return s[2*i], s[2*i+1]
}

// Snapshot flattens the positions of sys.
func Snapshot(sys *orbit.System) State {
	ps := sys.Positions()
	s := make(State, 0, 2*len(ps))
	for _, p := range ps {
		s = append(s, p.X, p.Y)
	}
	return s
}

type Metric interface {
	Name() string
	Observe(sys *orbit.System, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(sys *orbit.System, t float64)
}

// Config describes a headless run. FrameDt and Duration are real seconds;
// each frame advances FrameDt*Speed simulated seconds.
type Config struct {
	FrameDt  float64
	Duration float64
	Speed    float64
}

func (c Config) Steps() int {
	return int(c.Duration/c.FrameDt + 1e-9)
}

type Result struct {
	Bodies     []string
	States     []State
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("sim: step %d (t=%.4g): %s", e.Step, e.Time, e.Message)
}
