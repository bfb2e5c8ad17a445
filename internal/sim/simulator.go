package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/samcarey/aetherweave/internal/orbit"
)

var ErrInvalidConfig = errors.New("sim: invalid config")

type Simulator struct {
	metrics   []Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

// NewWithDefaultMetrics returns a simulator tracking radial drift and the
// maximum distance reached.
func NewWithDefaultMetrics() *Simulator {
	s := New()
	s.AddMetric(&RadialDrift{})
	s.AddMetric(&MaxDistance{})
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances a copy of sys frame by frame and records every frame. The
// caller's system is left untouched. On cancellation the partial result is
// returned with the context error.
func (s *Simulator) Run(ctx context.Context, sys *orbit.System, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	work := sys.Clone()
	result := &Result{
		Bodies:  names(work),
		States:  make([]State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	dt := cfg.FrameDt * cfg.Speed
	record := func(x State) {
		for _, m := range s.metrics {
			m.Observe(work, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(work, t)
		}
		result.States = append(result.States, x)
		result.Times = append(result.Times, t)
	}
	record(Snapshot(work))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		work.Advance(dt)
		t += dt

		x := Snapshot(work)
		if !x.IsValid() {
			s.collect(result)
			return result, SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
		}

		result.StepsTaken++
		record(x)
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback advances sys in place, calling fn after every frame with
// the simulated time. Returning false from fn stops the run.
func (s *Simulator) RunWithCallback(ctx context.Context, sys *orbit.System, cfg Config, fn func(sys *orbit.System, t float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	dt := cfg.FrameDt * cfg.Speed
	for i := 0; i < cfg.Steps(); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sys.Advance(dt)
		t += dt
		if !fn(sys, t) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.FrameDt > 0) {
		return fmt.Errorf("%w: frame dt must be positive, got %g", ErrInvalidConfig, cfg.FrameDt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, cfg.Duration)
	}
	if !(cfg.Speed >= 0) {
		return fmt.Errorf("%w: speed must be non-negative, got %g", ErrInvalidConfig, cfg.Speed)
	}
	return nil
}

func names(sys *orbit.System) []string {
	out := make([]string, 0, sys.Len())
	sys.Each(func(_ orbit.Handle, b *orbit.Body) bool {
		out = append(out, b.Name)
		return true
	})
	return out
}
