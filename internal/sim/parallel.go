package sim

import (
	"context"
	"sync"

	"github.com/samcarey/aetherweave/internal/orbit"
)

// Sweep runs the same roster at several simulation speeds concurrently.
type Sweep struct {
	newSim func() *Simulator
	speeds []float64
}

// NewSweep takes a constructor so every run gets its own metric state.
func NewSweep(newSim func() *Simulator, speeds []float64) *Sweep {
	return &Sweep{newSim: newSim, speeds: speeds}
}

// Run returns one result per speed, in the order the speeds were given.
func (e *Sweep) Run(ctx context.Context, sys *orbit.System, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.speeds))
	errs := make([]error, len(e.speeds))

	var wg sync.WaitGroup
	for i, speed := range e.speeds {
		wg.Add(1)
		go func(idx int, speed float64) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Speed = speed

			results[idx], errs[idx] = e.newSim().Run(ctx, sys.Clone(), cfgCopy)
		}(i, speed)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
