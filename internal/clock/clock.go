// Package clock turns wall-clock frame timestamps into scaled simulation time.
package clock

import "time"

// DefaultSimulationSpeed is simulated seconds per real second.
const DefaultSimulationSpeed = 1e6

// Clock measures the time between successive frames.
// The zero value has speed 0; use New.
type Clock struct {
	Speed float64

	last    time.Time
	started bool
}

func New(speed float64) *Clock {
	return &Clock{Speed: speed}
}

// Tick returns the scaled time elapsed since the previous tick. The first
// tick returns 0. A timestamp before the previous one returns 0 and leaves
// the reference where it was.
func (c *Clock) Tick(now time.Time) float64 {
	if !c.started {
		c.last = now
		c.started = true
		return 0
	}
	if now.Before(c.last) {
		return 0
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	return dt * c.Speed
}

// Reset forgets the previous reference.
func (c *Clock) Reset() {
	c.started = false
	c.last = time.Time{}
}
