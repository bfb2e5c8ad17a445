package sim

import (
	"math"

	"github.com/samcarey/aetherweave/internal/orbit"
)

// RadialDrift is the largest relative change of any orbiting body's
// distance from the origin since the first observation. Bodies move in
// straight lines, so this grows with simulated time.
type RadialDrift struct {
	initial map[orbit.Handle]float64
	max     float64
}

func (m *RadialDrift) Name() string { return "radial_drift" }

func (m *RadialDrift) Observe(sys *orbit.System, _ float64) {
	if m.initial == nil {
		m.initial = make(map[orbit.Handle]float64)
		sys.Each(func(h orbit.Handle, b *orbit.Body) bool {
			m.initial[h] = b.OrbitRadius()
			return true
		})
		return
	}
	sys.Each(func(h orbit.Handle, b *orbit.Body) bool {
		r0, ok := m.initial[h]
		if !ok || r0 == 0 {
			return true
		}
		if d := math.Abs(b.OrbitRadius()-r0) / r0; d > m.max {
			m.max = d
		}
		return true
	})
}

func (m *RadialDrift) Value() float64 { return m.max }

func (m *RadialDrift) Reset() {
	m.initial = nil
	m.max = 0
}

// MaxDistance is the furthest any body got from the origin, in AU.
type MaxDistance struct {
	max float64
}

func (m *MaxDistance) Name() string { return "max_distance_au" }

func (m *MaxDistance) Observe(sys *orbit.System, _ float64) {
	sys.Each(func(_ orbit.Handle, b *orbit.Body) bool {
		if r := b.OrbitRadius() / orbit.AU; r > m.max {
			m.max = r
		}
		return true
	})
}

func (m *MaxDistance) Value() float64 { return m.max }
func (m *MaxDistance) Reset()         { m.max = 0 }
