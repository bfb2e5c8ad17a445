package orbit

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// Handle is a non-owning reference to a body in a System.
type Handle struct {
	Index int
	Gen   uint32
}

type slot struct {
	body Body
	gen  uint32
	live bool
}

// System owns the bodies of one simulation in stable insertion order.
// It is not safe for concurrent use.
type System struct {
	slots []slot
}

// Spec is a roster entry.
type Spec struct {
	Name            string  `yaml:"name" json:"name"`
	MassKg          float64 `yaml:"mass_kg" json:"mass_kg"`
	OrbitalRadiusKm float64 `yaml:"orbital_radius_km" json:"orbital_radius_km"`
	Color           string  `yaml:"color" json:"color"`
	StartAngleDeg   float64 `yaml:"start_angle_deg" json:"start_angle_deg"`
}

// NewSystem builds a system from roster entries. Every invalid entry is
// reported; the system is only returned when all of them are valid.
func NewSystem(specs []Spec) (*System, error) {
	var result *multierror.Error
	sys := &System{slots: make([]slot, 0, len(specs))}
	seen := make(map[string]bool, len(specs))

	for i, s := range specs {
		if seen[s.Name] {
			result = multierror.Append(result, fmt.Errorf("entry %d: %w: %q", i, ErrDuplicateBody, s.Name))
			continue
		}
		seen[s.Name] = true

		c, err := ParseColor(s.Color)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("entry %d (%s): %w", i, s.Name, err))
			continue
		}
		b, err := NewOrbiting(s.Name, s.MassKg, s.OrbitalRadiusKm, c, s.StartAngleDeg)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		sys.Add(b)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return sys, nil
}

// ParseColor parses a "#rrggbb" hex color.
func ParseColor(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("color %q: %w", hex, err)
	}
	return c, nil
}

// Add appends b and returns its handle.
func (s *System) Add(b Body) Handle {
	s.slots = append(s.slots, slot{body: b, live: true})
	return Handle{Index: len(s.slots) - 1}
}

// Remove drops the body behind h. Outstanding handles to it stop resolving.
func (s *System) Remove(h Handle) bool {
	if _, ok := s.Get(h); !ok {
		return false
	}
	sl := &s.slots[h.Index]
	sl.live = false
	sl.gen++
	sl.body = Body{}
	return true
}

// Get resolves h. It fails for out-of-range, removed or stale handles.
func (s *System) Get(h Handle) (*Body, bool) {
	if h.Index < 0 || h.Index >= len(s.slots) {
		return nil, false
	}
	sl := &s.slots[h.Index]
	if !sl.live || sl.gen != h.Gen {
		return nil, false
	}
	return &sl.body, true
}

// Lookup finds a live body by name.
func (s *System) Lookup(name string) (Handle, bool) {
	for i := range s.slots {
		if s.slots[i].live && s.slots[i].body.Name == name {
			return Handle{Index: i, Gen: s.slots[i].gen}, true
		}
	}
	return Handle{}, false
}

// Each calls fn for every live body in insertion order until fn returns false.
func (s *System) Each(fn func(h Handle, b *Body) bool) {
	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.live {
			continue
		}
		if !fn(Handle{Index: i, Gen: sl.gen}, &sl.body) {
			return
		}
	}
}

// Len returns the number of live bodies.
func (s *System) Len() int {
	n := 0
	for i := range s.slots {
		if s.slots[i].live {
			n++
		}
	}
	return n
}

// Positions returns the positions of all live bodies in order.
func (s *System) Positions() []r2.Vec {
	out := make([]r2.Vec, 0, len(s.slots))
	s.Each(func(_ Handle, b *Body) bool {
		out = append(out, b.Position)
		return true
	})
	return out
}

// Advance moves every live, non-fixed body exactly once.
func (s *System) Advance(scaledDt float64) {
	s.Each(func(_ Handle, b *Body) bool {
		Advance(b, scaledDt)
		return true
	})
}

// Clone returns a deep copy, handles included.
func (s *System) Clone() *System {
	c := &System{slots: make([]slot, len(s.slots))}
	copy(c.slots, s.slots)
	return c
}
