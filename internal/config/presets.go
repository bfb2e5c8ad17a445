package config

import (
	"sort"

	"github.com/samcarey/aetherweave/internal/orbit"
)

const (
	gold      = "#ffd700"
	gray      = "#a0a0a0"
	green     = "#00ff00"
	blue      = "#0000ff"
	red       = "#ff0000"
	brown     = "#a52a2a"
	yellow    = "#ffff00"
	lightBlue = "#add8e6"
)

var sun = orbit.Spec{Name: "Sun", MassKg: orbit.SunMassKg, Color: gold}

var (
	mercury = orbit.Spec{Name: "Mercury", MassKg: 3.285e23, OrbitalRadiusKm: 57.9e6, Color: gray, StartAngleDeg: 200}
	venus   = orbit.Spec{Name: "Venus", MassKg: 4.867e24, OrbitalRadiusKm: 108.2e6, Color: green, StartAngleDeg: 110}
	earth   = orbit.Spec{Name: "Earth", MassKg: orbit.EarthMassKg, OrbitalRadiusKm: 1.5e8, Color: blue, StartAngleDeg: 40}
	mars    = orbit.Spec{Name: "Mars", MassKg: 6.39e23, OrbitalRadiusKm: 228e6, Color: red, StartAngleDeg: 40}
	jupiter = orbit.Spec{Name: "Jupiter", MassKg: 1.899e27, OrbitalRadiusKm: 778.5e6, Color: brown, StartAngleDeg: 75}
	saturn  = orbit.Spec{Name: "Saturn", MassKg: 5.683e26, OrbitalRadiusKm: 1.434e9, Color: yellow, StartAngleDeg: 60}
	uranus  = orbit.Spec{Name: "Uranus", MassKg: 8.681e25, OrbitalRadiusKm: 2.871e9, Color: lightBlue, StartAngleDeg: 30}
	neptune = orbit.Spec{Name: "Neptune", MassKg: 1.024e26, OrbitalRadiusKm: 4.495e9, Color: blue, StartAngleDeg: 15}
)

// Rosters are the built-in body sets.
var Rosters = map[string][]orbit.Spec{
	"solar": {sun, mercury, venus, earth, mars, jupiter, saturn, uranus, neptune},
	"inner": {sun, mercury, venus, earth, mars},
	"earth": {sun, earth},
}

// GetRoster returns a copy of the named roster, or nil.
func GetRoster(name string) []orbit.Spec {
	r, ok := Rosters[name]
	if !ok {
		return nil
	}
	out := make([]orbit.Spec, len(r))
	copy(out, r)
	return out
}

func ListRosters() []string {
	names := make([]string, 0, len(Rosters))
	for name := range Rosters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
