package orbit

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// G is the gravitational constant in m^3 kg^-1 s^-2.
	G = 6.67430e-11

	// SunMassKg is the central mass every roster orbits.
	SunMassKg = 1.9891e30

	// EarthMassKg is the unit for displayed masses.
	EarthMassKg = 5.97219e24

	// AU is one astronomical unit in meters.
	AU = 1.495978707e11
)

// Body is a celestial object. Position is in meters, velocity in m/s.
type Body struct {
	Name     string
	MassKg   float64
	Color    colorful.Color
	Position r2.Vec
	Velocity r2.Vec
	// Fixed marks the central body, which stays at the origin.
	Fixed bool
}

// NewOrbiting places a body on a circular orbit around the Sun.
func NewOrbiting(name string, massKg, orbitalRadiusKm float64, color colorful.Color, startAngleDeg float64) (Body, error) {
	return NewOrbitingAround(SunMassKg, name, massKg, orbitalRadiusKm, color, startAngleDeg)
}

// NewOrbitingAround places a body on a circular orbit of the given radius
// around centralMassKg, starting at startAngleDeg measured from +X.
// A zero radius yields the fixed central body with zero position and velocity.
func NewOrbitingAround(centralMassKg float64, name string, massKg, orbitalRadiusKm float64, color colorful.Color, startAngleDeg float64) (Body, error) {
	if !(massKg > 0) || math.IsInf(massKg, 0) {
		return Body{}, &BodyError{Name: name, Field: "mass_kg", Value: massKg, Wrapped: ErrInvalidBody}
	}
	if !(orbitalRadiusKm >= 0) || math.IsInf(orbitalRadiusKm, 0) {
		return Body{}, &BodyError{Name: name, Field: "orbital_radius_km", Value: orbitalRadiusKm, Wrapped: ErrInvalidBody}
	}

	b := Body{Name: name, MassKg: massKg, Color: color}

	radius := orbitalRadiusKm * 1e3
	if radius == 0 {
		b.Fixed = true
		return b, nil
	}

	theta := startAngleDeg * math.Pi / 180
	sin, cos := math.Sincos(theta)
	speed := CircularSpeed(centralMassKg, radius)

	b.Position = r2.Vec{X: radius * cos, Y: radius * sin}
	b.Velocity = r2.Vec{X: -sin * speed, Y: cos * speed}
	return b, nil
}

// CircularSpeed returns sqrt(G*M/r), or 0 for a non-positive radius.
func CircularSpeed(centralMassKg, radiusM float64) float64 {
	if radiusM <= 0 {
		return 0
	}
	return math.Sqrt(G * centralMassKg / radiusM)
}

// Advance moves b along its velocity for scaledDt simulated seconds.
// Fixed bodies and non-positive steps are left untouched.
func Advance(b *Body, scaledDt float64) {
	if b.Fixed || !(scaledDt > 0) {
		return
	}
	b.Position = r2.Add(b.Position, r2.Scale(scaledDt, b.Velocity))
}

// EarthMasses returns the body's mass in Earth masses.
func (b Body) EarthMasses() float64 { return b.MassKg / EarthMassKg }

// SpeedKmPerSec returns the magnitude of the velocity in km/s.
func (b Body) SpeedKmPerSec() float64 { return r2.Norm(b.Velocity) / 1e3 }

// OrbitRadius returns the current distance from the origin in meters.
func (b Body) OrbitRadius() float64 { return r2.Norm(b.Position) }
