// Package orbit provides the body model for the orrery.
//
// Bodies are placed on circular-orbit initial conditions around a central
// mass and then drift linearly:
//
//   - [Body]: one celestial object with position and velocity in SI units
//   - [NewOrbiting]: circular-orbit placement around the Sun
//   - [Advance]: first-order position update (position += velocity * dt)
//   - [System]: stable-order arena of bodies addressed by [Handle]
//
// # Kinematics
//
// Velocity is assigned once at construction from v = sqrt(G*M/r) and never
// recomputed. There is no force feedback between bodies, so a body travels
// along the tangent of its starting orbit:
//
//	earth, _ := orbit.NewOrbiting("Earth", orbit.EarthMassKg, 1.5e8, blue, 40)
//	orbit.Advance(&earth, 3600)
//
// # Handles
//
// A [Handle] never keeps a body alive. Removing a body bumps its slot
// generation, so stale handles resolve to nothing.
package orbit
