package orbit

import (
	"math"

	"github.com/san-kum/trojansim/internal/celestial"
)

// OrbitalPeriod estimates the Keplerian period of body about primary
// from the instantaneous relative state via the vis-viva relation. ok is
// false for unbound or degenerate configurations.
func OrbitalPeriod(body, primary celestial.Body, g float64) (period float64, ok bool) {
	mu := g * (primary.Mass + body.Mass)
	if mu <= 0 {
		return 0, false
	}

	r := body.Position.Sub(primary.Position).Magnitude()
	if r == 0 {
		return 0, false
	}

	v2 := body.Velocity.Sub(primary.Velocity).MagnitudeSquared()
	eps := v2/2 - mu/r
	if eps >= 0 {
		return 0, false
	}

	a := -mu / (2 * eps)
	return 2 * math.Pi * math.Sqrt(a*a*a/mu), true
}

// CircularSpeed returns the speed of a circular orbit of radius r about
// a central mass.
func CircularSpeed(g, centralMass, r float64) float64 {
	return math.Sqrt(g * centralMass / r)
}
