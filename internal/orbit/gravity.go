package orbit

import "github.com/san-kum/trojansim/internal/celestial"

// G is the Newtonian gravitational constant in SI units (N·m²/kg²).
const G = 6.674e-11

// DefaultEpsilon is the separation below which a pair is treated as
// degenerate. Planetary bodies closer than a kilometre have collided for
// this model's purposes; the guard only keeps the force law finite.
const DefaultEpsilon = 1e3

// Gravity computes pairwise Newtonian accelerations. Pairs separated by
// less than Epsilon are dynamically degenerate: they contribute no force
// and are counted so callers can surface the condition.
type Gravity struct {
	G       float64
	Epsilon float64

	skipped int
}

func NewGravity(g, epsilon float64) *Gravity {
	return &Gravity{G: g, Epsilon: epsilon}
}

// Accelerations fills acc with the acceleration of each body. acc must
// have the same length as bodies. Massless bodies feel gravity but exert
// none, which the symmetric pair update handles without a special case.
func (gr *Gravity) Accelerations(bodies []celestial.Body, acc []celestial.Vector3) {
	for i := range acc {
		acc[i] = celestial.Vector3{}
	}

	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			r := bodies[j].Position.Sub(bodies[i].Position)
			d := r.Magnitude()
			if d < gr.Epsilon {
				gr.skipped++
				continue
			}

			inv := gr.G / (d * d * d)
			acc[i] = acc[i].Add(r.Scale(inv * bodies[j].Mass))
			acc[j] = acc[j].Sub(r.Scale(inv * bodies[i].Mass))
		}
	}
}

// SkippedPairs reports the cumulative count of degenerate pairs since
// construction or the last reset.
func (gr *Gravity) SkippedPairs() int {
	return gr.skipped
}

func (gr *Gravity) ResetSkipped() {
	gr.skipped = 0
}
