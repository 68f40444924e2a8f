package orbit

import (
	"math"
	"testing"

	"github.com/san-kum/trojansim/internal/celestial"
)

const (
	testG   = 6.674e-11
	sunMass = 1.989e30
	au      = 1.496e11
)

func TestOrbitalPeriodEarthLike(t *testing.T) {
	sun := celestial.Body{Kind: celestial.Star, Mass: sunMass}
	earth := celestial.Body{
		Position: celestial.Vector3{X: au},
		Velocity: celestial.Vector3{Y: CircularSpeed(testG, sunMass, au)},
	}

	period, ok := OrbitalPeriod(earth, sun, testG)
	if !ok {
		t.Fatal("expected bound orbit")
	}

	const year = 365.25 * 24 * 3600
	if math.Abs(period/year-1) > 0.01 {
		t.Errorf("expected ~1 year, got %v s", period)
	}
}

func TestOrbitalPeriodUnbound(t *testing.T) {
	sun := celestial.Body{Kind: celestial.Star, Mass: sunMass}
	comet := celestial.Body{
		Position: celestial.Vector3{X: au},
		Velocity: celestial.Vector3{Y: 2 * CircularSpeed(testG, sunMass, au)},
	}

	if _, ok := OrbitalPeriod(comet, sun, testG); ok {
		t.Error("expected unbound orbit to report ok=false")
	}
}

func TestOrbitalPeriodDegenerate(t *testing.T) {
	tests := []struct {
		name          string
		body, primary celestial.Body
	}{
		{
			"coincident",
			celestial.Body{Mass: 1},
			celestial.Body{Mass: 1},
		},
		{
			"massless pair",
			celestial.Body{Position: celestial.Vector3{X: 1}},
			celestial.Body{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := OrbitalPeriod(tt.body, tt.primary, 1.0); ok {
				t.Error("expected ok=false")
			}
		})
	}
}

func TestCircularSpeed(t *testing.T) {
	v := CircularSpeed(testG, sunMass, au)
	if math.Abs(v-2.978e4) > 100 {
		t.Errorf("expected ~29.78 km/s, got %v", v)
	}
}
