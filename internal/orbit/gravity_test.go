package orbit

import (
	"math"
	"testing"

	"github.com/san-kum/trojansim/internal/celestial"
)

func TestAccelerationsTwoBody(t *testing.T) {
	grav := NewGravity(1.0, 1e-9)
	bodies := []celestial.Body{
		{Mass: 2, Position: celestial.Vector3{}},
		{Mass: 1, Position: celestial.Vector3{X: 3}},
	}
	acc := make([]celestial.Vector3, 2)
	grav.Accelerations(bodies, acc)

	if math.Abs(acc[0].X-1.0/9) > 1e-12 {
		t.Errorf("expected a0.x=1/9, got %v", acc[0].X)
	}
	if math.Abs(acc[1].X+2.0/9) > 1e-12 {
		t.Errorf("expected a1.x=-2/9, got %v", acc[1].X)
	}

	// Newton's third law: net force vanishes.
	net := acc[0].Scale(bodies[0].Mass).Add(acc[1].Scale(bodies[1].Mass))
	if net.Magnitude() > 1e-12 {
		t.Errorf("expected zero net force, got %v", net)
	}
}

func TestAccelerationsTracer(t *testing.T) {
	grav := NewGravity(1.0, 1e-9)
	bodies := []celestial.Body{
		{Mass: 1, Position: celestial.Vector3{}},
		{Mass: 0, Position: celestial.Vector3{X: 2}},
	}
	acc := make([]celestial.Vector3, 2)
	grav.Accelerations(bodies, acc)

	if acc[0].Magnitude() != 0 {
		t.Errorf("massless body exerted force: %v", acc[0])
	}
	if math.Abs(acc[1].X+0.25) > 1e-12 {
		t.Errorf("expected tracer acceleration -0.25, got %v", acc[1].X)
	}
}

func TestAccelerationsDegeneratePair(t *testing.T) {
	grav := NewGravity(1.0, 1e-3)
	bodies := []celestial.Body{
		{Mass: 1, Position: celestial.Vector3{}},
		{Mass: 1, Position: celestial.Vector3{}},
	}
	acc := make([]celestial.Vector3, 2)

	grav.Accelerations(bodies, acc)
	if acc[0].Magnitude() != 0 || acc[1].Magnitude() != 0 {
		t.Errorf("expected zero accelerations, got %v %v", acc[0], acc[1])
	}
	if grav.SkippedPairs() != 1 {
		t.Errorf("expected 1 skipped pair, got %d", grav.SkippedPairs())
	}

	grav.Accelerations(bodies, acc)
	if grav.SkippedPairs() != 2 {
		t.Errorf("expected cumulative count 2, got %d", grav.SkippedPairs())
	}

	grav.ResetSkipped()
	if grav.SkippedPairs() != 0 {
		t.Errorf("expected 0 after reset, got %d", grav.SkippedPairs())
	}
}

func TestAccelerationsSingleBody(t *testing.T) {
	grav := NewGravity(1.0, 1e-9)
	bodies := []celestial.Body{{Mass: 5, Velocity: celestial.Vector3{X: 1}}}
	acc := make([]celestial.Vector3, 1)

	grav.Accelerations(bodies, acc)
	if acc[0].Magnitude() != 0 {
		t.Errorf("expected zero acceleration, got %v", acc[0])
	}
	if grav.SkippedPairs() != 0 {
		t.Errorf("expected no skipped pairs, got %d", grav.SkippedPairs())
	}
}
