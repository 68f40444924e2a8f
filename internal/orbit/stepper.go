package orbit

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/trojansim/internal/celestial"
)

// ErrUnknownStepper indicates a stepper name with no registered scheme.
var ErrUnknownStepper = errors.New("orbit: unknown stepper")

// Stepper advances a system in place by one timestep.
type Stepper interface {
	Name() string
	Step(sys *celestial.System, dt float64)
}

var steppers = map[string]func(*Gravity) Stepper{
	"euler":    func(g *Gravity) Stepper { return NewEuler(g) },
	"leapfrog": func(g *Gravity) Stepper { return NewLeapfrog(g) },
}

// NewStepper returns the stepper registered under name.
func NewStepper(name string, grav *Gravity) (Stepper, error) {
	fn, ok := steppers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStepper, name)
	}
	return fn(grav), nil
}

// StepperNames lists the registered schemes in sorted order.
func StepperNames() []string {
	names := make([]string, 0, len(steppers))
	for name := range steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Euler is the semi-implicit Euler scheme: velocities are kicked with
// the current accelerations, then positions drift with the updated
// velocities. Symplectic, first order.
type Euler struct {
	grav *Gravity
	acc  []celestial.Vector3
}

func NewEuler(grav *Gravity) *Euler {
	return &Euler{grav: grav}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(sys *celestial.System, dt float64) {
	if len(e.acc) != len(sys.Bodies) {
		e.acc = make([]celestial.Vector3, len(sys.Bodies))
	}
	e.grav.Accelerations(sys.Bodies, e.acc)

	for i := range sys.Bodies {
		b := &sys.Bodies[i]
		b.Velocity = b.Velocity.Add(e.acc[i].Scale(dt))
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}
}

// Leapfrog is the kick-drift-kick scheme. Symplectic, second order, at
// the cost of two force evaluations per step.
type Leapfrog struct {
	grav *Gravity
	acc  []celestial.Vector3
}

func NewLeapfrog(grav *Gravity) *Leapfrog {
	return &Leapfrog{grav: grav}
}

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Step(sys *celestial.System, dt float64) {
	if len(l.acc) != len(sys.Bodies) {
		l.acc = make([]celestial.Vector3, len(sys.Bodies))
	}
	half := 0.5 * dt

	l.grav.Accelerations(sys.Bodies, l.acc)
	for i := range sys.Bodies {
		b := &sys.Bodies[i]
		b.Velocity = b.Velocity.Add(l.acc[i].Scale(half))
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}

	l.grav.Accelerations(sys.Bodies, l.acc)
	for i := range sys.Bodies {
		b := &sys.Bodies[i]
		b.Velocity = b.Velocity.Add(l.acc[i].Scale(half))
	}
}
