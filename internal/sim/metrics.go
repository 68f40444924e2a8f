package sim

import (
	"math"

	"github.com/san-kum/trojansim/internal/celestial"
)

// Metric accumulates a scalar diagnostic over a run. The driver observes
// the initial state once and then the state after every step.
type Metric interface {
	Name() string
	Observe(sys *celestial.System, t float64)
	Value() float64
	Reset()
}

// EnergyDrift tracks the worst relative departure of total mechanical
// energy from its value at the first observation.
type EnergyDrift struct {
	name     string
	g        float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(g float64) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", g: g}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(sys *celestial.System, t float64) {
	energy := sys.TotalEnergy(e.g)

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift tracks how far total linear momentum wanders from its
// initial vector. The drift is relative to the initial magnitude when
// that is nonzero, absolute otherwise (a barycentric frame starts at
// zero momentum).
type MomentumDrift struct {
	name     string
	initial  celestial.Vector3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(sys *celestial.System, t float64) {
	p := sys.Momentum()

	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	drift := p.Sub(m.initial).Magnitude()
	if n := m.initial.Magnitude(); n != 0 {
		drift /= n
	}
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = celestial.Vector3{}
	m.maxDrift = 0
	m.samples = 0
}
