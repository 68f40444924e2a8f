package celestial

import "fmt"

// BodyKind classifies a body for companion selection and display.
type BodyKind int

const (
	Star BodyKind = iota
	Giant
	Terrestrial
)

func (k BodyKind) String() string {
	switch k {
	case Star:
		return "STAR"
	case Giant:
		return "GIANT"
	case Terrestrial:
		return "TERRESTRIAL"
	default:
		return fmt.Sprintf("BodyKind(%d)", int(k))
	}
}

// ParseKind maps the textual form used in system files to a BodyKind.
func ParseKind(s string) (BodyKind, error) {
	switch s {
	case "STAR":
		return Star, nil
	case "GIANT":
		return Giant, nil
	case "TERRESTRIAL":
		return Terrestrial, nil
	}
	return 0, fmt.Errorf("celestial: unknown body kind %q", s)
}

// Body is a point mass advanced by the integrator. Mass may be zero, in
// which case the body is a passive tracer: it feels gravity but exerts
// none.
type Body struct {
	Name     string
	Kind     BodyKind
	Trojan   bool
	Mass     float64
	Radius   float64
	Position Vector3
	Velocity Vector3
}

func (b Body) Momentum() Vector3 {
	return b.Velocity.Scale(b.Mass)
}

func (b Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
}
