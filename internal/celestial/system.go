package celestial

// System is an ordered collection of bodies together with the designated
// trojan pair the resonance monitor watches.
//
// The pair is fixed at construction: the first trojan-flagged body is
// monitored, and its companion is the nearest preceding GIANT, falling
// back to the nearest preceding STAR. Additional trojan-flagged bodies
// take part in the dynamics but are not monitored.
type System struct {
	Bodies []Body

	trojan    int
	companion int
	extras    []int
}

// NewSystem copies bodies and designates the trojan pair.
func NewSystem(bodies []Body) *System {
	s := &System{
		Bodies:    make([]Body, len(bodies)),
		trojan:    -1,
		companion: -1,
	}
	copy(s.Bodies, bodies)

	for i, b := range s.Bodies {
		if !b.Trojan {
			continue
		}
		if s.trojan < 0 {
			s.trojan = i
		} else {
			s.extras = append(s.extras, i)
		}
	}
	if s.trojan >= 0 {
		s.companion = companionFor(s.Bodies, s.trojan)
	}
	return s
}

func companionFor(bodies []Body, trojan int) int {
	for i := trojan - 1; i >= 0; i-- {
		if bodies[i].Kind == Giant {
			return i
		}
	}
	for i := trojan - 1; i >= 0; i-- {
		if bodies[i].Kind == Star {
			return i
		}
	}
	return -1
}

// TrojanPair reports the indices of the monitored trojan and its
// companion. ok is false when no complete pair exists.
func (s *System) TrojanPair() (trojan, companion int, ok bool) {
	if s.trojan < 0 || s.companion < 0 {
		return -1, -1, false
	}
	return s.trojan, s.companion, true
}

// ExtraTrojans lists trojan-flagged bodies beyond the monitored one.
func (s *System) ExtraTrojans() []int {
	return s.extras
}

func (s *System) Clone() *System {
	c := &System{
		Bodies:    make([]Body, len(s.Bodies)),
		trojan:    s.trojan,
		companion: s.companion,
	}
	copy(c.Bodies, s.Bodies)
	if len(s.extras) > 0 {
		c.extras = append([]int(nil), s.extras...)
	}
	return c
}

func (s *System) TotalMass() float64 {
	sum := 0.0
	for _, b := range s.Bodies {
		sum += b.Mass
	}
	return sum
}

// Barycenter returns the mass-weighted mean position. A massless system
// falls back to the geometric mean so the point is always defined.
func (s *System) Barycenter() Vector3 {
	return aggregate(s.Bodies).Position
}

// PrimaryPoint is the reference about which orbital angles are measured:
// the position of the single star when exactly one exists, the barycenter
// of the stars when several do, and the system barycenter otherwise.
func (s *System) PrimaryPoint() Vector3 {
	return s.PrimaryBody().Position
}

// PrimaryBody resolves the primary as a body: the single star itself, or
// a synthetic mass at the barycenter of all stars (of the whole system
// when no star exists) carrying their combined mass and momentum. For
// callers that need a mass and velocity for the primary, not just a
// reference point.
func (s *System) PrimaryBody() Body {
	var stars []Body
	for _, b := range s.Bodies {
		if b.Kind == Star {
			stars = append(stars, b)
		}
	}
	switch len(stars) {
	case 1:
		return stars[0]
	case 0:
		return aggregate(s.Bodies)
	default:
		return aggregate(stars)
	}
}

// aggregate reduces bodies to one synthetic body at their mass-weighted
// barycenter, carrying their combined mass and mean velocity. A massless
// set uses geometric means.
func aggregate(bodies []Body) Body {
	if len(bodies) == 0 {
		return Body{Kind: Star}
	}
	agg := Body{Kind: Star}
	for _, b := range bodies {
		agg.Mass += b.Mass
	}
	if agg.Mass == 0 {
		for _, b := range bodies {
			agg.Position = agg.Position.Add(b.Position)
			agg.Velocity = agg.Velocity.Add(b.Velocity)
		}
		inv := 1 / float64(len(bodies))
		agg.Position = agg.Position.Scale(inv)
		agg.Velocity = agg.Velocity.Scale(inv)
		return agg
	}
	for _, b := range bodies {
		agg.Position = agg.Position.Add(b.Position.Scale(b.Mass))
		agg.Velocity = agg.Velocity.Add(b.Velocity.Scale(b.Mass))
	}
	agg.Position = agg.Position.Scale(1 / agg.Mass)
	agg.Velocity = agg.Velocity.Scale(1 / agg.Mass)
	return agg
}

func (s *System) Momentum() Vector3 {
	var p Vector3
	for _, b := range s.Bodies {
		p = p.Add(b.Momentum())
	}
	return p
}

// AngularMomentum returns the total angular momentum about the origin.
func (s *System) AngularMomentum() Vector3 {
	var l Vector3
	for _, b := range s.Bodies {
		l = l.Add(b.Position.Cross(b.Velocity).Scale(b.Mass))
	}
	return l
}

// TotalEnergy returns kinetic plus pairwise potential energy for the
// given gravitational constant. Coincident pairs contribute no potential.
func (s *System) TotalEnergy(g float64) float64 {
	e := 0.0
	for _, b := range s.Bodies {
		e += b.KineticEnergy()
	}
	for i := 0; i < len(s.Bodies); i++ {
		for j := i + 1; j < len(s.Bodies); j++ {
			r := s.Bodies[j].Position.Sub(s.Bodies[i].Position).Magnitude()
			if r > 0 {
				e -= g * s.Bodies[i].Mass * s.Bodies[j].Mass / r
			}
		}
	}
	return e
}
