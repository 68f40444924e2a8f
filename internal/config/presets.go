package config

import (
	"math"
	"sort"

	"github.com/san-kum/trojansim/internal/celestial"
	"github.com/san-kum/trojansim/internal/orbit"
)

const (
	sunMass       = 1.989e30
	sunRadius     = 6.96e8
	jupiterMass   = 1.898e27
	jupiterRadius = 6.9911e7
	jupiterSMA    = 7.785e11
	hektorMass    = 7.9e18
	patroclusMass = 1.36e18
)

// Preset is a ready-made system with matched run parameters.
type Preset struct {
	Description string
	Config      *Config
	Bodies      []celestial.Body
}

// System builds a fresh System from the preset bodies. Presets are never
// mutated by runs.
func (p *Preset) System() *celestial.System {
	return celestial.NewSystem(p.Bodies)
}

var Presets = map[string]*Preset{
	"sun-jupiter-l4": {
		Description: "Hektor-like trojan 60 degrees ahead of Jupiter",
		Config: &Config{
			Integrator: "leapfrog", Dt: DefaultDt, Margin: 10,
			HorizonYears: 1e6, Epsilon: DefaultEpsilon,
		},
		Bodies: sunJupiterBodies("hektor", hektorMass, math.Pi/3, 1),
	},
	"sun-jupiter-l5": {
		Description: "Patroclus-like trojan 60 degrees behind Jupiter",
		Config: &Config{
			Integrator: "leapfrog", Dt: DefaultDt, Margin: 10,
			HorizonYears: 1e6, Epsilon: DefaultEpsilon,
		},
		Bodies: sunJupiterBodies("patroclus", patroclusMass, -math.Pi/3, 1),
	},
	"perturbed-l4": {
		Description: "L4 trojan with a 5% velocity kick, breaks within years",
		Config: &Config{
			Integrator: "leapfrog", Dt: DefaultDt, Margin: 10,
			HorizonYears: 100, Epsilon: DefaultEpsilon,
		},
		Bodies: sunJupiterBodies("hektor", hektorMass, math.Pi/3, 1.05),
	},
	"tight-binary": {
		Description: "co-orbital pair around a tight equal-mass binary",
		Config: &Config{
			Integrator: "leapfrog", Dt: DefaultDt / 4, Margin: 20,
			HorizonYears: 1000, Epsilon: DefaultEpsilon,
		},
		Bodies: tightBinaryBodies(),
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// onCircle places a body on a circular orbit of radius r about a central
// mass at the origin, at the given angle from +X, moving prograde.
func onCircle(central, r, angle float64) (pos, vel celestial.Vector3) {
	v := orbit.CircularSpeed(orbit.G, central, r)
	sin, cos := math.Sincos(angle)
	pos = celestial.Vector3{X: r * cos, Y: r * sin}
	vel = celestial.Vector3{X: -v * sin, Y: v * cos}
	return pos, vel
}

// sunJupiterBodies builds sol + jove + a trojan at the given angle from
// Jupiter's position. kick scales the trojan's circular velocity; 1 is
// unperturbed.
func sunJupiterBodies(trojanName string, trojanMass, angle, kick float64) []celestial.Body {
	jp, jv := onCircle(sunMass, jupiterSMA, 0)
	tp, tv := onCircle(sunMass, jupiterSMA, angle)

	return []celestial.Body{
		{Kind: celestial.Star, Name: "sol", Mass: sunMass, Radius: sunRadius},
		{Kind: celestial.Giant, Name: "jove", Mass: jupiterMass, Radius: jupiterRadius,
			Position: jp, Velocity: jv},
		{Kind: celestial.Terrestrial, Name: trojanName, Trojan: true, Mass: trojanMass, Radius: 1.1e5,
			Position: tp, Velocity: tv.Scale(kick)},
	}
}

// tightBinaryBodies builds an equal-mass binary with a circumbinary giant
// and its trojan. The multi-star primary exercises the barycenter rule.
func tightBinaryBodies() []celestial.Body {
	const (
		starMass = 1e30
		starSep  = 1.5e10
		giantSMA = 3e11
	)

	// Each star carries half the relative circular speed of the pair.
	vRel := orbit.CircularSpeed(orbit.G, 2*starMass, starSep)
	half := starSep / 2

	gp, gv := onCircle(2*starMass, giantSMA, 0)
	tp, tv := onCircle(2*starMass, giantSMA, math.Pi/3)

	return []celestial.Body{
		{Kind: celestial.Star, Name: "alpha", Mass: starMass, Radius: 6e8,
			Position: celestial.Vector3{X: half}, Velocity: celestial.Vector3{Y: vRel / 2}},
		{Kind: celestial.Star, Name: "beta", Mass: starMass, Radius: 6e8,
			Position: celestial.Vector3{X: -half}, Velocity: celestial.Vector3{Y: -vRel / 2}},
		{Kind: celestial.Giant, Name: "gamma", Mass: 5e27, Radius: 7e7,
			Position: gp, Velocity: gv},
		{Kind: celestial.Terrestrial, Name: "delta", Trojan: true, Mass: 1e19, Radius: 1e5,
			Position: tp, Velocity: tv},
	}
}
