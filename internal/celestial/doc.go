// Package celestial defines the bodies and bookkeeping for planetary systems.
//
// The package provides the value types shared by the integrator and the
// resonance monitor:
//
//   - [Vector3]: three-component Cartesian vector
//   - [Body]: point mass with position, velocity and classification
//   - [System]: ordered collection of bodies with a designated trojan pair
//
// # Units
//
// All quantities are SI: kilograms, meters, seconds. The gravitational
// constant is supplied by the caller, so scaled unit systems work as long
// as they are applied consistently.
package celestial
