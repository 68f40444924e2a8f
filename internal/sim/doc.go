// Package sim runs trojan-resonance simulations to a verdict.
//
// [Driver] ties the pieces together: it advances a [celestial.System]
// with an [orbit.Stepper], watches the designated pair through a
// [resonance.Monitor], and stops at the first departure from Stable, at
// the horizon, or on context cancellation. Runs produce a [Report] with
// the outcome, yearly period [Sample] history and accumulated [Metric]
// values.
//
// [Sweep] runs a grid of independent configurations concurrently on
// clones of one system, for integrator and timestep comparisons.
package sim
