// Package orbit advances planetary systems under Newtonian gravity.
//
// [Gravity] evaluates pairwise accelerations with a separation guard
// against degenerate geometry. [Stepper] implementations advance a
// [celestial.System] in place:
//
//   - [Euler]: semi-implicit Euler, the default scheme
//   - [Leapfrog]: kick-drift-kick, better energy behavior on long horizons
//
// Steppers are selected by name through [NewStepper].
package orbit
