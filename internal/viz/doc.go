// Package viz renders a running system in the terminal.
//
// [Model] is a Bubble Tea program that advances the integrator a fixed
// number of steps per frame and draws the bodies top-down on a braille
// [Canvas]. Radial distances are log-compressed so inner and outer
// orbits share one screen; a side panel tracks the resonance verdict,
// the pair's periods and the recent deviation history.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial state
//	+/-   - Double/halve the steps per frame
//	Q     - Quit
package viz
