// Package resonance watches a trojan body for loss of 1:1 co-orbital
// resonance with its companion.
//
// [Monitor] compares the instantaneous angular rates of the two bodies
// about the system's primary point after every integration step. The
// verdict is a latching state machine:
//
//   - [Stable]: the rate deviation has stayed within the margin
//   - [Broken]: the deviation exceeded the margin at least once
//   - [Undetermined]: no conclusion, because the system designates no
//     trojan pair or the companion's rate vanished persistently
//
// Angles are measured in the reference (XY) plane; out-of-plane motion
// contributes to the dynamics but not to the resonance angle.
package resonance
