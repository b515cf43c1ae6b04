// Package physics implements the single-instance simulation core: a
// rigid ball bouncing inside a rotating circular container under
// gravity.
//
//   - [Ball], [Container]: rigid-body state with immutable shape
//     constants (solid-disk ball, thin-ring container)
//   - [System]: one ball/container pair with sub-stepped semi-implicit
//     integration, impulse-based wall contact and energy-drift
//     correction
//
// # Energy Conservation
//
// Discrete integration drifts. [System.Advance] therefore ends every
// step with a velocity rescaling that pulls total mechanical energy
// back toward the baseline captured by [System.Reset], capped at 1%
// per call so the correction itself cannot destabilize the motion.
package physics
