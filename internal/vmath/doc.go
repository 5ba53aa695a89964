// Package vmath is the linear algebra used by the vehicle simulation.
//
// Vectors and quaternions are the mgl64 types; this package adds the
// engine-style helpers the dynamics code needs:
//
//   - [Transform]: location + rotation with world/local conversions
//   - [Rotator]: pitch/yaw/roll in degrees
//   - plane/axis projection, magnitude clamping and interpolation helpers
//
// Coordinates are Z-up, X-forward, Y-right. Lengths are centimetres.
package vmath
