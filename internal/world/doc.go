// Package world is a small reference host for the vehicle core: a height
// field ground with sphere and line casts, and a box rigid body integrated
// with semi-implicit Euler. It exists to drive the core from tests, the CLI
// and the dashboard; it is not a general physics engine.
//
// Units follow the vehicle package: centimetres, kilograms, seconds, Z up.
package world
