// Package scenario loads scripted runs from YAML and sweeps vehicle
// parameters across them.
//
// A scenario file names a vehicle, the ground, a driver and the run
// settings:
//
//	name: pivot
//	preset: tank
//	settle: 0.5
//	sim:
//	  dt: 0.016666
//	  duration: 8
//	driver:
//	  type: script
//	  keys:
//	    - at: 0
//	      steering: 1
//	    - at: 4
//	      throttle: 1
package scenario
