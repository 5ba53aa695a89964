// Package control provides drivers that produce vehicle inputs each tick.
//
// Drivers implement [Driver] and see the vehicle through a [Status]
// snapshot:
//
//   - [None]: no input
//   - [Manual]: holds whatever input was last set, for interactive use
//   - [Script]: time keyed input timeline, loadable from YAML
//   - [Cruise]: PID throttle holding a forward speed
//   - [Seek]: drives toward a destination with throttle and steering PIDs
//   - [Avoid]: biases another driver toward an avoidance velocity
//
// # Usage
//
//	drv := control.NewCruise(800, control.NewPID(2, 0.01, 0, -50, 50))
//	in := drv.Compute(control.StatusOf(m), t)
//	in.Apply(m)
package control
