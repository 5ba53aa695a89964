// Package vehicle is the per-tick dynamics core of a tracked or wheeled
// vehicle whose hull is a single rigid body owned by a host physics engine.
//
// Each Tick runs a strict pipeline:
//
//	inputs -> suspension -> friction -> steering/throttle -> gearbox -> brake
//	       -> track velocity -> engine -> drive force -> damping
//
// Suspension must be solved before friction (friction needs wheel load), and
// friction before track integration (integration consumes friction torque).
// The Role passed to Tick decides whether forces reach the body or only
// visual state is refreshed.
//
// A Movement is not safe for concurrent use. Independent vehicles may be
// ticked from separate goroutines as long as the Caster they share allows
// concurrent casts.
package vehicle
