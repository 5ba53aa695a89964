// Package dynamo defines the boundary between the vehicle dynamics core and
// the host physics engine.
//
// The core never integrates the rigid body itself. It reads the body through
// [RigidBody], queries the ground through [Caster] and emits forces:
//
//   - [RigidBody]: hull mass, transform, velocities and force application
//   - [Caster]: synchronous sphere and line casts returning [Hit]s
//   - [Contact]: optional simulated ground object that receives reactions
//   - [Configurable]: named tunables shared by vehicles and controllers
//
// # Thread Safety
//
// Implementations are driven from one goroutine per vehicle. A Caster shared
// by several vehicles must allow concurrent read-only casts.
package dynamo
