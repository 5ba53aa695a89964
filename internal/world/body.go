package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vmath"
)

var _ dynamo.RigidBody = (*Body)(nil)

// Body is a box rigid body with a diagonal inertia tensor. Forces accumulate
// between Integrate calls and are cleared by them.
type Body struct {
	mass     float64
	inertia  vmath.Vec3
	comLocal vmath.Vec3

	transform vmath.Transform
	lin       vmath.Vec3
	ang       vmath.Vec3

	force  vmath.Vec3
	torque vmath.Vec3

	gravityZ       float64
	linearDamping  float64
	angularDamping float64
	sleeping       bool
}

// NewBox builds a box body of the given half extents with its centre of
// mass offset by com in body space.
func NewBox(mass float64, halfExtent, com vmath.Vec3) *Body {
	a, b, c := halfExtent.X(), halfExtent.Y(), halfExtent.Z()
	return &Body{
		mass:      mass,
		inertia:   vmath.Vec3{mass / 3 * (b*b + c*c), mass / 3 * (a*a + c*c), mass / 3 * (a*a + b*b)},
		comLocal:  com,
		transform: vmath.Identity(),
		gravityZ:  DefaultGravityZ,
	}
}

func (b *Body) SetDamping(linear, angular float64) {
	b.linearDamping = linear
	b.angularDamping = angular
}

func (b *Body) SetGravityZ(g float64) { b.gravityZ = g }

func (b *Body) Mass() float64            { return b.mass }
func (b *Body) Inertia() vmath.Vec3      { return b.inertia }
func (b *Body) CenterOfMass() vmath.Vec3 { return b.transform.TransformPosition(b.comLocal) }

func (b *Body) Transform() vmath.Transform     { return b.transform }
func (b *Body) SetTransform(t vmath.Transform) { b.transform = t }

func (b *Body) LinearVelocity() vmath.Vec3      { return b.lin }
func (b *Body) SetLinearVelocity(v vmath.Vec3)  { b.lin = v }
func (b *Body) AngularVelocity() vmath.Vec3     { return b.ang }
func (b *Body) SetAngularVelocity(w vmath.Vec3) { b.ang = w }

func (b *Body) PointVelocity(p vmath.Vec3) vmath.Vec3 {
	return b.lin.Add(b.ang.Cross(p.Sub(b.CenterOfMass())))
}

func (b *Body) AddForce(f vmath.Vec3) {
	if b.sleeping {
		return
	}
	b.force = b.force.Add(f)
}

func (b *Body) AddForceAtLocation(f, p vmath.Vec3) {
	if b.sleeping {
		return
	}
	b.force = b.force.Add(f)
	b.torque = b.torque.Add(p.Sub(b.CenterOfMass()).Cross(f))
}

func (b *Body) AddTorque(t vmath.Vec3) {
	if b.sleeping {
		return
	}
	b.torque = b.torque.Add(t)
}

func (b *Body) IsSleeping() bool { return b.sleeping }

// Sleep freezes the body and drops its velocities.
func (b *Body) Sleep() {
	b.sleeping = true
	b.lin, b.ang = vmath.Vec3{}, vmath.Vec3{}
	b.force, b.torque = vmath.Vec3{}, vmath.Vec3{}
}

func (b *Body) WakeUp() { b.sleeping = false }

// Integrate advances the body by dt with semi-implicit Euler: velocities are
// updated from the accumulated loads first, then positions from the new
// velocities.
func (b *Body) Integrate(dt float64) {
	if b.sleeping {
		return
	}

	acc := b.force.Mul(1 / b.mass).Add(vmath.Vec3{0, 0, b.gravityZ})
	b.lin = b.lin.Add(acc.Mul(dt)).Mul(1 / (1 + dt*b.linearDamping))

	rot := b.transform.Rotation
	wl := rot.Inverse().Rotate(b.ang)
	tl := rot.Inverse().Rotate(b.torque)
	iw := vmath.Vec3{b.inertia[0] * wl[0], b.inertia[1] * wl[1], b.inertia[2] * wl[2]}
	gyro := tl.Sub(wl.Cross(iw))
	for i := range wl {
		wl[i] += gyro[i] / b.inertia[i] * dt
	}
	b.ang = rot.Rotate(wl).Mul(1 / (1 + dt*b.angularDamping))

	com := b.CenterOfMass().Add(b.lin.Mul(dt))

	spin := mgl64.Quat{W: 0, V: b.ang}.Mul(rot).Scale(0.5 * dt)
	next := rot.Add(spin)
	if l := next.Len(); l > vmath.SmallNumber && !math.IsNaN(l) {
		next = next.Scale(1 / l)
	} else {
		next = rot
	}

	b.transform = vmath.NewTransform(com.Sub(next.Rotate(b.comLocal)), next)
	b.force, b.torque = vmath.Vec3{}, vmath.Vec3{}
}

// KineticEnergy is translational plus rotational energy in kg·cm²/s².
func (b *Body) KineticEnergy() float64 {
	wl := b.transform.Rotation.Inverse().Rotate(b.ang)
	rot := 0.0
	for i := range wl {
		rot += b.inertia[i] * wl[i] * wl[i]
	}
	return 0.5*b.mass*b.lin.LenSqr() + 0.5*rot
}
