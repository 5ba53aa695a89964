package dynamo

import "github.com/san-kum/trackdyn/internal/vmath"

// RigidBody is the handle to the vehicle hull owned by the host physics engine.
// Angular velocities are world space, rad/s.
type RigidBody interface {
	Mass() float64
	CenterOfMass() vmath.Vec3
	Transform() vmath.Transform
	SetTransform(t vmath.Transform)
	LinearVelocity() vmath.Vec3
	SetLinearVelocity(v vmath.Vec3)
	AngularVelocity() vmath.Vec3
	SetAngularVelocity(w vmath.Vec3)
	PointVelocity(p vmath.Vec3) vmath.Vec3
	AddForce(f vmath.Vec3)
	AddForceAtLocation(f, p vmath.Vec3)
	AddTorque(t vmath.Vec3)
	IsSleeping() bool
	Sleep()
	WakeUp()
}

// CastQuery sweeps a sphere of Radius from Start to End, or a ray when Line is set.
type CastQuery struct {
	Start  vmath.Vec3
	End    vmath.Vec3
	Radius float64
	Line   bool
}

type Surface uint8

const (
	SurfaceDefault Surface = iota
	SurfaceDirt
	SurfaceGrass
	SurfaceAsphalt
	SurfaceSand
	SurfaceSnow
	SurfaceWater
)

func (s Surface) String() string {
	switch s {
	case SurfaceDirt:
		return "dirt"
	case SurfaceGrass:
		return "grass"
	case SurfaceAsphalt:
		return "asphalt"
	case SurfaceSand:
		return "sand"
	case SurfaceSnow:
		return "snow"
	case SurfaceWater:
		return "water"
	}
	return "default"
}

// Hit is one result of a cast. Location is the sweep centre at impact;
// ImpactPoint is the contact on the surface.
type Hit struct {
	Location         vmath.Vec3
	ImpactPoint      vmath.Vec3
	ImpactNormal     vmath.Vec3
	Distance         float64
	Blocking         bool
	Penetrating      bool
	PenetrationDepth float64
	Surface          Surface
	Component        Contact
}

// Caster answers synchronous shape casts against the world.
type Caster interface {
	Cast(q CastQuery) []Hit
	GravityZ() float64
}

// Contact is an optional ground object that receives suspension reactions.
type Contact interface {
	Simulating() bool
	AddForceAtLocation(f, p vmath.Vec3)
	NotifyHit(p, n, impulse vmath.Vec3)
}

// Configurable exposes named tunables for live adjustment and sweeps.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
