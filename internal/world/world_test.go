package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vmath"
)

func TestGroundHeight(t *testing.T) {
	g := &Ground{Height: 10, SlopeX: 0.1, Bumps: []Bump{{X: 100, Y: 0, Radius: 50, Height: 20}}}

	assert.InDelta(t, 10, g.HeightAt(0, 0), 1e-9)
	assert.InDelta(t, 10+10+20, g.HeightAt(100, 0), 1e-9)
	assert.InDelta(t, 10+20, g.HeightAt(200, 0), 1e-9)
}

func TestGroundNormalFlat(t *testing.T) {
	n := Flat().NormalAt(12, -40)
	assert.InDelta(t, 1, n.Z(), 1e-9)
}

func TestSphereCastFlat(t *testing.T) {
	g := Flat()
	hits := g.Cast(dynamo.CastQuery{
		Start:  vmath.Vec3{0, 0, 100},
		End:    vmath.Vec3{0, 0, 0},
		Radius: 30,
	})
	require.Len(t, hits, 1)

	h := hits[0]
	assert.True(t, h.Blocking)
	assert.False(t, h.Penetrating)
	assert.InDelta(t, 70, h.Distance, 1e-3)
	assert.InDelta(t, 0, h.ImpactPoint.Z(), 1e-3)
	assert.InDelta(t, 30, h.Location.Z(), 1e-3)
	assert.Equal(t, dynamo.SurfaceDirt, h.Surface)
}

func TestLineCastFlat(t *testing.T) {
	hits := Flat().Cast(dynamo.CastQuery{
		Start: vmath.Vec3{5, 5, 50},
		End:   vmath.Vec3{5, 5, -50},
		Line:  true,
	})
	require.Len(t, hits, 1)
	assert.InDelta(t, 50, hits[0].Distance, 1e-3)
}

func TestCastMiss(t *testing.T) {
	hits := Flat().Cast(dynamo.CastQuery{
		Start:  vmath.Vec3{0, 0, 200},
		End:    vmath.Vec3{0, 0, 100},
		Radius: 20,
	})
	assert.Empty(t, hits)
}

func TestCastPenetrating(t *testing.T) {
	hits := Flat().Cast(dynamo.CastQuery{
		Start:  vmath.Vec3{0, 0, 10},
		End:    vmath.Vec3{0, 0, -50},
		Radius: 30,
	})
	require.Len(t, hits, 1)
	assert.True(t, hits[0].Penetrating)
	assert.InDelta(t, 20, hits[0].PenetrationDepth, 1e-6)
	assert.Zero(t, hits[0].Distance)
}

func TestCastReportsComponent(t *testing.T) {
	p := NewPlatform(true)
	g := Flat()
	g.Component = p

	hits := g.Cast(dynamo.CastQuery{Start: vmath.Vec3{0, 0, 50}, End: vmath.Vec3{0, 0, -50}, Line: true})
	require.Len(t, hits, 1)
	assert.Same(t, p, hits[0].Component)
}

func TestBodyFreeFall(t *testing.T) {
	w := New(nil)
	b := w.Spawn(1000, vmath.Vec3{100, 50, 25}, vmath.Vec3{}, vmath.Vec3{0, 0, 1000})

	dt := 0.01
	for i := 0; i < 100; i++ {
		w.Step(dt)
	}

	// semi-implicit Euler overshoots the exact fall by g*dt*T/2
	exact := 1000 + 0.5*DefaultGravityZ
	assert.InDelta(t, exact, b.Transform().Location.Z(), math.Abs(DefaultGravityZ)*dt*1/2+1e-6)
	assert.InDelta(t, DefaultGravityZ, b.LinearVelocity().Z(), 1e-6)
}

func TestBodyForceAtLocationSpins(t *testing.T) {
	b := NewBox(100, vmath.Vec3{100, 100, 100}, vmath.Vec3{})
	b.SetGravityZ(0)

	b.AddForceAtLocation(vmath.Vec3{0, 1000, 0}, vmath.Vec3{100, 0, 0})
	b.Integrate(0.1)

	assert.Greater(t, b.AngularVelocity().Z(), 0.0)
	assert.InDelta(t, 1, b.LinearVelocity().Y(), 1e-9)
}

func TestBodyRotationStaysUnit(t *testing.T) {
	b := NewBox(100, vmath.Vec3{100, 50, 20}, vmath.Vec3{0, 0, -10})
	b.SetGravityZ(0)
	b.SetAngularVelocity(vmath.Vec3{0.3, 2, 5})

	for i := 0; i < 1000; i++ {
		b.Integrate(1.0 / 60)
	}
	assert.InDelta(t, 1, b.Transform().Rotation.Len(), 1e-9)
}

func TestBodySleep(t *testing.T) {
	b := NewBox(100, vmath.Vec3{10, 10, 10}, vmath.Vec3{})
	b.SetLinearVelocity(vmath.Vec3{1, 2, 3})
	b.Sleep()

	assert.True(t, b.IsSleeping())
	assert.Equal(t, vmath.Vec3{}, b.LinearVelocity())

	b.AddForce(vmath.Vec3{1e6, 0, 0})
	b.Integrate(0.1)
	assert.Equal(t, vmath.Vec3{}, b.Transform().Location)

	b.WakeUp()
	b.Integrate(0.1)
	assert.Less(t, b.Transform().Location.Z(), 0.0)
}

func TestPointVelocity(t *testing.T) {
	b := NewBox(100, vmath.Vec3{10, 10, 10}, vmath.Vec3{})
	b.SetAngularVelocity(vmath.Vec3{0, 0, 1})

	v := b.PointVelocity(vmath.Vec3{100, 0, 0})
	assert.InDelta(t, 100, v.Y(), 1e-9)
}

func TestPlatformLoad(t *testing.T) {
	p := NewPlatform(true)
	p.AddForceAtLocation(vmath.Vec3{0, 0, -10}, vmath.Vec3{})
	p.NotifyHit(vmath.Vec3{}, vmath.Up, vmath.Vec3{0, 0, 2})

	f, imp, n := p.Load()
	assert.Equal(t, vmath.Vec3{0, 0, -10}, f)
	assert.Equal(t, vmath.Vec3{0, 0, 2}, imp)
	assert.Equal(t, 1, n)

	_, _, n = p.Load()
	assert.Zero(t, n)
}
