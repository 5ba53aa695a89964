package vehicle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/vmath"
)

func plainSuspension() config.SuspensionConfig {
	return config.SuspensionConfig{
		StiffnessFactor:            1,
		CompressionDampingFactor:   1,
		DecompressionDampingFactor: 1,
	}
}

func TestSpringForce(t *testing.T) {
	tests := []struct {
		name string
		in   SpringInput
		want float64
	}{
		{
			name: "at rest length",
			in:   SpringInput{Length: 25, PreviousLength: 25, NewLength: 25, Stiffness: 4e6, Mass: 1e4, Dt: testDt},
			want: 0,
		},
		{
			name: "static compression",
			in:   SpringInput{Length: 25, PreviousLength: 20, NewLength: 20, Stiffness: 4e6, Mass: 1e4, Dt: testDt},
			want: 800000,
		},
		{
			name: "fully compressed",
			in:   SpringInput{Length: 25, PreviousLength: 0, NewLength: 0, Stiffness: 4e6, Mass: 1e4, Dt: testDt},
			want: 4e6,
		},
		{
			name: "compressing adds damping",
			in:   SpringInput{Length: 25, PreviousLength: 21, NewLength: 20, Stiffness: 4e6, Compression: 100, Decompression: 1, Mass: 1e4, Dt: 0.5},
			want: 800000 + 2*100,
		},
		{
			name: "extending uses decompression damping",
			in:   SpringInput{Length: 25, PreviousLength: 19, NewLength: 20, Stiffness: 4e6, Compression: 1, Decompression: 300, Mass: 1e4, Dt: 0.5},
			want: 800000 - 2*300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpringForce(tt.in, plainSuspension())
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("SpringForce = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpringForceCanGoNegative(t *testing.T) {
	in := SpringInput{Length: 25, PreviousLength: 0, NewLength: 24, Stiffness: 4e6, Decompression: 4e6, Mass: 1e4, Dt: testDt}
	if f := SpringForce(in, plainSuspension()); f >= 0 {
		t.Errorf("expected a negative force for fast extension, got %v", f)
	}
}

func TestSpringForceFactors(t *testing.T) {
	s := plainSuspension()
	s.StiffnessFactor = 0.5
	in := SpringInput{Length: 25, PreviousLength: 20, NewLength: 20, Stiffness: 4e6, Mass: 1e4, Dt: testDt}
	assert.InDelta(t, 400000, SpringForce(in, s), 1e-6)
}

func TestDampingCorrectionShrinksVelocity(t *testing.T) {
	v := correctDampingVelocity(-100, 4e6, 4e6, 1e4, testDt, 1)
	assert.Less(t, v, 0.0)
	assert.Greater(t, v, -1.0, "corrected velocity is expressed in metres")
}

func TestSuspensionSettles(t *testing.T) {
	cfg := config.DefaultConfig()
	m, body, w := newTestVehicle(t, cfg)

	run(m, w, 3)

	z := body.Transform().Location.Z()
	wheel := cfg.Wheel(0)
	assert.Greater(t, z, -wheel.Location.Z()+wheel.CollisionRadius, "hull sank through full compression")
	assert.Less(t, z, -wheel.Location.Z()+wheel.CollisionRadius+wheel.Length, "hull floats above rest length")
	assert.Less(t, math.Abs(body.LinearVelocity().Z()), 5.0)

	for _, wv := range m.View().Wheels {
		assert.True(t, wv.Grounded, wv.Name)
		assert.GreaterOrEqual(t, wv.VisualLength, 0.0)
		assert.LessOrEqual(t, wv.VisualLength, wheel.Length+wheel.MaxDrop)
	}
}

func TestSuspensionForcesNonNegative(t *testing.T) {
	cfg := config.DefaultConfig()
	m, _, w := newTestVehicle(t, cfg)

	for i := 0; i < 120; i++ {
		m.Tick(testDt, RoleAuthoritative)
		for _, wh := range m.Wheels() {
			if wh.Force.Dot(vmath.Up) < 0 {
				t.Fatalf("tick %d: wheel %s pulls the hull down: %v", i, wh.Config.Name, wh.Force)
			}
		}
		w.Step(testDt)
	}
}

func TestSuspensionAirborne(t *testing.T) {
	cfg := config.DefaultConfig()
	m, body, _ := newTestVehicle(t, cfg)
	body.SetTransform(vmath.NewTransform(vmath.Vec3{0, 0, 1000}, vmath.Identity().Rotation))

	m.Tick(testDt, RoleAuthoritative)

	assert.False(t, m.Grounded())
	for _, wh := range m.Wheels() {
		assert.False(t, wh.Grounded)
		assert.Equal(t, wh.Config.Length, wh.PreviousLength)
		assert.Equal(t, vmath.Vec3{}, wh.Force)
	}
}

func TestPredictedRoleAppliesNoForce(t *testing.T) {
	cfg := config.DefaultConfig()
	m, body, _ := newTestVehicle(t, cfg)

	m.Tick(testDt, RolePredicted)

	assert.Zero(t, body.forceCalls)
	assert.True(t, m.View().Wheels[0].Grounded)
}

func TestCosmeticRoleSkipsTraces(t *testing.T) {
	cfg := config.DefaultConfig()
	m, body, _ := newTestVehicle(t, cfg)

	m.Tick(testDt, RoleCosmeticOnly)

	assert.Zero(t, body.forceCalls)
	assert.False(t, m.View().Wheels[0].Grounded)
}

func TestLineTraceSelection(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Suspension.SimplifiedWithoutThrottle = false
	m, _, _ := newTestVehicle(t, cfg)

	assert.False(t, m.useLineTrace())

	m.RequestLineTrace(true)
	assert.True(t, m.useLineTrace())

	m.cfg.Suspension.SimplifiedByCamera = false
	assert.False(t, m.useLineTrace())

	m.cfg.Suspension.Simplified = true
	assert.True(t, m.useLineTrace())
}

func TestCameraAligned(t *testing.T) {
	body := vmath.Identity()
	assert.True(t, CameraAligned(body, vmath.Vec3{1, 0.1, -0.5}))
	assert.True(t, CameraAligned(body, vmath.Vec3{-1, 0, 0}))
	assert.False(t, CameraAligned(body, vmath.Vec3{1, 1, 0}))
	assert.False(t, CameraAligned(body, vmath.Vec3{0, 0, -1}))
}

func TestLineTraceSettlesLikeSphere(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Suspension.Simplified = true
	m, body, w := newTestVehicle(t, cfg)

	run(m, w, 2)

	wheel := cfg.Wheel(0)
	z := body.Transform().Location.Z()
	assert.Greater(t, z, -wheel.Location.Z()+wheel.CollisionRadius)
	assert.Less(t, z, -wheel.Location.Z()+wheel.CollisionRadius+wheel.Length)
}
