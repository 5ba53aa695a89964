package vehicle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/vmath"
)

func TestOmegaToRPM(t *testing.T) {
	assert.InDelta(t, 30, OmegaToRPM(math.Pi), 1e-12)
	assert.InDelta(t, 60/(2*math.Pi)*10, OmegaToRPM(10), 1e-9)
}

func TestEngineRPMClamped(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		want  float64
	}{
		{"standstill", 0, 0},
		{"mid range", 100, OmegaToRPM(6 * 3.5 * 100 / 20)},
		{"over the limit", 2000, 2810},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EngineRPM(6, 3.5, tt.speed, 0, 2810)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EngineRPM(%v) = %v, want %v", tt.speed, got, tt.want)
			}
		})
	}
}

func TestEngineRPMMonotone(t *testing.T) {
	prev := -1.0
	for v := 0.0; v < 1000; v += 10 {
		rpm := EngineRPM(3.6, 3.5, v, 0, 2810)
		if rpm < prev {
			t.Fatalf("rpm decreased at %v: %v < %v", v, rpm, prev)
		}
		prev = rpm
	}
}

func TestApplyBrake(t *testing.T) {
	tests := []struct {
		name                string
		omega, ratio, force float64
		want                float64
	}{
		{"no brake", 10, 0, 30, 10},
		{"slows forward", 10, 1, 30, 10 - 30*testDt},
		{"slows reverse", -10, 1, 30, -10 + 30*testDt},
		{"stops without reversing", 0.1, 1, 30, 0},
		{"already stopped", 0, 1, 30, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyBrake(testDt, tt.omega, tt.ratio, tt.force)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ApplyBrake = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNoTorqueAtRPMCeiling(t *testing.T) {
	cfg := config.DefaultConfig()
	m, body, _ := newTestVehicle(t, cfg)

	m.gearbox.current = m.gearbox.Neutral() + 1
	m.throttle = 1
	body.SetLinearVelocity(vmath.Vec3{5000, 0, 0})

	m.updateEngine()

	assert.InDelta(t, m.MaxEngineRPM(), m.EngineRPM(), 1e-9)
	assert.Zero(t, m.EngineTorque())
	assert.Zero(t, m.DriveTorque())
}

func TestDriveTorqueChain(t *testing.T) {
	cfg := config.DefaultConfig()
	m, _, _ := newTestVehicle(t, cfg)

	m.gearbox.current = m.gearbox.Neutral() + 1
	m.throttle = 0.5
	m.rawThrottle = 1

	m.updateEngine()

	e := cfg.Engine
	gear := cfg.Gearbox.Gears[m.gearbox.Current()].Ratio
	wantEngine := e.TorqueCurve.Eval(0) * 100 * 0.5
	assert.InDelta(t, wantEngine, m.EngineTorque(), 1e-6)
	assert.InDelta(t, wantEngine*gear*e.DifferentialRatio*e.TransmissionEfficiency*e.ExtraPowerRatio, m.DriveTorque(), 1e-3)
}

func TestDriveTorqueReverseSign(t *testing.T) {
	cfg := config.DefaultConfig()
	m, _, _ := newTestVehicle(t, cfg)

	m.gearbox.current = m.gearbox.Neutral() - 1
	m.gearbox.reverse = true
	m.throttle = 1
	m.rawThrottle = -1

	m.updateEngine()
	assert.Less(t, m.DriveTorque(), 0.0)
}

func TestZeroTorqueWhileShifting(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gearbox.ShiftLatency = 1
	cfg.Gearbox.ZeroTorqueWhenShifting = true
	m, _, _ := newTestVehicle(t, cfg)

	m.gearbox.current = m.gearbox.Neutral() + 1
	require.True(t, m.gearbox.Shift(true, 1, 0, 1))
	m.throttle = 1

	m.updateEngine()
	assert.Zero(t, m.EngineTorque())
}

func TestStartExtraPower(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Engine.StartExtraPowerRatio = 2
	cfg.Engine.StartExtraPowerDuration = 1
	cfg.Engine.StartExtraPowerCooldown = 5
	m, body, _ := newTestVehicle(t, cfg)

	m.rawThrottle = 1
	body.SetLinearVelocity(vmath.Vec3{50, 0, 0})

	m.now = 0.5
	m.updateStartExtraPower()
	assert.Equal(t, 2.0, m.startExtraPower, "boost on launch")

	m.now = 2
	m.updateStartExtraPower()
	assert.Equal(t, 1.0, m.startExtraPower, "boost expires")

	// commanding against the direction of travel re-arms regardless of cooldown
	m.rawThrottle = -1
	m.now = 2.5
	m.updateStartExtraPower()
	assert.Equal(t, 2.0, m.startExtraPower)
}

func TestTracksVelocityKinetic(t *testing.T) {
	cfg := config.DefaultConfig()
	m, _, _ := newTestVehicle(t, cfg)

	m.left = TrackState{DriveTorque: m.moi, Kinetic: true}
	m.right = TrackState{DriveTorque: m.moi}

	m.updateTracksVelocity(0.5)

	assert.InDelta(t, 0.5, m.left.AngularSpeed, 1e-12)
	assert.InDelta(t, 0.5*cfg.Track.SprocketRadius, m.left.LinearSpeed, 1e-12)
	assert.Zero(t, m.right.AngularSpeed, "static tracks follow the ground")
}

func TestDriveForceWithheldByStabilizer(t *testing.T) {
	cfg := config.DefaultConfig()
	m, _, _ := newTestVehicle(t, cfg)

	m.driveTorque = 100
	m.left.TorqueTransfer, m.right.TorqueTransfer = 1, 1
	m.left.Torque, m.right.Torque = 50, 50
	m.stabilizerLeft = true

	m.updateDriveForce()

	assert.Zero(t, m.left.DriveTorque)
	assert.Equal(t, vmath.Vec3{}, m.left.DriveForce)
	assert.Equal(t, 100.0, m.right.DriveTorque)
	assert.InDelta(t, 50/cfg.Track.SprocketRadius, m.right.DriveForce.X(), 1e-12)
}

func TestTankAccelerates(t *testing.T) {
	cfg := config.DefaultConfig()
	m, _, w := newTestVehicle(t, cfg)

	run(m, w, 0.5)
	m.SetThrottle(1)
	run(m, w, 3)

	assert.Greater(t, m.ForwardSpeed(), 50.0)
	assert.Greater(t, m.Gearbox().Current(), m.Gearbox().Neutral())
	assert.False(t, m.Gearbox().Reverse())
	assert.Greater(t, m.EngineRPM(), 0.0)
}

func TestTankReverses(t *testing.T) {
	cfg := config.DefaultConfig()
	m, _, w := newTestVehicle(t, cfg)

	run(m, w, 0.5)
	m.SetThrottle(-1)
	run(m, w, 3)

	assert.Less(t, m.ForwardSpeed(), -20.0)
	assert.Less(t, m.Gearbox().Current(), m.Gearbox().Neutral())
	assert.True(t, m.Gearbox().Reverse())
}
