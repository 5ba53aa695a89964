package vehicle

import (
	"math"

	"github.com/san-kum/trackdyn/internal/vmath"
)

// OmegaToRPM converts rad/s to revolutions per minute.
func OmegaToRPM(omega float64) float64 {
	return omega * 30 / math.Pi
}

// EngineRPM is the engine speed implied by a drivetrain ratio and hull speed,
// clamped to [lo, hi].
func EngineRPM(gearRatio, differential, speed, lo, hi float64) float64 {
	return vmath.Clamp(OmegaToRPM(gearRatio*differential*speed/20), lo, hi)
}

// ApplyBrake reduces an angular speed by the brake deceleration for one step
// without reversing it.
func ApplyBrake(dt, omega, ratio, force float64) float64 {
	brake := ratio * force * dt
	if math.Abs(omega) > math.Abs(brake) {
		return omega - brake*vmath.Sign(omega)
	}
	return 0
}

func (m *Movement) updateTracksVelocity(dt float64) {
	for _, t := range []*TrackState{&m.left, &m.right} {
		t.Torque = t.DriveTorque + t.KineticFrictionTorque + t.RollingFrictionTorque
		omega := t.AngularSpeed
		if t.Kinetic {
			omega += t.Torque / m.moi * dt
		}
		t.EffectiveAngularSpeed = omega
		t.AngularSpeed = ApplyBrake(dt, omega, t.BrakeRatio, m.cfg.Brake.Force)
		t.LinearSpeed = t.AngularSpeed * m.cfg.Track.SprocketRadius
	}
}

func (m *Movement) updateHullVelocity() {
	m.hullAngularSpeed = (math.Abs(m.left.AngularSpeed) + math.Abs(m.right.AngularSpeed)) / 2
}

// updateStartExtraPower arms the launch boost when motion starts after the
// cooldown, or whenever the input opposes the current direction of travel.
func (m *Movement) updateStartExtraPower() {
	e := m.cfg.Engine
	if m.now-m.startExtraPowerAt >= e.StartExtraPowerDuration {
		m.startExtraPower = 1
	}

	speed := m.body.LinearVelocity().Len()
	hasThrottle := !vmath.NearlyZero(math.Abs(m.rawThrottle), vmath.SmallNumber)
	moving := !vmath.NearlyZero(speed, 1) && hasThrottle
	started := !m.startMovingLast && moving && hasThrottle
	afterCooldown := started && (vmath.NearlyZero(m.startExtraPowerAt, vmath.SmallNumber) || m.now-m.startExtraPowerAt >= e.StartExtraPowerCooldown)

	dir := vmath.Sign(m.body.Transform().Forward().Dot(m.body.LinearVelocity()))
	opposite := moving && !started && vmath.Sign(m.rawThrottle)*dir < 0

	if opposite || afterCooldown {
		m.startExtraPowerAt = m.now
		m.startExtraPower = e.StartExtraPowerRatio
	}
	m.startMovingLast = moving
}

func (m *Movement) updateEngine() {
	e := m.cfg.Engine
	gear := m.gearbox.CurrentGear(m.boost)
	speed := m.body.LinearVelocity().Len()

	m.rpm = EngineRPM(gear.Ratio, e.DifferentialRatio, speed, m.minRPM, m.maxRPM)

	maxTorque := 0.0
	if !(m.gearbox.pending && m.cfg.Gearbox.ZeroTorqueWhenShifting) {
		maxTorque = e.TorqueCurve.Eval(m.rpm) * 100 * e.CustomTorqueMultiplier * m.boost
	}

	limitByRPM := e.LimitTorque && math.Abs(m.rpm-m.maxRPM) < vmath.SmallNumber
	limitBySpeed := e.LimitMaxSpeed && speed >= m.maxSpeedLimit()

	if limitByRPM || limitBySpeed {
		m.engineTorque = 0
	} else {
		m.engineTorque = maxTorque * m.throttle
	}

	drive := m.engineTorque * gear.Ratio * e.DifferentialRatio * e.TransmissionEfficiency
	if m.gearbox.reverse {
		drive = -drive
	}
	drive *= e.ExtraPowerRatio
	if m.rawThrottle < 0 {
		drive *= e.RearExtraPowerRatio
	}
	m.driveTorque = drive * m.startExtraPower
}

func (m *Movement) maxSpeedLimit() float64 {
	return m.cfg.Engine.MaxSpeedCurve.Eval(math.Abs(m.targetSteeringSpeed) - m.cfg.Steering.TurnRateModAngularSpeed)
}

// updateDriveForce withholds drive on a side the stabilizer is braking.
func (m *Movement) updateDriveForce() {
	fwd := m.body.Transform().Forward()
	sides := []struct {
		t          *TrackState
		stabilized bool
	}{
		{&m.right, m.stabilizerRight},
		{&m.left, m.stabilizerLeft},
	}
	for _, s := range sides {
		if s.stabilized {
			s.t.DriveTorque = 0
			s.t.DriveForce = vmath.Vec3{}
			continue
		}
		s.t.DriveTorque = s.t.TorqueTransfer * m.driveTorque
		s.t.DriveForce = fwd.Mul(s.t.Torque / m.cfg.Track.SprocketRadius)
	}
}
