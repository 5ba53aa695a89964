package vehicle

import (
	"math"

	"github.com/san-kum/trackdyn/internal/vmath"
)

func (m *Movement) updateBrake(dt float64) {
	b := m.cfg.Brake
	movingForward := m.body.Transform().Forward().Dot(m.body.LinearVelocity()) >= 0
	hasThrottle := !vmath.NearlyZero(m.rawThrottle, vmath.SmallNumber)

	incremented := 0.0
	if b.AutoBrake {
		incremented = vmath.Clamp(m.brakeInput+b.AutoBrakeUpRatio.Eval(m.ForwardSpeed())*dt, 0, b.AutoBrakeFactor)

		if !hasThrottle && (m.cfg.Steering.AngularVelocitySteering || vmath.NearlyZero(m.steering, vmath.SmallNumber)) {
			m.brakeInput = incremented
		} else if hasThrottle && m.reversing(movingForward) {
			m.brakeInput = incremented
		} else if m.handbrake {
			m.brakeInput = incremented
		} else {
			m.brakeInput = 0
		}
	}

	m.left.BrakeRatio = m.brakeInput
	m.right.BrakeRatio = m.brakeInput

	if !m.cfg.Body.Wheeled && !m.cfg.Steering.AngularVelocitySteering && hasThrottle {
		// pivot brake on the inner track
		l, r := math.Abs(m.left.AngularSpeed), math.Abs(m.right.AngularSpeed)
		if m.left.Input < 0 && l >= r*b.SteeringBrakeTransfer {
			m.left.BrakeRatio = -m.left.Input * b.SteeringBrakeFactor
		} else if m.right.Input < 0 && r >= l*b.SteeringBrakeTransfer {
			m.right.BrakeRatio = -m.right.Input * b.SteeringBrakeFactor
		}
	}

	m.updateStabilizer(dt)
	m.updateSpeedLimitBrake(dt)

	if m.autoBrakeSteering && b.AutoBrake {
		m.brakeInput = incremented
		if (m.steering > 0 && movingForward) || (m.steering < 0 && !movingForward) {
			m.left.BrakeRatio = 0
			m.right.BrakeRatio = m.brakeInput
		} else {
			m.left.BrakeRatio = m.brakeInput
			m.right.BrakeRatio = 0
		}
	}
}

// reversing reports a throttle command against the travel direction while
// both tracks still spin the old way.
func (m *Movement) reversing(movingForward bool) bool {
	if movingForward == (m.rawThrottle > 0) {
		return false
	}
	ls, rs := vmath.Sign(m.left.AngularSpeed), vmath.Sign(m.right.AngularSpeed)
	if ls == 0 || rs == 0 {
		return false
	}
	ts := vmath.Sign(m.rawThrottle)
	return ls != ts && rs != ts
}

// updateStabilizer brakes the faster side to hold a straight line when no
// steering is requested.
func (m *Movement) updateStabilizer(dt float64) {
	b := m.cfg.Brake
	wasActive := m.stabilizerLeft || m.stabilizerRight
	m.stabilizerLeft, m.stabilizerRight = false, false

	if b.Stabilizer && vmath.NearlyZero(m.steering, vmath.SmallNumber) && m.hullAngularSpeed > b.StabilizerMinHullVelocity {
		m.lastStabilizerBrake = vmath.Clamp(m.lastStabilizerBrake+b.StabilizerBrakeUpRatio*dt, 0, b.StabilizerBrakeFactor)

		l, r := math.Abs(m.left.AngularSpeed), math.Abs(m.right.AngularSpeed)
		switch {
		case l-r > b.StabilizerActivationDelta:
			m.left.BrakeRatio = m.lastStabilizerBrake
			m.right.BrakeRatio = 0
			m.stabilizerLeft = true
		case r-l > b.StabilizerActivationDelta:
			m.right.BrakeRatio = m.lastStabilizerBrake
			m.left.BrakeRatio = 0
			m.stabilizerRight = true
		default:
			m.lastStabilizerBrake = 0
		}
	} else {
		m.lastStabilizerBrake = 0
	}

	if wasActive && !m.stabilizerLeft && !m.stabilizerRight {
		m.SetThrottle(m.rawThrottleKeep)
	}
}

func (m *Movement) updateSpeedLimitBrake(dt float64) {
	b := m.cfg.Brake
	unbraked := vmath.NearlyZero(m.left.BrakeRatio, vmath.SmallNumber) && vmath.NearlyZero(m.right.BrakeRatio, vmath.SmallNumber)
	if !unbraked || !m.cfg.Engine.LimitMaxSpeed || vmath.NearlyZero(m.effectiveSteeringSpeed, vmath.SmallNumber) {
		m.lastSpeedLimitBrake = 0
		return
	}
	if m.body.LinearVelocity().Len() < m.maxSpeedLimit() {
		m.lastSpeedLimitBrake = 0
		return
	}
	m.lastSpeedLimitBrake = vmath.Clamp(m.lastSpeedLimitBrake+b.SpeedLimitBrakeUpRatio*dt, 0, b.SpeedLimitBrakeFactor)
	m.left.BrakeRatio = m.lastSpeedLimitBrake
	m.right.BrakeRatio = m.lastSpeedLimitBrake
}
