package vehicle

import (
	"math"

	"github.com/san-kum/trackdyn/internal/vmath"
)

func (m *Movement) updateSteering(dt float64, addForce bool) {
	s := m.cfg.Steering
	wheeled := m.cfg.Body.Wheeled

	fullFriction := true
	frictionRatio := 1.0

	if s.AngularVelocitySteering {
		if s.ActiveDrivenFrictionPts && len(m.wheels) > 0 {
			frictionRatio = float64(m.activeDrivenFrictionPoints) / float64(len(m.wheels))
			if frictionRatio >= s.FrictionThreshold {
				frictionRatio = math.Max(s.AirControl, frictionRatio)
			} else {
				fullFriction = false
			}
		}

		steeringUp := math.Round(vmath.Sign(m.steering)) == math.Round(vmath.Sign(m.rawSteering))
		if fullFriction || !steeringUp {
			if !vmath.NearlyZero(m.rawSteering, vmath.SmallNumber) {
				rate := s.DownRatio
				if steeringUp {
					rate = s.UpRatio
				}
				dir := 1.0
				if !wheeled && m.rawThrottle < 0 {
					dir = -1
				}
				limit := math.Abs(m.rawSteering)
				m.steering = vmath.Clamp(m.steering+vmath.Sign(m.rawSteering)*rate*dt*dir, -limit, limit)
			} else {
				m.steering = 0
			}
		}

		m.left.Input = 0
		m.right.Input = 0
	} else {
		m.steering = m.rawSteering
		m.left.Input = m.steering
		m.right.Input = -m.steering
	}

	fwdSpeed := m.ForwardSpeed()
	if s.UseCurve {
		zero := math.Min(s.Curve.Eval(0)+s.TurnRateModAngularSpeed, s.AngularSpeed)
		point := math.Min(s.Curve.Eval(fwdSpeed)+s.TurnRateModAngularSpeed, s.AngularSpeed)
		switch {
		case s.MaximizeZeroThrottle && vmath.NearlyZero(m.rawThrottle, vmath.SmallNumber):
			m.targetSteeringSpeed = m.steering * math.Max(zero, point)
			m.effectiveSteeringSpeed = m.targetSteeringSpeed
		case m.cfg.Engine.LimitMaxSpeed:
			if !vmath.NearlyZero(m.steering, vmath.SmallNumber) {
				m.targetSteeringSpeed = m.steering * zero
				m.effectiveSteeringSpeed = point * m.steering
			} else {
				m.targetSteeringSpeed = 0
				m.effectiveSteeringSpeed = 0
			}
		default:
			m.targetSteeringSpeed = m.steering * point
			m.effectiveSteeringSpeed = m.targetSteeringSpeed
		}
	} else {
		m.targetSteeringSpeed = m.steering * s.AngularSpeed
		m.effectiveSteeringSpeed = m.targetSteeringSpeed
	}

	speed := m.body.LinearVelocity().Len()
	m.autoBrakeSteering = speed >= s.AutoBrakeSteeringThreshold &&
		vmath.NearlyEqual(math.Abs(m.rawSteering), 1, vmath.SmallNumber) &&
		vmath.NearlyZero(m.rawThrottle, vmath.SmallNumber)

	if s.AngularVelocitySteering {
		m.setSteeringVelocity(fwdSpeed, frictionRatio, fullFriction, addForce)
	}

	if wheeled && fullFriction {
		for i := range m.wheels {
			if m.wheels[i].Config.SteeringWheel {
				m.wheels[i].SteerYaw = m.effectiveSteeringSpeed
			}
		}
	}
}

// setSteeringVelocity writes the body yaw rate directly. Internally it works
// in deg/s; the body takes rad/s.
func (m *Movement) setSteeringVelocity(fwdSpeed, frictionRatio float64, fullFriction, addForce bool) {
	body := m.body.Transform()
	local := body.InverseTransformVector(m.body.AngularVelocity()).Mul(180 / math.Pi)

	target := m.effectiveSteeringSpeed
	if m.cfg.Steering.ActiveDrivenFrictionPts {
		target *= frictionRatio
	}

	if m.cfg.Body.Wheeled {
		// car mode: yaw rate follows from the turn radius of the wheelbase
		if sin := math.Sin(vmath.Rad(target)); sin != 0 {
			radius := m.cfg.Body.TransmissionLength / sin
			heading := math.Abs(body.Forward().Dot(vmath.SafeNormal(m.body.LinearVelocity())))
			target = vmath.Deg(fwdSpeed * heading / radius)
		}
	}

	if vmath.NearlyZero(m.rawSteering, vmath.SmallNumber) {
		m.effectiveSteeringSpeed = 0
		return
	}

	set := true
	if m.autoBrakeSteering {
		set = math.Abs(local.Z()) < math.Abs(target)
	}
	if addForce && set && fullFriction {
		local[2] = target
		m.body.SetAngularVelocity(body.TransformVector(local.Mul(math.Pi / 180)))
	}
}

func (m *Movement) updateThrottle(dt float64) {
	e := m.cfg.Engine
	raw := math.Abs(m.rawThrottle)

	if m.cfg.Body.Wheeled {
		m.left.TorqueTransfer = raw * e.TorqueTransferThrottleFactor
		m.right.TorqueTransfer = raw * e.TorqueTransferThrottleFactor
	} else {
		for _, t := range []*TrackState{&m.left, &m.right} {
			steer := t.Input
			if raw > vmath.SmallNumber {
				steer = math.Max(0, steer)
			}
			t.TorqueTransfer = raw*e.TorqueTransferThrottleFactor + steer*e.TorqueTransferSteeringFactor
		}
	}

	if math.Abs(m.left.TorqueTransfer) > vmath.SmallNumber || math.Abs(m.right.TorqueTransfer) > vmath.SmallNumber {
		m.throttle += e.ThrottleUpRatio * dt
	} else {
		m.throttle -= e.ThrottleDownRatio * dt
	}
	m.throttle = vmath.Clamp(m.throttle, 0, 1)
}
