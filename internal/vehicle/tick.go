package vehicle

import "math"

// Tick advances the vehicle by dt seconds. It never fails: anomalies such as
// a lag spike or a bad correction are logged and defused in place.
func (m *Movement) Tick(dt float64, role Role) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		m.log.Warn("ignoring tick with invalid delta", "dt", dt)
		return
	}
	m.now += dt

	if role == RoleCosmeticOnly {
		m.updateWheelAnimation(dt)
		return
	}

	if m.HasInput() {
		m.resetSleep()
		if m.body.IsSleeping() {
			m.body.WakeUp()
		}
	}

	if !m.isSleeping(dt) {
		if role == RoleAuthoritative {
			m.simulate(dt)
		} else {
			m.updateSuspensionVisuals(dt)
			m.finishCorrection()
		}
	}

	m.updateWheelAnimation(dt)
}

func (m *Movement) simulate(dt float64) {
	m.updateSuspension(dt, true)
	m.updateFriction(dt, true)

	m.updateSteering(dt, true)
	m.updateThrottle(dt)

	m.gearbox.Advance(dt, m.rawThrottle, m.now)
	m.updateGearBox()
	m.updateBrake(dt)

	m.updateTracksVelocity(dt)
	m.updateHullVelocity()
	m.updateStartExtraPower()
	m.updateEngine()
	m.updateDriveForce()

	m.updateLinearDamping(dt)
	m.updateAngularDamping(dt)
	m.updateSound(dt)

	if m.cfg.AntiRollover.Enabled {
		m.updateAntiRollover()
	}

	if m.debug {
		m.log.Debug("tick",
			"t", m.now,
			"gear", m.gearbox.Current(),
			"rpm", m.rpm,
			"throttle", m.throttle,
			"steering", m.steering,
			"left", m.left.AngularSpeed,
			"right", m.right.AngularSpeed,
		)
	}
}
