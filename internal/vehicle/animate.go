package vehicle

import (
	"github.com/san-kum/trackdyn/internal/vmath"
)

// updateWheelAnimation spins the visual wheels from the effective track speed.
func (m *Movement) updateWheelAnimation(dt float64) {
	visual := m.cfg.Suspension.VisualCollisionRadius
	scale := 1.0
	if visual > vmath.SmallNumber {
		scale = m.cfg.Track.SprocketRadius / visual
	}

	for i := range m.wheels {
		w := &m.wheels[i]
		t := m.track(w)
		w.RotationAngle = vmath.NormalizeAxis(w.RotationAngle - vmath.Deg(t.EffectiveAngularSpeed)*dt*scale)

		yaw := w.Config.Rotation.Yaw
		if w.Config.SteeringWheel {
			yaw = w.SteerYaw
		}
		w.SteeringAngle = vmath.NormalizeAxis(yaw)
	}
}
