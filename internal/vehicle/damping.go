package vehicle

import (
	"math"

	"github.com/san-kum/trackdyn/internal/vmath"
)

// DampVelocity applies per-axis dry and fluid friction to v for one step.
// No component changes sign.
func DampVelocity(v, dry, fluid vmath.Vec3, dt float64) vmath.Vec3 {
	var out vmath.Vec3
	for i := range v {
		s := vmath.Sign(v[i])
		next := v[i] - dt*(s*dry[i]+fluid[i]*v[i])
		if vmath.Sign(next) != s {
			next = 0
		}
		out[i] = next
	}
	return out
}

func (m *Movement) updateLinearDamping(dt float64) {
	d := m.cfg.Damping
	if !d.CustomLinear {
		return
	}
	body := m.body.Transform()
	local := body.InverseTransformVector(m.body.LinearVelocity())
	local = DampVelocity(local, d.DryLinear, d.FluidLinear, dt)
	m.body.SetLinearVelocity(body.TransformVector(local))
}

// updateAngularDamping works in deg/s so the coefficients match the linear ones in scale.
func (m *Movement) updateAngularDamping(dt float64) {
	d := m.cfg.Damping
	if !d.CustomAngular {
		return
	}
	body := m.body.Transform()
	local := body.InverseTransformVector(m.body.AngularVelocity()).Mul(180 / math.Pi)
	local = DampVelocity(local, d.DryAngular, d.FluidAngular, dt)
	m.body.SetAngularVelocity(body.TransformVector(local.Mul(math.Pi / 180)))
}

// updateAntiRollover samples the roll sensor. The value is exposed for the
// host; no corrective torque is applied.
func (m *Movement) updateAntiRollover() {
	a := m.cfg.AntiRollover
	dot := m.body.Transform().Up().Dot(vmath.Up)
	if dot > m.lastAntiRollover || dot >= a.ValueThreshold {
		m.antiRolloverValue = a.ForceCurve.Eval(dot)
	}
	m.lastAntiRollover = dot
}
