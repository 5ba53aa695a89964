package vehicle

import (
	"math"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vmath"
)

// MaxSuspensionDt bounds the step used for spring forces on lag spikes.
const MaxSuspensionDt = 1.0 / 15

// mount is the world space frame of one suspension mount for this tick.
type mount struct {
	location vmath.Vec3
	up       vmath.Vec3
	end      vmath.Vec3
	radiusUp vmath.Vec3
	rotation vmath.Quat
}

func (m *Movement) mountFrame(w *WheelState, body vmath.Transform) mount {
	rot := w.MountRotation()
	up := body.TransformVector(rot.Rotate(vmath.Up))
	loc := body.TransformPosition(w.Config.Location)
	return mount{
		location: loc,
		up:       up,
		end:      loc.Sub(up.Mul(w.Config.Length + w.Config.MaxDrop)),
		radiusUp: up.Mul(w.Config.CollisionRadius),
		rotation: rot,
	}
}

// CameraAligned reports whether a camera looking along dir sees the hull
// within roughly 25 degrees of its forward axis. Hosts use it to decide
// when to call RequestLineTrace.
func CameraAligned(body vmath.Transform, dir vmath.Vec3) bool {
	cam := body.InverseTransformVector(dir)
	cam[2] = 0
	if cam.LenSqr() <= vmath.SmallNumber {
		return false
	}
	return math.Abs(cam.Normalize().Dot(vmath.Forward)) > 0.9
}

// RequestLineTrace asks for cheap line traces while the camera heuristic
// holds. It only takes effect with Suspension.SimplifiedByCamera.
func (m *Movement) RequestLineTrace(on bool) { m.lineTraceRequested = on }

func (m *Movement) useLineTrace() bool {
	s := m.cfg.Suspension
	switch {
	case s.Simplified:
		return true
	case s.SimplifiedWithoutThrottle && math.Abs(m.rawThrottle) < vmath.SmallNumber:
		return true
	case s.SimplifiedByCamera && m.lineTraceRequested:
		return true
	}
	return false
}

// trace finds the ground contact for one wheel. touched reports that the
// cast returned anything at all, valid that a usable contact was selected.
func (m *Movement) trace(w *WheelState, body vmath.Transform, f mount, line bool) (hit dynamo.Hit, touched, valid bool) {
	cfg := w.Config

	if math.Abs(cfg.CollisionWidth) > vmath.SmallNumber && !line {
		hits := m.caster.Cast(dynamo.CastQuery{Start: f.location, End: f.end, Radius: cfg.CollisionRadius})
		touched = len(hits) > 0
		best := math.MaxFloat64
		unrotate := f.rotation.Inverse()
		for _, h := range hits {
			if !h.Blocking {
				continue
			}
			var local vmath.Vec3
			if h.Penetrating {
				local = body.InverseTransformVector(h.ImpactNormal).Mul(h.PenetrationDepth - cfg.CollisionRadius)
			} else {
				local = body.InverseTransformPosition(h.ImpactPoint).Sub(cfg.Location)
			}
			local = unrotate.Rotate(local)
			if math.Abs(local.Y()) < cfg.CollisionWidth/2 && local.LenSqr() < best {
				best = local.LenSqr()
				hit = h
				valid = true
			}
		}
	} else {
		q := dynamo.CastQuery{Start: f.location, End: f.end, Radius: cfg.CollisionRadius}
		if line {
			q = dynamo.CastQuery{Start: f.location.Add(f.radiusUp), End: f.end.Sub(f.radiusUp), Line: true}
		}
		hit, valid = firstBlocking(m.caster.Cast(q))
		touched = valid
	}

	if line && valid {
		hit.Location = hit.ImpactPoint.Add(f.radiusUp)
		hit.Distance = hit.Location.Sub(f.location).Len()
	}

	if valid && body.InverseTransformPosition(hit.ImpactPoint).Z() >= cfg.Location.Z() {
		if m.debug {
			m.log.Debug("suspension hit above mount, forcing full compression", "wheel", cfg.Name)
		}
		hit.ImpactPoint = f.location
		hit.ImpactNormal = f.up
		hit.Distance = 0
	}
	return hit, touched, valid
}

func firstBlocking(hits []dynamo.Hit) (dynamo.Hit, bool) {
	var best dynamo.Hit
	found := false
	for _, h := range hits {
		if !h.Blocking {
			continue
		}
		if !found || h.Distance < best.Distance {
			best = h
			found = true
		}
	}
	return best, found
}

// SpringInput is everything the spring-damper needs for one wheel.
type SpringInput struct {
	Length         float64
	PreviousLength float64
	NewLength      float64
	Stiffness      float64
	Compression    float64
	Decompression  float64
	Mass           float64
	ActiveWheels   int
	Dt             float64
}

// SpringForce returns the scalar suspension force along the contact
// direction. It may be negative; clamping is the caller's policy.
func SpringForce(in SpringInput, s config.SuspensionConfig) float64 {
	ratio := vmath.Clamp((in.Length-in.NewLength)/in.Length, 0, 1)
	velocity := (in.NewLength - in.PreviousLength) / in.Dt

	stiffness := in.Stiffness * s.StiffnessFactor
	damping := in.Decompression * s.DecompressionDampingFactor
	if velocity < 0 {
		damping = in.Compression * s.CompressionDampingFactor
	}

	corrected := velocity
	if s.DampingCorrection && math.Abs(s.DampingCorrectionFactor) > vmath.SmallNumber && math.Abs(velocity) > vmath.SmallNumber {
		corrected = correctDampingVelocity(velocity, stiffness, damping, in.Mass, in.Dt, s.DampingCorrectionFactor)
	}

	if s.AdaptiveDamping && in.ActiveWheels > 0 {
		d := damping / 100
		n := float64(in.ActiveWheels)
		exp := 1 - math.Exp(-d*n/in.Mass*in.Dt)
		if math.Abs(exp) > vmath.SmallNumber {
			damping = exp * in.Mass / (n * in.Dt) * 100
		}
	}

	return (0-corrected)*damping + ratio*stiffness
}

// correctDampingVelocity solves the damped oscillator over one step and
// scales the discrete velocity by the ratio of analytic to explicit travel.
func correctDampingVelocity(velocity, stiffness, damping, mass, dt, factor float64) float64 {
	v := velocity / 100
	k := stiffness / 100
	b := damping / (2 * mass)
	a := math.Sqrt(math.Max(1, b*b-k/mass))
	amp := v / (2 * a)
	oldTravel := v * dt
	newTravel := math.Exp(-b*dt) * (amp*math.Exp(a*dt) - amp*math.Exp(-a*dt))
	return v * math.Pow(newTravel/oldTravel, factor)
}

func (m *Movement) updateSuspension(dt float64, addForce bool) {
	body := m.body.Transform()

	right := body.Right()
	if m.cfg.Suspension.AntiSlipFactor != 0 && addForce {
		m.body.AddForce(right.Mul(-right.Dot(m.body.LinearVelocity()) * m.cfg.Suspension.AntiSlipFactor))
	}

	if dt > MaxSuspensionDt {
		m.log.Warn("tick delta too large, clamping", "dt", dt, "max", MaxSuspensionDt)
		dt = MaxSuspensionDt
	}

	activeWheels := m.activeFrictionPoints
	m.activeFrictionPoints = 0
	m.activeDrivenFrictionPoints = 0

	line := m.useLineTrace()
	mass := m.body.Mass()

	for i := range m.wheels {
		w := &m.wheels[i]
		cfg := w.Config
		f := m.mountFrame(w, body)
		hit, touched, valid := m.trace(w, body, f, line)

		if valid {
			newLength := vmath.Clamp(hit.Distance, 0, cfg.Length)
			force := SpringForce(SpringInput{
				Length:         cfg.Length,
				PreviousLength: w.PreviousLength,
				NewLength:      newLength,
				Stiffness:      cfg.Stiffness,
				Compression:    cfg.CompressionDamping,
				Decompression:  cfg.DecompressionDamping,
				Mass:           mass,
				ActiveWheels:   activeWheels,
				Dt:             dt,
			}, m.cfg.Suspension)

			if force < 0 {
				if m.cfg.Suspension.ClampForce {
					force = 0
				} else {
					m.log.Warn("negative suspension force", "wheel", cfg.Name, "force", force)
				}
			}

			dir := f.up
			if m.cfg.Body.Wheeled {
				dir = hit.ImpactNormal
			}
			w.Force = dir.Mul(force)
			m.contact(w, hit, newLength, dt)

			m.activeFrictionPoints++
			if !m.cfg.Body.Wheeled || cfg.DrivingWheel {
				m.activeDrivenFrictionPoints++
			}
		} else {
			w.Force = vmath.Vec3{}
			m.release(w, dt)
		}

		if addForce && w.Force != (vmath.Vec3{}) {
			m.body.AddForceAtLocation(w.Force, f.location)
		}

		if touched && hit.Component != nil {
			if m.cfg.Suspension.NotifyHits {
				hit.Component.NotifyHit(hit.ImpactPoint, hit.ImpactNormal, w.Force.Mul(dt))
			}
			if hit.Component.Simulating() {
				hit.Component.AddForceAtLocation(w.Force.Mul(-1), f.location)
			}
		}
	}
}

// updateSuspensionVisuals refreshes contact and visual lengths without
// computing or applying any force.
func (m *Movement) updateSuspensionVisuals(dt float64) {
	if m.animateWheels {
		body := m.body.Transform()
		line := m.useLineTrace()
		for i := range m.wheels {
			w := &m.wheels[i]
			f := m.mountFrame(w, body)
			hit, _, valid := m.trace(w, body, f, line)
			if valid {
				m.contact(w, hit, vmath.Clamp(hit.Distance, 0, w.Config.Length), dt)
			} else {
				w.Force = vmath.Vec3{}
				m.release(w, dt)
			}
		}
	}

	if m.cfg.Body.Wheeled {
		rate := dt * (m.cfg.Steering.UpRatio + m.cfg.Steering.DownRatio) / 2
		for i := range m.wheels {
			if m.wheels[i].Config.SteeringWheel {
				m.wheels[i].SteerYaw = vmath.Lerp(m.wheels[i].SteerYaw, m.effectiveSteeringSpeed, rate)
			}
		}
	}
}

func (m *Movement) contact(w *WheelState, hit dynamo.Hit, length, dt float64) {
	w.ContactPoint = hit.ImpactPoint
	w.ContactNormal = hit.ImpactNormal
	w.PreviousLength = length
	w.Grounded = true
	w.Surface = hit.Surface

	if w.VisualLength < hit.Distance {
		w.VisualLength = vmath.Lerp(w.VisualLength, hit.Distance, vmath.Clamp(dt*m.cfg.Suspension.DropFactor, 0, 1))
	} else {
		w.VisualLength = hit.Distance
	}
	w.VisualLength = vmath.Clamp(w.VisualLength, 0, w.Config.Length+w.Config.MaxDrop)
}

func (m *Movement) release(w *WheelState, dt float64) {
	w.ContactPoint = vmath.Vec3{}
	w.ContactNormal = vmath.Up
	w.PreviousLength = w.Config.Length
	w.VisualLength = vmath.Lerp(w.VisualLength, w.Config.Length+w.Config.MaxDrop, vmath.Clamp(dt*m.cfg.Suspension.DropFactor, 0, 1))
	w.Grounded = false
	w.Surface = dynamo.SurfaceDefault
}
