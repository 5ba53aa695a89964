package vehicle

import (
	"math"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/vmath"
)

// FrictionCoefficient evaluates a friction ellipse for a sliding direction
// relative to the wheel forward axis.
func FrictionCoefficient(dir, forward vmath.Vec3, e config.Ellipse) float64 {
	d := vmath.SafeNormal(dir).Dot(forward)
	x := e.X * d
	y := e.Y * math.Sqrt(math.Max(0, 1-d*d))
	return math.Hypot(x, y)
}

func (m *Movement) track(w *WheelState) *TrackState {
	if w.Config.RightTrack {
		return &m.right
	}
	return &m.left
}

func (m *Movement) updateFriction(dt float64, addForce bool) {
	for _, t := range []*TrackState{&m.left, &m.right} {
		t.KineticFrictionTorque = 0
		t.RollingFrictionTorque = 0
		t.Kinetic = false
	}
	minLeft, minRight := math.Inf(1), math.Inf(1)

	cfg := m.cfg
	fr := cfg.Friction
	body := m.body.Transform()
	fwd, right, up := body.Forward(), body.Right(), body.Up()
	mass := m.body.Mass()
	com := m.body.CenterOfMass()
	unsprung := (cfg.Track.TrackMass + cfg.Track.SprocketMass) / mass

	for i := range m.wheels {
		w := &m.wheels[i]
		if !w.Grounded {
			w.Load = 0
			continue
		}
		tr := m.track(w)
		driven := !cfg.Body.Wheeled || w.Config.DrivingWheel
		normal := w.ContactNormal

		w.Load = vmath.ProjectOnto(w.Force, normal).Len()
		wheelDir := body.TransformVector(w.MountRotation().Rotate(vmath.Forward))

		var pointVel vmath.Vec3
		if fr.QueryPointVelocity {
			pointVel = m.body.PointVelocity(w.ContactPoint)
		} else {
			pointVel = m.body.LinearVelocity().Add(m.body.AngularVelocity().Cross(w.ContactPoint.Sub(com)))
		}

		contactVel := pointVel.Add(w.prevContactVelocity).Mul(0.5)
		w.prevContactVelocity = contactVel

		wheelVel := contactVel.Mul(-1)
		if driven {
			wheelVel = wheelVel.Add(wheelDir.Mul(tr.LinearSpeed))
		}
		rel := vmath.ProjectOnPlane(wheelVel, normal)

		muStatic := FrictionCoefficient(rel, wheelDir, fr.Static)
		muKinetic := FrictionCoefficient(rel, wheelDir, fr.Kinetic)

		axisX := vmath.SafeNormal(vmath.ProjectOnPlane(fwd, normal))
		axisY := vmath.SafeNormal(vmath.ProjectOnPlane(right, normal))

		var balanced vmath.Vec3
		if n := float64(m.activeFrictionPoints); n != 0 {
			gravity := vmath.ProjectOnPlane(vmath.Up.Mul(-m.caster.GravityZ()*mass/n), up)
			balanced = rel.Mul(mass / dt / n).Add(gravity)
		}

		// longitudinal friction is off for free rolling wheels
		long := 1.0
		if cfg.Body.Wheeled && !w.Config.DrivingWheel {
			long = 0
		}

		alongX := vmath.ProjectOnto(balanced, axisX)
		alongY := vmath.ProjectOnto(balanced, axisY)
		limitX, limitY := w.Load*fr.Static.X, w.Load*fr.Static.Y

		staticFriction := vmath.ClampSize(alongX.Mul(fr.Static.X*long*vmath.Sign(tr.BrakeRatio)), limitX).
			Add(vmath.ClampSize(alongY.Mul(fr.Static.Y), limitY))
		kineticFriction := vmath.ClampSize(alongX.Mul(fr.Kinetic.X*long), limitX).
			Add(vmath.ClampSize(alongY.Mul(fr.Kinetic.Y), limitY))

		drive := vmath.ProjectOnPlane(tr.DriveForce, normal)
		if cfg.Engine.ScaleForceToActiveFrictionPts && m.activeDrivenFrictionPoints != 0 {
			drive = drive.Mul(float64(len(m.wheels)) / float64(m.activeDrivenFrictionPoints))
		}
		staticDrive := drive.Mul(fr.Static.X * long)
		kineticDrive := drive.Mul(fr.Kinetic.X * long)

		// regime is picked from the drive force alone
		kinetic := staticDrive.Len() >= w.Load*muStatic

		var applied vmath.Vec3
		if kinetic {
			applied = vmath.ClampSize(kineticDrive.Add(kineticFriction), w.Load*muKinetic*m.boost)
			tr.Kinetic = true
		} else {
			applied = vmath.ClampSize(staticDrive.Add(staticFriction), w.Load*muStatic*m.boost)
			speed := pointVel.Dot(fwd) / cfg.Track.SprocketRadius
			if w.Config.RightTrack {
				minRight = math.Min(minRight, speed)
			} else {
				minLeft = math.Min(minLeft, speed)
			}
		}

		if addForce {
			m.body.AddForceAtLocation(applied.Mul(cfg.Engine.CustomForceMultiplier), w.ContactPoint)
		}

		dirMul := vmath.Sign(tr.AngularSpeed) * vmath.Sign(tr.TorqueTransfer)
		if m.gearbox.reverse {
			dirMul = -dirMul
		}
		if math.Abs(dirMul) < vmath.SmallNumber {
			dirMul = 1
		}

		if kinetic {
			if n := vmath.SafeNormal(kineticFriction); n.LenSqr() > vmath.SmallNumber {
				back := vmath.ProjectOnto(applied, n).Mul(-unsprung * dirMul)
				torque := body.InverseTransformVector(back).X() * cfg.Track.SprocketRadius
				tr.KineticFrictionTorque += torque * fr.KineticTorqueCoefficient
			}
		}

		rev := -vmath.Sign(tr.LinearSpeed)
		speedTerm := math.Pow(math.Abs(tr.LinearSpeed), fr.LinearSpeedPower) * fr.RollingVelocityCoefficientSquared * fr.RollingVelocityCoefficientSquared
		tr.RollingFrictionTorque += w.Load*fr.RollingCoefficient*rev + w.Load*speedTerm*rev

		if m.debug {
			m.log.Debug("friction", "wheel", w.Config.Name, "load", w.Load, "kinetic", kinetic, "force", applied.Len())
		}
	}

	// no-slip assumption for static contacts, written once the pass is complete
	if !math.IsInf(minLeft, 1) {
		m.left.AngularSpeed = minLeft
	}
	if !math.IsInf(minRight, 1) {
		m.right.AngularSpeed = minRight
	}
}
