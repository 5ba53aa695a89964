package control

import (
	"math"

	"github.com/san-kum/trackdyn/internal/vmath"
)

// VelocitySource supplies the avoidance velocity for the current status,
// typically from an external crowd or obstacle solver.
type VelocitySource func(s Status, t float64) vmath.Vec3

// Avoidance nudges throttle and steering toward an avoidance velocity. A
// diverted velocity is locked for LockAfterAvoid seconds, an accepted one
// for LockAfterClean.
type Avoidance struct {
	SteeringStep   float64 `yaml:"steering_step"`
	ThrottleStep   float64 `yaml:"throttle_step"`
	MaxHeadingBias float64 `yaml:"max_heading_bias"`
	LockAfterAvoid float64 `yaml:"lock_after_avoid"`
	LockAfterClean float64 `yaml:"lock_after_clean"`

	lockVelocity vmath.Vec3
	lockUntil    float64
}

func DefaultAvoidance() *Avoidance {
	return &Avoidance{
		SteeringStep:   0.5,
		ThrottleStep:   0.25,
		MaxHeadingBias: 0.2,
		LockAfterAvoid: 0.2,
		LockAfterClean: 0.01,
	}
}

// Locked reports whether a locked avoidance velocity is still in force at t.
func (a *Avoidance) Locked(t float64) bool { return t < a.lockUntil }

func (a *Avoidance) lock(v vmath.Vec3, t, d float64) {
	a.lockVelocity = v
	a.lockUntil = t + d
}

// Resolve picks the velocity to steer toward at t, honouring the lock.
func (a *Avoidance) Resolve(current, avoid vmath.Vec3, t float64) vmath.Vec3 {
	if current.LenSqr() < vmath.SmallNumber {
		return current
	}
	if a.Locked(t) {
		return a.lockVelocity
	}
	if !vmath.NearlyZeroVec(avoid.Sub(current), vmath.KindaSmallNumber) {
		a.lock(avoid, t, a.LockAfterAvoid)
		return avoid
	}
	a.lock(current, t, a.LockAfterClean)
	return current
}

// Bias adjusts in so the vehicle turns and speeds toward target.
func (a *Avoidance) Bias(in Input, current, target vmath.Vec3) Input {
	diff := heading(target) - heading(current)
	switch {
	case diff > math.Pi:
		diff -= 2 * math.Pi
	case diff < -math.Pi:
		diff += 2 * math.Pi
	}
	clamped := math.Min(math.Abs(diff), a.MaxHeadingBias) * vmath.Sign(diff)
	if diff > 0 {
		in.Steering = vmath.Clamp(in.Steering+a.SteeringStep, clamped, 1)
	} else if diff < 0 {
		in.Steering = vmath.Clamp(in.Steering-a.SteeringStep, -1, clamped)
	}

	want, have := target.LenSqr(), current.LenSqr()
	if want > have {
		in.Throttle = vmath.Clamp(in.Throttle+a.ThrottleStep*1.5, -1, 1)
	} else if want < have {
		in.Throttle = vmath.Clamp(in.Throttle-a.ThrottleStep*1.5, -1, 1)
	}
	return in
}

// Avoid wraps a driver with avoidance biasing.
type Avoid struct {
	Driver    Driver
	Source    VelocitySource
	Avoidance *Avoidance
}

func NewAvoid(d Driver, src VelocitySource) *Avoid {
	return &Avoid{Driver: d, Source: src, Avoidance: DefaultAvoidance()}
}

func (a *Avoid) Compute(s Status, t float64) Input {
	in := a.Driver.Compute(s, t)
	if a.Source == nil {
		return in
	}
	target := a.Avoidance.Resolve(s.Velocity, a.Source(s, t), t)
	return a.Avoidance.Bias(in, s.Velocity, target)
}
