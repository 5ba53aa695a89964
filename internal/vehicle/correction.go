package vehicle

import (
	"math"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vmath"
)

// correction tracks a blended move toward an authoritative body state.
type correction struct {
	cfg      config.CorrectionConfig
	active   bool
	end      float64
	endState BodyState
}

func (c *correction) reset(cfg config.CorrectionConfig) {
	*c = correction{cfg: cfg}
}

// Correcting reports whether a blended correction window is open.
func (m *Movement) Correcting() bool { return m.correction.active }

// CorrectionEnd is the time the open correction window closes.
func (m *Movement) CorrectionEnd() float64 { return m.correction.end }

// ConditionalApplyBodyState applies state when it is flagged as needing an
// update, or when the authority sleeps while the local body is awake. The
// NeedsUpdate flag is cleared once the state is fully restored. It reports
// whether a correction was attempted.
func (m *Movement) ConditionalApplyBodyState(state *BodyState, cfg config.CorrectionConfig) bool {
	if state.Sleeping && !m.body.IsSleeping() {
		state.NeedsUpdate = true
	}
	if !state.NeedsUpdate {
		return false
	}
	m.correction.cfg = cfg
	if m.ApplyBodyState(*state) {
		state.NeedsUpdate = false
	}
	return true
}

// ApplyBodyState moves the body toward an authoritative state. Small errors
// are blended with corrective velocities over the fix time, large ones snap.
// It reports whether the state was fully restored with no corrective
// velocity left. Degenerate or non-unit rotations are rejected.
func (m *Movement) ApplyBodyState(state BodyState) bool {
	c := &m.correction
	cfg := c.cfg

	q := state.Rotation
	sizeSq := q.Dot(q)
	if sizeSq < vmath.KindaSmallNumber {
		m.log.Warn("rejecting body state", "err", dynamo.ErrDegenerateQuat)
		c.active = false
		return false
	}
	if math.Abs(sizeSq-1) > vmath.KindaSmallNumber {
		m.log.Warn("rejecting body state", "err", dynamo.ErrNonUnitQuat, "size_sq", sizeSq)
		c.active = false
		return false
	}

	cur := m.body.Transform()
	curLin := m.body.LinearVelocity()

	pos := state.Position
	var fixLin vmath.Vec3
	blendPos := false
	if delta := state.Position.Sub(cur.Location); delta.LenSqr() < cfg.LinearDeltaThresholdSq && curLin.LenSqr() >= cfg.BodySpeedThresholdSq {
		pos = vmath.LerpVec(cur.Location, state.Position, cfg.LinearInterpAlpha)
		fixLin = state.Position.Sub(pos).Mul(cfg.LinearRecipFixTime)
		blendPos = true
	}

	rot := state.Rotation
	var fixAngDeg vmath.Vec3
	blendRot := false
	axis, angle := vmath.DeltaAxisAngle(cur.Rotation, state.Rotation)
	if math.Abs(angle) < cfg.AngularDeltaThreshold {
		rot = vmath.QuatLerp(cur.Rotation, state.Rotation, cfg.AngularInterpAlpha)
		fixAngDeg = vmath.SafeNormal(axis).Mul(vmath.Deg(angle) * (1 - cfg.AngularInterpAlpha) * cfg.AngularRecipFixTime)
		blendRot = true
	}

	if blendPos || blendRot {
		c.end = m.now + math.Max(1/cfg.LinearRecipFixTime, 1/cfg.AngularRecipFixTime)
		c.endState = state
	}

	m.body.SetTransform(vmath.NewTransform(pos, rot))
	m.body.SetLinearVelocity(state.LinearVelocity.Add(fixLin))
	m.body.SetAngularVelocity(state.AngularVelocity.Add(fixAngDeg.Mul(math.Pi / 180)))

	restored := fixLin.LenSqr() < vmath.KindaSmallNumber && fixAngDeg.LenSqr() < vmath.KindaSmallNumber
	c.active = !restored

	awake := !m.body.IsSleeping()
	if awake && state.Sleeping && restored {
		m.body.Sleep()
	} else if !awake {
		m.body.WakeUp()
	}

	if m.debug {
		m.log.Debug("body state applied", "restored", restored, "blend_pos", blendPos, "blend_rot", blendRot)
	}
	return restored
}

// finishCorrection snaps to the target state once the window has elapsed,
// tightening the thresholds for the next correction.
func (m *Movement) finishCorrection() {
	c := &m.correction
	if !c.active || m.now < c.end {
		return
	}
	c.active = false
	c.cfg.LinearDeltaThresholdSq /= 2
	c.cfg.AngularDeltaThreshold /= 2
	c.cfg.LinearRecipFixTime *= 2
	c.cfg.AngularRecipFixTime *= 2
	if m.debug {
		m.log.Debug("forcing body correction", "linear_recip_fix_time", c.cfg.LinearRecipFixTime)
	}
	m.ApplyBodyState(c.endState)
}
