package vehicle

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vmath"
)

// Movement is one simulated vehicle bound to a host rigid body.
type Movement struct {
	cfg    *config.Vehicle
	body   dynamo.RigidBody
	caster dynamo.Caster

	log   *slog.Logger
	debug bool
	now   float64
	boost float64

	wheels      []WheelState
	left, right TrackState
	gearbox     *Gearbox
	moi         float64

	// inputs
	rawThrottle     float64
	rawThrottleKeep float64
	lastRawThrottle float64
	rawSteering     float64
	handbrake       bool
	movementEnabled bool

	throttle               float64
	steering               float64
	targetSteeringSpeed    float64
	effectiveSteeringSpeed float64
	autoBrakeSteering      bool

	brakeInput          float64
	stabilizerLeft      bool
	stabilizerRight     bool
	lastStabilizerBrake float64
	lastSpeedLimitBrake float64

	rpm, minRPM, maxRPM float64
	engineTorque        float64
	driveTorque         float64
	engineLoad          bool
	hullAngularSpeed    float64

	startExtraPower   float64
	startExtraPowerAt float64
	startMovingLast   bool

	activeFrictionPoints       int
	activeDrivenFrictionPoints int
	lineTraceRequested         bool
	animateWheels              bool

	sleeping   bool
	sleepTimer float64

	correction correction

	lastAntiRollover  float64
	antiRolloverValue float64

	sound   SoundParams
	lastRPM float64
}

// New binds a vehicle asset to a host body. cfg is copied, so later changes
// to it do not reach the vehicle.
func New(cfg *config.Vehicle, body dynamo.RigidBody, caster dynamo.Caster, opts ...Option) (*Movement, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", dynamo.ErrInvalidConfig)
	}
	if body == nil || caster == nil {
		return nil, fmt.Errorf("%w: body and caster are required", dynamo.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Movement{
		cfg:             cfg.Clone(),
		body:            body,
		caster:          caster,
		log:             discardLogger(),
		boost:           1,
		animateWheels:   true,
		movementEnabled: true,
		startExtraPower: 1,
	}

	gb, err := NewGearbox(m.cfg.Gearbox)
	if err != nil {
		return nil, err
	}
	m.gearbox = gb
	m.moi = m.cfg.Track.MOI()

	lo, hi := m.cfg.Engine.TorqueCurve.TimeRange()
	m.minRPM = math.Max(0, lo)
	m.maxRPM = math.Max(0, hi)

	m.wheels = make([]WheelState, len(m.cfg.Suspension.Wheels))
	for i := range m.wheels {
		m.wheels[i] = newWheelState(m.cfg.Wheel(i))
	}
	m.correction.cfg = m.cfg.Correction

	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func newWheelState(c config.WheelConfig) WheelState {
	return WheelState{
		Config:         c,
		SteerYaw:       c.Rotation.Yaw,
		PreviousLength: c.Length,
		VisualLength:   c.Length,
		ContactNormal:  vmath.Up,
	}
}

// Reset returns all controller state to rest and cancels a pending shift.
// The body itself is left to the host.
func (m *Movement) Reset() {
	m.gearbox.Reset()
	m.left, m.right = TrackState{}, TrackState{}
	for i := range m.wheels {
		m.wheels[i] = newWheelState(m.wheels[i].Config)
	}
	m.rawThrottle, m.rawThrottleKeep, m.lastRawThrottle = 0, 0, 0
	m.rawSteering, m.handbrake = 0, false
	m.throttle, m.steering = 0, 0
	m.targetSteeringSpeed, m.effectiveSteeringSpeed = 0, 0
	m.autoBrakeSteering = false
	m.brakeInput = 0
	m.stabilizerLeft, m.stabilizerRight = false, false
	m.lastStabilizerBrake, m.lastSpeedLimitBrake = 0, 0
	m.rpm, m.engineTorque, m.driveTorque = 0, 0, 0
	m.engineLoad = false
	m.hullAngularSpeed = 0
	m.startExtraPower, m.startExtraPowerAt, m.startMovingLast = 1, 0, false
	m.activeFrictionPoints, m.activeDrivenFrictionPoints = 0, 0
	m.sleeping, m.sleepTimer = false, 0
	m.correction.reset(m.cfg.Correction)
	m.lastAntiRollover, m.antiRolloverValue = 0, 0
	m.sound, m.lastRPM = SoundParams{}, 0
}

// SetThrottle sets the raw throttle in [-1, 1]. While the stabilizer brakes
// a side the applied value is held at full throttle and the request is kept
// for when it releases.
func (m *Movement) SetThrottle(v float64) {
	m.lastRawThrottle = m.rawThrottle
	if !m.movementEnabled {
		m.rawThrottle = 0
		return
	}
	v = vmath.Clamp(v, -1, 1)
	m.rawThrottleKeep = v
	if m.stabilizerLeft || m.stabilizerRight {
		v = 1
	}
	m.rawThrottle = v
}

// SetSteering sets the raw steering in [-1, 1]; positive turns right.
func (m *Movement) SetSteering(v float64) {
	if !m.movementEnabled {
		m.rawSteering = 0
		return
	}
	m.rawSteering = vmath.Clamp(v, -1, 1)
}

func (m *Movement) SetHandbrake(on bool) { m.handbrake = on }

func (m *Movement) EnableMovement() { m.movementEnabled = true }

// DisableMovement zeroes the inputs and ignores new ones until re-enabled.
func (m *Movement) DisableMovement() {
	m.movementEnabled = false
	m.SetSteering(0)
	m.SetThrottle(0)
}

func (m *Movement) MovementEnabled() bool { return m.movementEnabled }

func (m *Movement) HasInput() bool {
	return math.Abs(m.rawThrottle) > vmath.SmallNumber ||
		math.Abs(m.rawSteering) > vmath.SmallNumber ||
		m.handbrake
}

func (m *Movement) IsMoving() bool { return m.movementEnabled && m.HasInput() }

// ForwardSpeed is the hull speed signed by the direction of travel, cm/s.
func (m *Movement) ForwardSpeed() float64 {
	v := m.body.LinearVelocity()
	speed := v.Len()
	if m.body.Transform().Forward().Dot(v) < 0 {
		return -speed
	}
	return speed
}

// SetWheelsAnimation toggles visual suspension traces and wheel spin.
func (m *Movement) SetWheelsAnimation(on bool) { m.animateWheels = on }

// SetBoost changes the boost multiplier applied to torque, friction and shift latency.
func (m *Movement) SetBoost(b float64) { m.boost = b }

func (m *Movement) Config() *config.Vehicle { return m.cfg }
func (m *Movement) Body() dynamo.RigidBody  { return m.body }
func (m *Movement) Gearbox() *Gearbox       { return m.gearbox }
func (m *Movement) Now() float64            { return m.now }
func (m *Movement) Sleeping() bool          { return m.sleeping }

func (m *Movement) RawThrottle() float64 { return m.rawThrottle }
func (m *Movement) RawSteering() float64 { return m.rawSteering }
func (m *Movement) Throttle() float64    { return m.throttle }
func (m *Movement) Steering() float64    { return m.steering }

func (m *Movement) EngineRPM() float64    { return m.rpm }
func (m *Movement) MaxEngineRPM() float64 { return m.maxRPM }
func (m *Movement) EngineTorque() float64 { return m.engineTorque }
func (m *Movement) DriveTorque() float64  { return m.driveTorque }

// EngineLoaded reports that the throttle pushes the way the gear points.
// It is only tracked for wheeled vehicles.
func (m *Movement) EngineLoaded() bool { return m.engineLoad }

func (m *Movement) LeftTrack() TrackState  { return m.left }
func (m *Movement) RightTrack() TrackState { return m.right }

// Wheels returns a copy of the wheel states.
func (m *Movement) Wheels() []WheelState {
	return append([]WheelState(nil), m.wheels...)
}

// Grounded reports whether any wheel touched the ground on the last pass.
func (m *Movement) Grounded() bool { return m.activeFrictionPoints > 0 }

func (m *Movement) ActiveFrictionPoints() int { return m.activeFrictionPoints }

// AntiRollover is the last roll sensor value.
func (m *Movement) AntiRollover() float64 { return m.antiRolloverValue }

func (m *Movement) resetSleep() {
	m.sleeping = false
	m.sleepTimer = 0
}

// isSleeping waits out the sleep delay, then puts the body to sleep once both
// velocities fall under the thresholds. Angular speed is compared in deg/s.
func (m *Movement) isSleeping(dt float64) bool {
	s := m.cfg.Sleep
	if s.NeverSleep {
		m.resetSleep()
		return false
	}
	if !m.sleeping && m.sleepTimer < s.Delay {
		m.sleepTimer += dt
		return false
	}

	lin := m.body.LinearVelocity().LenSqr()
	ang := m.body.AngularVelocity().Mul(180 / math.Pi).LenSqr()
	if lin < s.LinearVelocity && ang < s.AngularVelocity {
		if !m.sleeping {
			m.sleeping = true
			m.sleepTimer = 0
			m.body.Sleep()
			if m.debug {
				m.log.Debug("vehicle asleep", "t", m.now)
			}
		}
	} else {
		m.resetSleep()
	}
	return m.sleeping
}
