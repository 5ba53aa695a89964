package control

import "github.com/san-kum/trackdyn/internal/vmath"

const (
	turnAroundStart = -0.1
	turnAroundHold  = 0.8
	sideways        = 0.1
	turnAroundDist  = 300.0
)

// Seek drives toward Target on the ground plane. Throttle and steering each
// run a PID on the remaining distance and heading error; a target behind
// the vehicle is reached by reversing while steering the other way.
type Seek struct {
	Target       vmath.Vec3
	ArriveRadius float64
	// ForceMaxSpeed skips the throttle PID and drives on the heading alignment alone.
	ForceMaxSpeed bool

	Throttle *PID
	Steering *PID

	started       bool
	initialLoc    vmath.Vec3
	initialDir    vmath.Vec3
	turningAround bool
	turningSide   bool
	arrived       bool
}

func NewSeek(target vmath.Vec3, throttle, steering *PID) *Seek {
	return &Seek{Target: target, ArriveRadius: 150, Throttle: throttle, Steering: steering}
}

// Arrived reports that the vehicle came within ArriveRadius of the target.
func (d *Seek) Arrived() bool { return d.arrived }

// Restart makes the next Compute take the current pose as the start.
func (d *Seek) Restart() {
	d.started = false
	d.arrived = false
	d.turningAround, d.turningSide = false, false
	d.Throttle.Reset()
	d.Steering.Reset()
}

func planar(v vmath.Vec3) vmath.Vec3 { return vmath.Vec3{v.X(), v.Y(), 0} }

func (d *Seek) Compute(s Status, _ float64) Input {
	if !d.started {
		d.initialLoc = s.Position
		d.initialDir = s.Forward
		d.started = true
	}

	dist := planar(d.Target.Sub(s.Position))
	if d.arrived || dist.Len() <= d.ArriveRadius {
		d.arrived = true
		return Input{Handbrake: true}
	}
	initial := planar(d.Target.Sub(d.initialLoc))
	fwd := planar(s.Forward)

	forwardFactor := fwd.Dot(vmath.SafeNormal(dist))
	err := vmath.Sign(forwardFactor)
	if l := initial.Len(); l > vmath.SmallNumber {
		err *= dist.Len() / l
	}
	throttlePID := d.Throttle.Step(err, 1-err)

	var in Input
	limit := turnAroundStart
	if d.turningAround {
		limit = turnAroundHold
	}
	switch {
	case forwardFactor < limit && (d.ForceMaxSpeed || dist.Len() > turnAroundDist):
		d.turningAround, d.turningSide = true, false
		in.Throttle = -1
	case forwardFactor > -sideways && forwardFactor < sideways:
		d.turningAround, d.turningSide = false, true
		in.Throttle = 0.6
	default:
		d.turningAround, d.turningSide = false, false
		if d.ForceMaxSpeed {
			in.Throttle = forwardFactor
		} else {
			in.Throttle = throttlePID
		}
	}

	yaw := vmath.NormalizeAxis(vmath.Deg(heading(dist) - heading(fwd)))
	pos := (180 - yaw) / 180
	steerErr := 1 - pos
	steerPID := d.Steering.Step(steerErr, pos)

	switch {
	case d.turningAround:
		in.Steering = 1
		if steerErr > 0 {
			in.Steering = -1
		}
	case d.turningSide:
		in.Steering = 1
		if steerErr < 0 {
			in.Steering = -1
		}
	default:
		in.Steering = steerPID
	}

	in.Throttle = vmath.Clamp(in.Throttle, -1, 1)
	in.Steering = vmath.Clamp(in.Steering, -1, 1)
	return in
}

// InitialHeading is the yaw in degrees of the pose the seek started from.
func (d *Seek) InitialHeading() float64 {
	return vmath.Deg(heading(d.initialDir))
}
