package control

import (
	"math"

	"github.com/san-kum/trackdyn/internal/vmath"
)

// Cruise holds a target forward speed in cm/s with a PID on the throttle.
// Steering is passed through unchanged.
type Cruise struct {
	Target   float64
	Steering float64
	PID      *PID
}

func NewCruise(target float64, pid *PID) *Cruise {
	return &Cruise{Target: target, PID: pid}
}

func (c *Cruise) Compute(s Status, _ float64) Input {
	if math.Abs(c.Target) < vmath.SmallNumber {
		return Input{Steering: c.Steering, Handbrake: math.Abs(s.ForwardSpeed) < 10}
	}
	// error and position are fractions of the target speed
	pos := s.ForwardSpeed / c.Target
	err := 1 - pos
	throttle := c.PID.Step(err, pos) * vmath.Sign(c.Target)
	return Input{Throttle: vmath.Clamp(throttle, -1, 1), Steering: c.Steering}
}

func (c *Cruise) GetParams() map[string]float64 {
	p := c.PID.GetParams()
	p["target"] = c.Target
	p["steering"] = c.Steering
	return p
}

func (c *Cruise) SetParam(name string, value float64) error {
	switch name {
	case "target":
		c.Target = value
	case "steering":
		c.Steering = value
	default:
		return c.PID.SetParam(name, value)
	}
	return nil
}
