package control

import (
	"math"

	"github.com/san-kum/trackdyn/internal/vehicle"
	"github.com/san-kum/trackdyn/internal/vmath"
)

// Input is one tick worth of driver commands.
type Input struct {
	Throttle  float64 `yaml:"throttle"`
	Steering  float64 `yaml:"steering"`
	Handbrake bool    `yaml:"handbrake"`
}

// Apply forwards the input to the vehicle.
func (in Input) Apply(m *vehicle.Movement) {
	m.SetThrottle(in.Throttle)
	m.SetSteering(in.Steering)
	m.SetHandbrake(in.Handbrake)
}

// Status is what a driver may observe about the vehicle.
type Status struct {
	Position     vmath.Vec3
	Forward      vmath.Vec3
	Velocity     vmath.Vec3
	ForwardSpeed float64
	Throttle     float64
	Steering     float64
}

func StatusOf(m *vehicle.Movement) Status {
	body := m.Body()
	tr := body.Transform()
	return Status{
		Position:     tr.Location,
		Forward:      tr.Forward(),
		Velocity:     body.LinearVelocity(),
		ForwardSpeed: m.ForwardSpeed(),
		Throttle:     m.RawThrottle(),
		Steering:     m.RawSteering(),
	}
}

// Driver computes inputs from the observed status at time t.
type Driver interface {
	Compute(s Status, t float64) Input
}

// DriverFunc adapts a plain function to a Driver.
type DriverFunc func(s Status, t float64) Input

func (f DriverFunc) Compute(s Status, t float64) Input { return f(s, t) }

// heading is the planar yaw of v in radians, positive toward +Y.
func heading(v vmath.Vec3) float64 {
	return math.Atan2(v.Y(), v.X())
}
