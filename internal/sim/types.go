package sim

import (
	"math"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/control"
	"github.com/san-kum/trackdyn/internal/vehicle"
	"github.com/san-kum/trackdyn/internal/vmath"
	"github.com/san-kum/trackdyn/internal/world"
)

// Sample is one recorded tick of a run. Speeds are cm/s, track speeds rad/s,
// yaw degrees.
type Sample struct {
	Time       float64 `json:"t"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Yaw        float64 `json:"yaw"`
	Speed      float64 `json:"speed"`
	RPM        float64 `json:"rpm"`
	Gear       int     `json:"gear"`
	Reverse    bool    `json:"reverse"`
	Shifting   bool    `json:"shifting"`
	Throttle   float64 `json:"throttle"`
	Steering   float64 `json:"steering"`
	Brake      float64 `json:"brake"`
	LeftSpeed  float64 `json:"left_speed"`
	RightSpeed float64 `json:"right_speed"`
	Suspension float64 `json:"suspension"`
	Grounded   int     `json:"grounded"`
	Sleeping   bool    `json:"sleeping"`
}

func (s Sample) Position() vmath.Vec3 { return vmath.Vec3{s.X, s.Y, s.Z} }

// IsValid reports whether every float field is finite.
func (s Sample) IsValid() bool {
	for _, v := range [...]float64{
		s.X, s.Y, s.Z, s.Yaw, s.Speed, s.RPM, s.Throttle, s.Steering,
		s.Brake, s.LeftSpeed, s.RightSpeed, s.Suspension,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// SampleOf reads the current state of m.
func SampleOf(m *vehicle.Movement) Sample {
	v := m.View()
	tr := m.Body().Transform()
	fwd := tr.Forward()
	return Sample{
		Time:       v.Time,
		X:          tr.Location.X(),
		Y:          tr.Location.Y(),
		Z:          tr.Location.Z(),
		Yaw:        vmath.Deg(math.Atan2(fwd.Y(), fwd.X())),
		Speed:      v.ForwardSpeed,
		RPM:        v.RPM,
		Gear:       v.Gear,
		Reverse:    v.Reverse,
		Shifting:   v.Shifting,
		Throttle:   v.Throttle,
		Steering:   v.Steering,
		Brake:      math.Max(v.Left.BrakeRatio, v.Right.BrakeRatio),
		LeftSpeed:  v.Left.AngularSpeed,
		RightSpeed: v.Right.AngularSpeed,
		Suspension: v.MeanSuspensionLength(),
		Grounded:   v.GroundedCount(),
		Sleeping:   v.Sleeping,
	}
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(s Sample)

func (f ObserverFunc) OnStep(s Sample) { f(s) }

type Config struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	// RecordEvery keeps one sample per n ticks; 0 keeps none.
	RecordEvery   int  `yaml:"record_every"`
	ValidateState bool `yaml:"validate_state"`
}

func DefaultConfig() Config {
	return Config{Dt: 1.0 / 60, Duration: 10, RecordEvery: 1, ValidateState: true}
}

// Scenario is one vehicle on one ground with one driver. Drivers keep
// state, so scenarios run concurrently need their own.
type Scenario struct {
	Name    string
	Vehicle *config.Vehicle
	Driver  control.Driver
	Ground  *world.Ground
	// Start is the spawn point on the ground plane; the height is derived
	// from the suspension so every wheel starts in contact.
	Start vmath.Vec3
	// Yaw is the spawn heading in degrees.
	Yaw float64
	// Settle runs this many seconds with no input before the driver starts.
	Settle float64
	// Params are applied with vehicle.SetParam once the vehicle is built.
	Params map[string]float64
}

type Result struct {
	Name       string
	Samples    []Sample
	Metrics    map[string]float64
	Shifts     []vehicle.GearEvent
	StepsTaken int
	Final      vehicle.View

	pool *SamplePool
}

// Release hands the sample buffer back to the pool it came from. Samples
// must not be used afterwards.
func (r *Result) Release() {
	if r.pool != nil && r.Samples != nil {
		r.pool.Put(r.Samples)
	}
	r.Samples = nil
}
