package scenario

import (
	"fmt"
	"sort"

	"github.com/san-kum/trackdyn/internal/control"
	"github.com/san-kum/trackdyn/internal/vmath"
)

// PIDSpec mirrors control.PID without its running state.
type PIDSpec struct {
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
	ErrMin float64 `yaml:"err_min"`
	ErrMax float64 `yaml:"err_max"`
}

func (p *PIDSpec) build(def PIDSpec) *control.PID {
	s := def
	if p != nil {
		s = *p
	}
	return control.NewPID(s.Kp, s.Ki, s.Kd, s.ErrMin, s.ErrMax)
}

var (
	defaultThrottlePID = PIDSpec{Kp: 2, Ki: 0.01, Kd: 0.5, ErrMin: -10, ErrMax: 10}
	defaultSteeringPID = PIDSpec{Kp: 3, Ki: 0, Kd: 0.2, ErrMin: -1, ErrMax: 1}
)

// DriverSpec selects and parameterizes a driver. Type is one of none,
// script, cruise or seek.
type DriverSpec struct {
	Type string `yaml:"type"`

	// script
	Keys []control.Keyframe `yaml:"keys"`

	// cruise
	Speed    float64 `yaml:"speed"`
	Steering float64 `yaml:"steering"`

	// seek
	Target        vmath.Vec3 `yaml:"target"`
	ArriveRadius  float64    `yaml:"arrive_radius"`
	ForceMaxSpeed bool       `yaml:"force_max_speed"`

	ThrottlePID *PIDSpec `yaml:"throttle_pid"`
	SteeringPID *PIDSpec `yaml:"steering_pid"`
}

type driverBuilder func(DriverSpec) control.Driver

var drivers = map[string]driverBuilder{
	"none": func(DriverSpec) control.Driver { return control.NewNone() },
	"script": func(d DriverSpec) control.Driver {
		return control.NewScript(d.Keys...)
	},
	"cruise": func(d DriverSpec) control.Driver {
		c := control.NewCruise(d.Speed, d.ThrottlePID.build(defaultThrottlePID))
		c.Steering = d.Steering
		return c
	},
	"seek": func(d DriverSpec) control.Driver {
		s := control.NewSeek(d.Target, d.ThrottlePID.build(defaultThrottlePID), d.SteeringPID.build(defaultSteeringPID))
		if d.ArriveRadius > 0 {
			s.ArriveRadius = d.ArriveRadius
		}
		s.ForceMaxSpeed = d.ForceMaxSpeed
		return s
	},
}

// Drivers lists the known driver types.
func Drivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build returns a new driver. An empty type means none.
func (d DriverSpec) Build() (control.Driver, error) {
	name := d.Type
	if name == "" {
		name = "none"
	}
	build, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("unknown driver: %s", name)
	}
	return build(d), nil
}
