package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/trackdyn/internal/curve"
	"github.com/san-kum/trackdyn/internal/vmath"
)

// Presets maps a vehicle type to a builder. Each call returns a fresh asset.
var Presets = map[string]func() *Vehicle{
	"tank": tankPreset,
	"apc":  apcPreset,
	"car":  carPreset,
}

func tankPreset() *Vehicle {
	cfg := DefaultConfig()
	cfg.Name = "tank"
	cfg.Suspension.Wheels = TrackWheels(6, 90, 130, -40)
	cfg.Brake.StabilizerMinHullVelocity = 8
	return cfg
}

// apcPreset is an 8x8 wheeled carrier that steers with its front axles.
func apcPreset() *Vehicle {
	cfg := DefaultConfig()
	cfg.Name = "apc"
	cfg.Body.Wheeled = true
	cfg.Body.Mass = 14000
	cfg.Body.HalfExtent = vmath.Vec3{350, 140, 90}

	cfg.Suspension.Wheels = wheeledAxles(4, 150, 135, -50, 2, 4)
	cfg.Suspension.DefaultStiffness = 5000000

	cfg.Steering.AngularVelocitySteering = false
	cfg.Steering.AngularSpeed = 25

	cfg.Gearbox.ShiftLatency = 0.3
	cfg.Gearbox.ZeroTorqueWhenShifting = true
	cfg.Engine.ScaleForceToActiveFrictionPts = true
	return cfg
}

// carPreset is a rear wheel drive 4x2 using the turn radius steering model.
func carPreset() *Vehicle {
	cfg := DefaultConfig()
	cfg.Name = "car"
	cfg.Body.Wheeled = true
	cfg.Body.Mass = 1500
	cfg.Body.TransmissionLength = 260
	cfg.Body.HalfExtent = vmath.Vec3{220, 90, 60}
	cfg.Body.COMOffset = vmath.Vec3{0, 0, -20}

	cfg.Track = TrackConfig{SprocketMass: 20, SprocketRadius: 33, TrackMass: 20}

	s := &cfg.Suspension
	s.Wheels = wheeledAxles(2, 260, 80, -20, 1, 1)
	for i := range s.Wheels {
		s.Wheels[i].DrivingWheel = s.Wheels[i].Location.X() < 0
	}
	s.DefaultLength = 20
	s.DefaultCollisionRadius = 33
	s.VisualCollisionRadius = 33
	s.DefaultStiffness = 1050000
	s.DefaultCompressionDamping = 600000
	s.DefaultDecompressionDamping = 600000

	cfg.Engine.DifferentialRatio = 3.7
	cfg.Engine.ExtraPowerRatio = 10
	cfg.Engine.TorqueCurve = curve.Points(0, 200, 4000, 280, 6000, 250, 6500, 0)
	cfg.Engine.ScaleForceToActiveFrictionPts = true

	cfg.Gearbox.Gears = []Gear{
		{Ratio: 3.2, DownRatio: 0.15, UpRatio: 0.9},
		{Ratio: 0, DownRatio: 0.15, UpRatio: 0.9},
		{Ratio: 3.5, DownRatio: 0.15, UpRatio: 0.85},
		{Ratio: 2.2, DownRatio: 0.35, UpRatio: 0.85},
		{Ratio: 1.5, DownRatio: 0.35, UpRatio: 0.85},
		{Ratio: 1.1, DownRatio: 0.35, UpRatio: 0.85},
		{Ratio: 0.85, DownRatio: 0.35, UpRatio: 0.9},
	}
	cfg.Gearbox.ShiftLatency = 0.25
	cfg.Gearbox.ZeroTorqueWhenShifting = true

	cfg.Steering.AngularSpeed = 35
	cfg.Steering.Curve = curve.Points(0, 35, 1500, 25, 4000, 10)
	cfg.Steering.UseCurve = true
	cfg.Steering.UpRatio = 2
	cfg.Steering.DownRatio = 3

	cfg.Brake.Force = 60
	cfg.Brake.Stabilizer = false
	cfg.Friction.Static = Ellipse{X: 1.1, Y: 1.2}
	cfg.Friction.Kinetic = Ellipse{X: 0.8, Y: 0.9}
	return cfg
}

// wheeledAxles lays out n axles from the front, the first steerAxles of which
// steer and the first driveAxles of which are driven.
func wheeledAxles(n int, spacing, halfWidth, height float64, steerAxles, driveAxles int) []WheelConfig {
	wheels := make([]WheelConfig, 0, 2*n)
	front := spacing * float64(n-1) / 2
	for axle := 0; axle < n; axle++ {
		x := front - spacing*float64(axle)
		for _, right := range []bool{false, true} {
			side, y := "l", -halfWidth
			if right {
				side, y = "r", halfWidth
			}
			wheels = append(wheels, WheelConfig{
				Name:          fmt.Sprintf("axle%d_%s", axle, side),
				Location:      vmath.Vec3{x, y, height},
				RightTrack:    right,
				DrivingWheel:  axle < driveAxles,
				SteeringWheel: axle < steerAxles,
			})
		}
	}
	return wheels
}

func GetPreset(name string) *Vehicle {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
