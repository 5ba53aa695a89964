package vehicle

import (
	"fmt"

	"github.com/san-kum/trackdyn/internal/dynamo"
)

var _ dynamo.Configurable = (*Movement)(nil)

// GetParams returns the tunables that may be changed between ticks.
func (m *Movement) GetParams() map[string]float64 {
	c := m.cfg
	return map[string]float64{
		"boost":                        m.boost,
		"stiffness_factor":             c.Suspension.StiffnessFactor,
		"compression_damping_factor":   c.Suspension.CompressionDampingFactor,
		"decompression_damping_factor": c.Suspension.DecompressionDampingFactor,
		"anti_slip_factor":             c.Suspension.AntiSlipFactor,
		"differential_ratio":           c.Engine.DifferentialRatio,
		"transmission_efficiency":      c.Engine.TransmissionEfficiency,
		"torque_multiplier":            c.Engine.CustomTorqueMultiplier,
		"extra_power_ratio":            c.Engine.ExtraPowerRatio,
		"throttle_up_ratio":            c.Engine.ThrottleUpRatio,
		"throttle_down_ratio":          c.Engine.ThrottleDownRatio,
		"shift_latency":                c.Gearbox.ShiftLatency,
		"auto_box_latency":             c.Gearbox.AutoBoxLatency,
		"steering_angular_speed":       c.Steering.AngularSpeed,
		"steering_up_ratio":            c.Steering.UpRatio,
		"steering_down_ratio":          c.Steering.DownRatio,
		"brake_force":                  c.Brake.Force,
		"auto_brake_factor":            c.Brake.AutoBrakeFactor,
		"static_friction_x":            c.Friction.Static.X,
		"static_friction_y":            c.Friction.Static.Y,
		"kinetic_friction_x":           c.Friction.Kinetic.X,
		"kinetic_friction_y":           c.Friction.Kinetic.Y,
		"rolling_coefficient":          c.Friction.RollingCoefficient,
	}
}

func (m *Movement) SetParam(name string, value float64) error {
	c := m.cfg
	switch name {
	case "boost":
		m.boost = value
	case "stiffness_factor":
		c.Suspension.StiffnessFactor = value
	case "compression_damping_factor":
		c.Suspension.CompressionDampingFactor = value
	case "decompression_damping_factor":
		c.Suspension.DecompressionDampingFactor = value
	case "anti_slip_factor":
		c.Suspension.AntiSlipFactor = value
	case "differential_ratio":
		c.Engine.DifferentialRatio = value
	case "transmission_efficiency":
		c.Engine.TransmissionEfficiency = value
	case "torque_multiplier":
		c.Engine.CustomTorqueMultiplier = value
	case "extra_power_ratio":
		c.Engine.ExtraPowerRatio = value
	case "throttle_up_ratio":
		c.Engine.ThrottleUpRatio = value
	case "throttle_down_ratio":
		c.Engine.ThrottleDownRatio = value
	case "shift_latency":
		c.Gearbox.ShiftLatency = value
		m.gearbox.shiftLatency = value
	case "auto_box_latency":
		c.Gearbox.AutoBoxLatency = value
		m.gearbox.autoLatency = value
	case "steering_angular_speed":
		c.Steering.AngularSpeed = value
	case "steering_up_ratio":
		c.Steering.UpRatio = value
	case "steering_down_ratio":
		c.Steering.DownRatio = value
	case "brake_force":
		c.Brake.Force = value
	case "auto_brake_factor":
		c.Brake.AutoBrakeFactor = value
	case "static_friction_x":
		c.Friction.Static.X = value
	case "static_friction_y":
		c.Friction.Static.Y = value
	case "kinetic_friction_x":
		c.Friction.Kinetic.X = value
	case "kinetic_friction_y":
		c.Friction.Kinetic.Y = value
	case "rolling_coefficient":
		c.Friction.RollingCoefficient = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}
