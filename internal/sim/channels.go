package sim

import (
	"fmt"
	"strconv"
)

// Channels lists the sample fields in telemetry column order.
var Channels = []string{
	"x", "y", "z", "yaw", "speed", "rpm", "gear", "reverse", "shifting",
	"throttle", "steering", "brake", "left_speed", "right_speed",
	"suspension", "grounded", "sleeping",
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Value returns the named channel of s; booleans read as 0 or 1.
func (s Sample) Value(channel string) (float64, bool) {
	switch channel {
	case "t", "time":
		return s.Time, true
	case "x":
		return s.X, true
	case "y":
		return s.Y, true
	case "z":
		return s.Z, true
	case "yaw":
		return s.Yaw, true
	case "speed":
		return s.Speed, true
	case "rpm":
		return s.RPM, true
	case "gear":
		return float64(s.Gear), true
	case "reverse":
		return boolValue(s.Reverse), true
	case "shifting":
		return boolValue(s.Shifting), true
	case "throttle":
		return s.Throttle, true
	case "steering":
		return s.Steering, true
	case "brake":
		return s.Brake, true
	case "left_speed":
		return s.LeftSpeed, true
	case "right_speed":
		return s.RightSpeed, true
	case "suspension":
		return s.Suspension, true
	case "grounded":
		return float64(s.Grounded), true
	case "sleeping":
		return boolValue(s.Sleeping), true
	}
	return 0, false
}

// Set stores v into the named channel of s.
func (s *Sample) Set(channel string, v float64) bool {
	switch channel {
	case "t", "time":
		s.Time = v
	case "x":
		s.X = v
	case "y":
		s.Y = v
	case "z":
		s.Z = v
	case "yaw":
		s.Yaw = v
	case "speed":
		s.Speed = v
	case "rpm":
		s.RPM = v
	case "gear":
		s.Gear = int(v)
	case "reverse":
		s.Reverse = v != 0
	case "shifting":
		s.Shifting = v != 0
	case "throttle":
		s.Throttle = v
	case "steering":
		s.Steering = v
	case "brake":
		s.Brake = v
	case "left_speed":
		s.LeftSpeed = v
	case "right_speed":
		s.RightSpeed = v
	case "suspension":
		s.Suspension = v
	case "grounded":
		s.Grounded = int(v)
	case "sleeping":
		s.Sleeping = v != 0
	default:
		return false
	}
	return true
}

// Series extracts one channel and the matching times from samples.
func Series(samples []Sample, channel string) (times, values []float64, err error) {
	if _, ok := (Sample{}).Value(channel); !ok {
		return nil, nil, fmt.Errorf("unknown channel %q", channel)
	}
	times = make([]float64, len(samples))
	values = make([]float64, len(samples))
	for i, s := range samples {
		times[i] = s.Time
		values[i], _ = s.Value(channel)
	}
	return times, values, nil
}

// Record formats s as strings in Channels order, prefixed by the time.
func (s Sample) Record() []string {
	row := make([]string, 0, len(Channels)+1)
	row = append(row, strconv.FormatFloat(s.Time, 'f', 6, 64))
	for _, ch := range Channels {
		v, _ := s.Value(ch)
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	return row
}
