package metrics

import (
	"math"

	"github.com/san-kum/trackdyn/internal/sim"
)

// TopSpeed is the largest absolute forward speed seen, cm/s.
type TopSpeed struct {
	name string
	max  float64
}

func NewTopSpeed() *TopSpeed {
	return &TopSpeed{name: "top_speed"}
}

func (m *TopSpeed) Name() string { return m.name }

func (m *TopSpeed) Observe(s sim.Sample) {
	m.max = math.Max(m.max, math.Abs(s.Speed))
}

func (m *TopSpeed) Value() float64 { return m.max }

func (m *TopSpeed) Reset() { m.max = 0 }

// TimeToSpeed measures seconds from the first throttle input until the
// absolute forward speed reaches target. Value is -1 until it does.
type TimeToSpeed struct {
	name    string
	target  float64
	start   float64
	started bool
	reached float64
	done    bool
}

func NewTimeToSpeed(target float64) *TimeToSpeed {
	return &TimeToSpeed{
		name:   "time_to_speed",
		target: target,
	}
}

func (m *TimeToSpeed) Name() string { return m.name }

func (m *TimeToSpeed) Observe(s sim.Sample) {
	if m.done {
		return
	}
	if !m.started {
		if s.Throttle == 0 {
			return
		}
		m.start = s.Time
		m.started = true
	}
	if math.Abs(s.Speed) >= m.target {
		m.reached = s.Time - m.start
		m.done = true
	}
}

func (m *TimeToSpeed) Value() float64 {
	if !m.done {
		return -1
	}
	return m.reached
}

func (m *TimeToSpeed) Reset() {
	m.start = 0
	m.started = false
	m.reached = 0
	m.done = false
}
