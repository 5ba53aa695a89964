package metrics

import (
	"github.com/san-kum/trackdyn/internal/sim"
)

// ShiftCount counts completed gear changes.
type ShiftCount struct {
	name   string
	last   int
	seen   bool
	shifts int
}

func NewShiftCount() *ShiftCount {
	return &ShiftCount{name: "shift_count"}
}

func (m *ShiftCount) Name() string { return m.name }

func (m *ShiftCount) Observe(s sim.Sample) {
	if m.seen && s.Gear != m.last {
		m.shifts++
	}
	m.last = s.Gear
	m.seen = true
}

func (m *ShiftCount) Value() float64 { return float64(m.shifts) }

func (m *ShiftCount) Reset() {
	m.last = 0
	m.seen = false
	m.shifts = 0
}

// BrakeEnergy integrates the brake ratio over time, in ratio-seconds.
type BrakeEnergy struct {
	name  string
	sum   float64
	last  float64
	ratio float64
	seen  bool
}

func NewBrakeEnergy() *BrakeEnergy {
	return &BrakeEnergy{name: "brake_energy"}
}

func (m *BrakeEnergy) Name() string { return m.name }

func (m *BrakeEnergy) Observe(s sim.Sample) {
	if m.seen {
		m.sum += m.ratio * (s.Time - m.last)
	}
	m.last = s.Time
	m.ratio = s.Brake
	m.seen = true
}

func (m *BrakeEnergy) Value() float64 { return m.sum }

func (m *BrakeEnergy) Reset() {
	m.sum = 0
	m.last = 0
	m.ratio = 0
	m.seen = false
}
