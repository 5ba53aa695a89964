package metrics

import (
	"math"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/sim"
)

// MaxCompression is the deepest mean suspension compression seen, as a
// ratio of the full length. Airborne samples are skipped.
type MaxCompression struct {
	name   string
	length float64
	max    float64
}

func NewMaxCompression(length float64) *MaxCompression {
	return &MaxCompression{
		name:   "max_compression",
		length: length,
	}
}

func (m *MaxCompression) Name() string { return m.name }

func (m *MaxCompression) Observe(s sim.Sample) {
	if s.Grounded == 0 || m.length <= 0 {
		return
	}
	m.max = math.Max(m.max, 1-s.Suspension/m.length)
}

func (m *MaxCompression) Value() float64 { return m.max }

func (m *MaxCompression) Reset() { m.max = 0 }

// GroundContact is the fraction of samples with at least min wheels on the
// ground.
type GroundContact struct {
	name     string
	min      int
	grounded int
	samples  int
}

func NewGroundContact(min int) *GroundContact {
	return &GroundContact{
		name: "ground_contact",
		min:  min,
	}
}

func (m *GroundContact) Name() string { return m.name }

func (m *GroundContact) Observe(s sim.Sample) {
	m.samples++
	if s.Grounded >= m.min {
		m.grounded++
	}
}

func (m *GroundContact) Value() float64 {
	if m.samples == 0 {
		return 1.0
	}
	return float64(m.grounded) / float64(m.samples)
}

func (m *GroundContact) Reset() {
	m.grounded = 0
	m.samples = 0
}

// MeanLength is the average full suspension length over the wheels of cfg.
func MeanLength(cfg *config.Vehicle) float64 {
	n := len(cfg.Suspension.Wheels)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := range cfg.Suspension.Wheels {
		sum += cfg.Wheel(i).Length
	}
	return sum / float64(n)
}
