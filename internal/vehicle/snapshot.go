package vehicle

import (
	"math"

	"github.com/san-kum/trackdyn/internal/vmath"
)

// CosmeticSnapshot is the compact state an observer needs to animate a
// vehicle it does not simulate.
type CosmeticSnapshot struct {
	EngineRPM uint8
	Left      int8
	Right     int8
	Steering  int8
}

func quantizeInt8(x float64) int8 {
	return int8(vmath.Clamp(vmath.RoundHalfFromZero(x), -127, 127))
}

// CosmeticSnapshot quantizes the current engine and track speeds.
func (m *Movement) CosmeticSnapshot() CosmeticSnapshot {
	var rpm uint8
	if m.maxRPM > 0 {
		rpm = uint8(math.Min(m.rpm, m.maxRPM) / m.maxRPM * 255)
	}
	return CosmeticSnapshot{
		EngineRPM: rpm,
		Left:      quantizeInt8(m.left.EffectiveAngularSpeed),
		Right:     quantizeInt8(m.right.EffectiveAngularSpeed),
		Steering:  quantizeInt8(m.effectiveSteeringSpeed),
	}
}

// ApplyCosmeticSnapshot restores the values carried by s and refreshes the
// sound parameters.
func (m *Movement) ApplyCosmeticSnapshot(s CosmeticSnapshot) {
	m.rpm = float64(s.EngineRPM) / 255 * m.maxRPM
	m.left.EffectiveAngularSpeed = float64(s.Left)
	m.right.EffectiveAngularSpeed = float64(s.Right)
	m.effectiveSteeringSpeed = float64(s.Steering)
	m.updateSound(0.01)
}
