package vehicle

import "github.com/san-kum/trackdyn/internal/vmath"

// SoundParams are smoothed engine values for an audio layer.
type SoundParams struct {
	RPMRatio   float64
	TurboRatio float64
	Load       float64
}

func (m *Movement) updateSound(dt float64) {
	s := m.cfg.Sound

	target := 0.1
	if !m.gearbox.pending {
		target = 0
		if m.maxRPM > 0 {
			target = m.rpm / m.maxRPM
		}
	}
	m.sound.RPMRatio = vmath.InterpConstantTo(m.sound.RPMRatio, target, dt, s.RPMInterpSpeed)

	if m.sound.RPMRatio > m.sound.TurboRatio {
		m.sound.TurboRatio = m.sound.RPMRatio
	} else {
		m.sound.TurboRatio = vmath.InterpConstantTo(m.sound.TurboRatio, 0, dt, s.TurboInterpSpeed)
	}

	m.sound.Load = vmath.InterpConstantTo(m.sound.Load, m.rpm-m.lastRPM, dt, s.LoadInterpSpeed)
	m.lastRPM = m.rpm
}

// Sound returns the smoothed audio parameters.
func (m *Movement) Sound() SoundParams { return m.sound }
