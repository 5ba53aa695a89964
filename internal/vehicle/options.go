package vehicle

import (
	"io"
	"log/slog"
)

type Option func(*Movement)

// WithLogger routes anomaly warnings and debug traces to l.
func WithLogger(l *slog.Logger) Option {
	return func(m *Movement) {
		if l != nil {
			m.log = l
		}
	}
}

// WithClock starts the vehicle clock at start seconds.
func WithClock(start float64) Option {
	return func(m *Movement) { m.now = start }
}

// WithDebug enables per-tick debug traces.
func WithDebug(on bool) Option {
	return func(m *Movement) { m.debug = on }
}

func WithGearListener(fn GearListener) Option {
	return func(m *Movement) { m.gearbox.listener = fn }
}

// WithBoost scales engine torque, friction limits and shift latency.
func WithBoost(boost float64) Option {
	return func(m *Movement) { m.boost = boost }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
